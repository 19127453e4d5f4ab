// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	fsadapter "freshmart/internal/adapters/out/firestore"
	"freshmart/internal/adapters/out/mail"
	"freshmart/internal/application/usecase"
	"freshmart/internal/infra/config"
	firestoreinfra "freshmart/internal/infra/firestore"
	"freshmart/internal/platform/logger"
	"freshmart/internal/platform/secrets"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[boot] config load failed: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("[boot] logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// ─────────────────────────────────────────────────────────────
	// Lightweight healthz first so PORT is LISTENed quickly
	// ─────────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// ─────────────────────────────────────────────────────────────
	// Heavy deps; keep /healthz even on failure
	// ─────────────────────────────────────────────────────────────
	app, err := buildApp(ctx, cfg, zl)
	if err != nil {
		zl.Warn("app init failed, serving /healthz only", zap.Error(err))
	} else {
		defer app.Close()
		zl.Info("application wired",
			zap.String("project", cfg.FirestoreProjectID),
			zap.String("env", cfg.AppEnv))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown for Cloud Run
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		zl.Info("received signal, shutting down", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Error("server shutdown error", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	zl.Info("listening", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zl.Fatal("server error", zap.Error(err))
	}

	<-idleConnsClosed
	zl.Info("server stopped")
}

// app holds the wired usecases and the resources they borrow.
type app struct {
	Carts      *usecase.CartUsecase
	Addresses  *usecase.AddressUsecase
	Orders     *usecase.OrderUsecase
	Customers  *usecase.CustomerUsecase
	Categories *usecase.CategoryUsecase

	fs *firestoreinfra.ClientWrapper
}

func (a *app) Close() {
	if a == nil {
		return
	}
	if a.fs != nil {
		_ = a.fs.Close()
	}
}

func buildApp(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*app, error) {
	fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, err
	}
	if err := fs.Ping(ctx); err != nil {
		zl.Warn("firestore ping failed", zap.Error(err))
	}

	cartRepo := fsadapter.NewCartRepositoryFS(fs.Client)
	addressRepo := fsadapter.NewAddressRepositoryFS(fs.Client)
	customerRepo := fsadapter.NewCustomerRepositoryFS(fs.Client)
	productRepo := fsadapter.NewProductRepositoryFS(fs.Client)
	categoryRepo := fsadapter.NewCategoryRepositoryFS(fs.Client)
	orderRepo := fsadapter.NewOrderRepositoryFS(fs.Client)

	mailer := buildMailer(ctx, cfg, zl)
	locks := usecase.NewCustomerLocks()

	return &app{
		Carts:     usecase.NewCartUsecase(cartRepo, customerRepo, productRepo, locks),
		Addresses: usecase.NewAddressUsecase(addressRepo, locks),
		Orders: usecase.NewOrderUsecase(
			orderRepo, orderRepo, cartRepo, customerRepo, productRepo,
			mailer, locks, zl),
		Customers:  usecase.NewCustomerUsecase(customerRepo),
		Categories: usecase.NewCategoryUsecase(categoryRepo),
		fs:         fs,
	}, nil
}

// buildMailer resolves the SendGrid key from env or Secret Manager. Without a
// key the usecases run with a nil mailer (confirmation mail is best-effort).
func buildMailer(ctx context.Context, cfg *config.Config, zl *zap.Logger) usecase.Mailer {
	key := cfg.SendGridAPIKey
	if key == "" && cfg.SendGridAPIKeySecretName != "" {
		provider, err := secrets.NewProvider(ctx, cfg.FirestoreProjectID)
		if err != nil {
			zl.Warn("secret manager init failed, mail disabled", zap.Error(err))
			return nil
		}
		defer func() { _ = provider.Close() }()

		key, err = provider.Get(ctx, cfg.SendGridAPIKeySecretName)
		if err != nil {
			zl.Warn("sendgrid key resolution failed, mail disabled", zap.Error(err))
			return nil
		}
	}
	if key == "" {
		zl.Info("no sendgrid key configured, mail disabled")
		return nil
	}
	return mail.NewSendGridMailer(key, cfg.MailFrom, cfg.MailFromName, zl)
}
