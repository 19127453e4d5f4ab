// internal/infra/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application environment settings.
type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	FirestoreProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`

	// SendGridAPIKey wins when set; otherwise SendGridAPIKeySecretName is
	// resolved through Secret Manager at boot.
	SendGridAPIKey           string `env:"SENDGRID_API_KEY"`
	SendGridAPIKeySecretName string `env:"SENDGRID_API_KEY_SECRET_NAME"`

	MailFrom     string `env:"MAIL_FROM" envDefault:"orders@freshmart.example"`
	MailFromName string `env:"MAIL_FROM_NAME" envDefault:"FreshMart"`
}

// Load reads the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
