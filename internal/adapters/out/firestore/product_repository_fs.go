// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	proddom "freshmart/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: products
// - docId: product id
// - price / discountPrice stored as decimal strings (see money_fs.go)
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (proddom.Product, error) {
	if r == nil || r.Client == nil {
		return proddom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return proddom.Product{}, proddom.ErrNotFound
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return proddom.Product{}, proddom.ErrNotFound
		}
		return proddom.Product{}, err
	}
	return docToProduct(snap)
}

func (r *ProductRepositoryFS) Exists(ctx context.Context, id string) (bool, error) {
	if r == nil || r.Client == nil {
		return false, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return false, nil
	}

	_, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *ProductRepositoryFS) Save(ctx context.Context, p proddom.Product) (proddom.Product, error) {
	if r == nil || r.Client == nil {
		return proddom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(p.ID)
	if pid == "" {
		return proddom.Product{}, errors.New("product_repository_fs: Save requires product.ID as docId")
	}

	if _, err := r.col().Doc(pid).Set(ctx, productDocFromDomain(p)); err != nil {
		return proddom.Product{}, err
	}
	return p, nil
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return proddom.ErrNotFound
	}

	_, err := r.col().Doc(pid).Delete(ctx)
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type productDoc struct {
	Name          string `firestore:"name"`
	SKU           string `firestore:"sku"`
	Price         string `firestore:"price"`
	DiscountPrice string `firestore:"discountPrice"`
	StockQuantity int    `firestore:"stockQuantity"`
	Unit          string `firestore:"unit"`
	Brand         string `firestore:"brand"`
	CategoryID    string `firestore:"categoryId"`
	IsActive      bool   `firestore:"isActive"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func productDocFromDomain(p proddom.Product) productDoc {
	d := productDoc{
		Name:          p.Name,
		SKU:           p.SKU,
		Price:         decToStr(p.Price),
		StockQuantity: p.StockQuantity,
		Unit:          p.Unit,
		Brand:         p.Brand,
		CategoryID:    p.CategoryID,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.DiscountPrice != nil {
		d.DiscountPrice = decToStr(*p.DiscountPrice)
	}
	return d
}

func docToProduct(snap *firestore.DocumentSnapshot) (proddom.Product, error) {
	var d productDoc
	if err := snap.DataTo(&d); err != nil {
		return proddom.Product{}, err
	}

	p := proddom.Product{
		ID:            snap.Ref.ID,
		Name:          d.Name,
		SKU:           d.SKU,
		Price:         strToDec(d.Price),
		StockQuantity: d.StockQuantity,
		Unit:          d.Unit,
		Brand:         d.Brand,
		CategoryID:    d.CategoryID,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.DiscountPrice != "" {
		dp := strToDec(d.DiscountPrice)
		p.DiscountPrice = &dp
	}
	return p, nil
}
