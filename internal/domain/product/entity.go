// internal/domain/product/entity.go
package product

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"freshmart/internal/domain/common"
)

var (
	ErrInvalidProduct = fmt.Errorf("product: invalid: %w", common.ErrValidation)
	ErrNotFound       = fmt.Errorf("product: %w", common.ErrNotFound)
)

// Product is the catalog aggregate. The commerce core only consumes ID and
// price (cart totals, order item snapshots); the remaining fields mirror the
// catalog document so a single repository serves both sides.
type Product struct {
	ID            string
	Name          string
	SKU           string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	StockQuantity int
	Unit          string
	Brand         string
	CategoryID    string
	IsActive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(id, name, sku string, price decimal.Decimal, now time.Time) (Product, error) {
	p := Product{
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(name),
		SKU:       strings.TrimSpace(sku),
		Price:     price,
		IsActive:  true,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// EffectivePrice is what a cart line pays right now: the discount price when
// one is set and lower than the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() && p.DiscountPrice.LessThan(p.Price) {
		return *p.DiscountPrice
	}
	return p.Price
}

func (p Product) validate() error {
	if p.ID == "" {
		return ErrInvalidProduct
	}
	if p.Name == "" {
		return ErrInvalidProduct
	}
	if p.Price.IsNegative() {
		return ErrInvalidProduct
	}
	if p.CreatedAt.IsZero() {
		return ErrInvalidProduct
	}
	return nil
}
