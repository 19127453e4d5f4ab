// internal/domain/product/repository_port.go
package product

import "context"

// Lookup is the read-only port the cart aggregator and order factory use to
// resolve prices. Implementations return ErrNotFound when the id does not
// resolve; any other error is a store failure and must propagate.
type Lookup interface {
	GetByID(ctx context.Context, id string) (Product, error)
}

// Repository is the full persistence port for the catalog.
type Repository interface {
	Lookup

	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) error
}
