// internal/domain/category/repository_port.go
package category

import "context"

// Repository is the persistence port for Category.
//
// Storage (Firestore):
// - collection: categories
// - docId: category id
// - slug carries a unique lookup (query Limit(1))
// - list queries filter isActive and order by sortOrder ascending
type Repository interface {
	// GetByID / GetBySlug return ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (Category, error)
	GetBySlug(ctx context.Context, slug string) (Category, error)

	// ListActive returns all active categories, sortOrder ascending.
	ListActive(ctx context.Context) ([]Category, error)

	// ListRoots returns active root categories, sortOrder ascending.
	ListRoots(ctx context.Context) ([]Category, error)

	// ListChildren returns the active sub-categories of parentID,
	// sortOrder ascending.
	ListChildren(ctx context.Context, parentID string) ([]Category, error)

	// SearchByName returns active categories whose name contains the query,
	// case-insensitive.
	SearchByName(ctx context.Context, query string) ([]Category, error)

	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, c Category) (Category, error)
	Delete(ctx context.Context, id string) error
}
