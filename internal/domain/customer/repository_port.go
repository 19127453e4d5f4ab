// internal/domain/customer/repository_port.go
package customer

import "context"

// Repository is the persistence port for Customer.
//
// Storage (Firestore):
// - collection: customers
// - docId: customer id
// - email and phone carry unique lookups (query Limit(1))
type Repository interface {
	// GetByID / GetByEmail / GetByPhone return ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (Customer, error)
	GetByEmail(ctx context.Context, email string) (Customer, error)
	GetByPhone(ctx context.Context, phone string) (Customer, error)

	Exists(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)

	Save(ctx context.Context, c Customer) (Customer, error)
	Delete(ctx context.Context, id string) error
}
