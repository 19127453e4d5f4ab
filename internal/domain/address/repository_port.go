// internal/domain/address/repository_port.go
package address

import "context"

// Repository is the persistence port for Address.
//
// Storage (Firestore):
// - collection: addresses
// - docId: address id
// - indexed lookups by customerId and (customerId, isDefault)
type Repository interface {
	// GetByID returns ErrNotFound when the id does not resolve.
	GetByID(ctx context.Context, id string) (Address, error)

	// ListByCustomerID returns all addresses of the customer (any order).
	ListByCustomerID(ctx context.Context, customerID string) ([]Address, error)

	// ListByCustomerIDAndType filters by the free-form type label.
	ListByCustomerIDAndType(ctx context.Context, customerID, addrType string) ([]Address, error)

	// GetDefaultByCustomerID returns the current default address, or
	// ErrNotFound when the customer has none.
	GetDefaultByCustomerID(ctx context.Context, customerID string) (Address, error)

	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, a Address) (Address, error)
	Delete(ctx context.Context, id string) error
}
