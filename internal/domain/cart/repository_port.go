// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is the persistence port for Cart.
//
// Storage (Firestore):
// - collection: carts
// - docId: customerId (one cart per customer)
// - fields: customerId, items(array), totalAmount, totalItems, createdAt, updatedAt
type Repository interface {
	// GetByCustomerID returns the customer's cart.
	// Not-found policy: returns (nil, nil) — an absent cart is not an error.
	GetByCustomerID(ctx context.Context, customerID string) (*Cart, error)

	// Upsert saves the cart (create or update) under docId = cart.ID.
	Upsert(ctx context.Context, c *Cart) error

	// DeleteByCustomerID deletes the cart document entirely. Idempotent.
	DeleteByCustomerID(ctx context.Context, customerID string) error
}
