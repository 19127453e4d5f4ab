// internal/domain/order/repository_port.go
package order

import (
	"context"
	"time"

	"freshmart/internal/domain/common"
)

// Repository is the persistence port for Order.
//
// Storage (Firestore):
// - collection: orders, docId: order id
// - collection: orderNumbers, docId: order number (create-only uniqueness guard)
type Repository interface {
	// Queries. GetByID / GetByNumber return ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (Order, error)
	GetByNumber(ctx context.Context, number string) (Order, error)

	// ListAll returns every order, order date descending (administrative).
	ListAll(ctx context.Context) ([]Order, error)

	// ListByCustomerID returns the customer's orders, order date descending.
	ListByCustomerID(ctx context.Context, customerID string) ([]Order, error)
	ListByCustomerIDAndStatus(ctx context.Context, customerID string, s Status) ([]Order, error)
	ListByStatus(ctx context.Context, s Status) ([]Order, error)
	ListByPaymentStatus(ctx context.Context, p PaymentStatus) ([]Order, error)
	ListByDateRange(ctx context.Context, r common.TimeRange) ([]Order, error)

	CountByStatus(ctx context.Context, s Status) (int64, error)
	CountByDateRange(ctx context.Context, r common.TimeRange) (int64, error)

	// Create inserts a new order and reserves its number; returns
	// common.ErrConflict when the id or number already exists.
	Create(ctx context.Context, o Order) (Order, error)

	// Save replaces the order document. With opts.IfMatchVersion set the
	// write fails with common.ErrConflict on a version mismatch.
	Save(ctx context.Context, o Order, opts *common.SaveOptions) (Order, error)

	// Delete is the explicit administrative delete.
	Delete(ctx context.Context, id string) error
}

// TimeRangeContains is a helper for in-memory filtering in tests and small
// adapters: zero bounds are open.
func TimeRangeContains(r common.TimeRange, t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}
