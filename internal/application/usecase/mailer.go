// internal/application/usecase/mailer.go
package usecase

import (
	"context"

	orderdom "freshmart/internal/domain/order"
)

// Mailer sends transactional mail. Implementations must be best-effort from
// the caller's point of view: checkout never fails because mail did.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, o orderdom.Order) error
}
