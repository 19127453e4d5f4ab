// internal/domain/order/status.go
package order

import (
	"fmt"
	"strings"

	"freshmart/internal/domain/common"
)

var (
	ErrUnknownStatus = fmt.Errorf("order: unknown status: %w", common.ErrValidation)

	// ErrIllegalTransition: the requested status is not reachable from the
	// current one. Fulfillment only moves forward.
	ErrIllegalTransition = fmt.Errorf("order: illegal status transition: %w", common.ErrInvalidState)
)

// Status is the fulfillment state of an order.
//
// PENDING → CONFIRMED → SHIPPED → DELIVERED
// CANCELLED is reachable from any non-terminal state.
// DELIVERED and CANCELLED are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// PaymentStatus is tracked independently of fulfillment; the two state
// machines are deliberately not coupled.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := transitions[s]; !ok {
		return "", ErrUnknownStatus
	}
	return s, nil
}

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	p := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return p, nil
	}
	return "", ErrUnknownStatus
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
