// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"freshmart/internal/domain/common"
)

var (
	ErrNotFound = fmt.Errorf("order: %w", common.ErrNotFound)

	ErrInvalidID         = fmt.Errorf("order: invalid id: %w", common.ErrValidation)
	ErrInvalidCustomerID = fmt.Errorf("order: invalid customerId: %w", common.ErrValidation)
	ErrInvalidNumber     = fmt.Errorf("order: invalid orderNumber: %w", common.ErrValidation)
	ErrInvalidItems      = fmt.Errorf("order: invalid items: %w", common.ErrValidation)
	ErrInvalidAmounts    = fmt.Errorf("order: invalid amounts: %w", common.ErrValidation)
	ErrInvalidAddress    = fmt.Errorf("order: invalid address snapshot: %w", common.ErrValidation)
	ErrInvalidCreatedAt  = fmt.Errorf("order: invalid createdAt: %w", common.ErrValidation)
)

// ========================================
// Snapshot structs (stored inside Order)
// ========================================

// AddressSnapshot is a frozen copy of postal fields at order time. Orders
// never reference address documents; later address edits or deletes cannot
// touch an existing order.
type AddressSnapshot struct {
	FirstName    string
	LastName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
}

// Item is an immutable snapshot of one cart line at order-creation time.
// UnitPrice is the product price at that instant; later catalog price
// changes never alter it.
type Item struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID         string
	CustomerID string

	// Number is the human-readable unique order identifier ("ORD...").
	Number string

	Items []Item

	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	ShippingAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal

	Status        Status
	PaymentStatus PaymentStatus
	PaymentMethod string

	ShippingAddress AddressSnapshot
	BillingAddress  AddressSnapshot

	DeliveryInstructions string
	TrackingNumber       string
	CancelReason         string

	OrderDate          time.Time
	ActualDeliveryDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version backs optimistic saves (SaveOptions.IfMatchVersion).
	Version int64
}

// New builds a fully-specified order. Items must be non-empty; amounts must
// be non-negative and Subtotal must equal the fold over line totals.
func New(
	id, customerID, number string,
	items []Item,
	subtotal, tax, shipping, discount decimal.Decimal,
	paymentMethod string,
	shippingAddr, billingAddr AddressSnapshot,
	deliveryInstructions string,
	now time.Time,
) (Order, error) {
	o := Order{
		ID:         strings.TrimSpace(id),
		CustomerID: strings.TrimSpace(customerID),
		Number:     strings.TrimSpace(number),

		Items: normalizeItems(items),

		Subtotal:       subtotal,
		TaxAmount:      tax,
		ShippingAmount: shipping,
		DiscountAmount: discount,
		TotalAmount:    subtotal.Add(tax).Add(shipping).Sub(discount),

		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: strings.TrimSpace(paymentMethod),

		ShippingAddress: normalizeAddressSnapshot(shippingAddr),
		BillingAddress:  normalizeAddressSnapshot(billingAddr),

		DeliveryInstructions: strings.TrimSpace(deliveryInstructions),

		OrderDate: now.UTC(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ItemFromCartLine freezes one cart line at the given unit price.
func ItemFromCartLine(productID, productName string, qty int, unitPrice decimal.Decimal) Item {
	return Item{
		ProductID:   strings.TrimSpace(productID),
		ProductName: strings.TrimSpace(productName),
		Quantity:    qty,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// ========================================
// Behavior (state machine)
// ========================================

// TransitionTo moves the order to target if the transition table allows it.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	if _, ok := transitions[target]; !ok {
		return ErrUnknownStatus
	}
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, target)
	}
	o.Status = target
	o.touch(now)
	return nil
}

func (o *Order) Confirm(now time.Time) error {
	return o.TransitionTo(StatusConfirmed, now)
}

func (o *Order) Ship(trackingNumber string, now time.Time) error {
	if err := o.TransitionTo(StatusShipped, now); err != nil {
		return err
	}
	o.TrackingNumber = strings.TrimSpace(trackingNumber)
	return nil
}

func (o *Order) Deliver(now time.Time) error {
	if err := o.TransitionTo(StatusDelivered, now); err != nil {
		return err
	}
	t := now.UTC()
	o.ActualDeliveryDate = &t
	return nil
}

func (o *Order) Cancel(reason string, now time.Time) error {
	if err := o.TransitionTo(StatusCancelled, now); err != nil {
		return err
	}
	o.CancelReason = strings.TrimSpace(reason)
	return nil
}

// SetPaymentStatus updates the parallel payment field. No coupling to the
// fulfillment status.
func (o *Order) SetPaymentStatus(p PaymentStatus, now time.Time) error {
	if _, err := ParsePaymentStatus(string(p)); err != nil {
		return err
	}
	o.PaymentStatus = p
	o.touch(now)
	return nil
}

func (o *Order) touch(now time.Time) {
	o.UpdatedAt = now.UTC()
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.CustomerID == "" {
		return ErrInvalidCustomerID
	}
	if o.Number == "" {
		return ErrInvalidNumber
	}
	if err := validateItems(o.Items); err != nil {
		return err
	}
	if o.Subtotal.IsNegative() || o.TaxAmount.IsNegative() ||
		o.ShippingAmount.IsNegative() || o.DiscountAmount.IsNegative() ||
		o.TotalAmount.IsNegative() {
		return ErrInvalidAmounts
	}
	if err := validateAddressSnapshot(o.ShippingAddress); err != nil {
		return err
	}
	if err := validateAddressSnapshot(o.BillingAddress); err != nil {
		return err
	}
	if o.CreatedAt.IsZero() || o.OrderDate.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return ErrInvalidItems
	}
	for _, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return ErrInvalidItems
		}
		if it.Quantity <= 0 {
			return ErrInvalidItems
		}
		if it.UnitPrice.IsNegative() || it.LineTotal.IsNegative() {
			return ErrInvalidItems
		}
	}
	return nil
}

func validateAddressSnapshot(s AddressSnapshot) error {
	if strings.TrimSpace(s.AddressLine1) == "" {
		return ErrInvalidAddress
	}
	if strings.TrimSpace(s.City) == "" {
		return ErrInvalidAddress
	}
	if strings.TrimSpace(s.Country) == "" {
		return ErrInvalidAddress
	}
	return nil
}

// ========================================
// Helpers
// ========================================

func normalizeAddressSnapshot(s AddressSnapshot) AddressSnapshot {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Phone = strings.TrimSpace(s.Phone)
	s.AddressLine1 = strings.TrimSpace(s.AddressLine1)
	s.AddressLine2 = strings.TrimSpace(s.AddressLine2)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.ZipCode = strings.TrimSpace(s.ZipCode)
	s.Country = strings.TrimSpace(s.Country)
	return s
}

func normalizeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{
			ProductID:   strings.TrimSpace(it.ProductID),
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return out
}
