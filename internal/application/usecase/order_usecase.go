// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"freshmart/internal/domain/cart"
	"freshmart/internal/domain/common"
	"freshmart/internal/domain/customer"
	orderdom "freshmart/internal/domain/order"
	"freshmart/internal/domain/product"
)

var (
	ErrOrderInvalidArgument = fmt.Errorf("order_usecase: invalid argument: %w", common.ErrValidation)

	// ErrEmptyCart: checkout requires a non-empty cart.
	ErrEmptyCart = fmt.Errorf("order_usecase: cart is empty or not found: %w", common.ErrInvalidState)
)

// numberRetries bounds order-number regeneration on write conflicts.
const numberRetries = 5

// CheckoutStore commits an order and clears the source cart as one logical
// transaction: both succeed or neither is visible. A duplicate order number
// surfaces as common.ErrConflict so the caller can regenerate and retry.
type CheckoutStore interface {
	CreateWithCartClear(ctx context.Context, o orderdom.Order, customerID string) (orderdom.Order, error)
}

// OrderDetails is the caller-supplied part of checkout: payment method and
// the address snapshots (values, never references).
type OrderDetails struct {
	PaymentMethod        string
	ShippingAddress      orderdom.AddressSnapshot
	BillingAddress       orderdom.AddressSnapshot
	DeliveryInstructions string
}

// OrderUsecase converts carts into immutable orders and drives the order
// status state machine.
type OrderUsecase struct {
	orders    orderdom.Repository
	checkout  CheckoutStore
	carts     cart.Repository
	customers customer.Repository
	products  product.Lookup
	mailer    Mailer
	locks     *CustomerLocks
	clock     Clock
	log       *zap.Logger
}

func NewOrderUsecase(
	orders orderdom.Repository,
	checkout CheckoutStore,
	carts cart.Repository,
	customers customer.Repository,
	products product.Lookup,
	mailer Mailer,
	locks *CustomerLocks,
	log *zap.Logger,
) *OrderUsecase {
	if locks == nil {
		locks = NewCustomerLocks()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderUsecase{
		orders:    orders,
		checkout:  checkout,
		carts:     carts,
		customers: customers,
		products:  products,
		mailer:    mailer,
		locks:     locks,
		clock:     systemClock{},
		log:       log,
	}
}

// WithClock swaps the time source (tests).
func (uc *OrderUsecase) WithClock(clock Clock) *OrderUsecase {
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// =======================
// Factory
// =======================

// CreateFromCart snapshots the customer's cart into a new PENDING order and
// clears the cart in the same store transaction. Unit prices and line
// totals are fixed at this instant; later catalog changes never alter them.
// Fails with ErrEmptyCart when the cart is absent or empty.
func (uc *OrderUsecase) CreateFromCart(ctx context.Context, customerID string, details OrderDetails) (orderdom.Order, error) {
	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return orderdom.Order{}, ErrOrderInvalidArgument
	}

	uc.locks.Lock(cid)
	defer uc.locks.Unlock(cid)

	c, err := uc.carts.GetByCustomerID(ctx, cid)
	if err != nil {
		return orderdom.Order{}, err
	}
	if c.IsEmpty() {
		return orderdom.Order{}, ErrEmptyCart
	}

	cust, err := uc.customers.GetByID(ctx, cid)
	if err != nil {
		return orderdom.Order{}, err
	}

	now := uc.clock.Now()

	items, subtotal, err := uc.snapshotItems(ctx, c)
	if err != nil {
		return orderdom.Order{}, err
	}
	if len(items) == 0 {
		// every line pointed at a product that no longer resolves
		return orderdom.Order{}, ErrEmptyCart
	}

	var saved orderdom.Order
	for attempt := 0; ; attempt++ {
		o, err := orderdom.New(
			uuid.NewString(),
			cid,
			orderdom.NewNumber(now),
			items,
			subtotal,
			decimal.Zero, decimal.Zero, decimal.Zero, // tax / shipping / discount: future pricing engine
			details.PaymentMethod,
			details.ShippingAddress,
			details.BillingAddress,
			details.DeliveryInstructions,
			now,
		)
		if err != nil {
			return orderdom.Order{}, err
		}

		saved, err = uc.checkout.CreateWithCartClear(ctx, o, cid)
		if err == nil {
			break
		}
		if errors.Is(err, common.ErrConflict) && attempt < numberRetries {
			uc.log.Warn("order number conflict, regenerating",
				zap.String("customerId", cid),
				zap.Int("attempt", attempt+1))
			continue
		}
		return orderdom.Order{}, err
	}

	uc.sendConfirmation(ctx, cust, saved)
	return saved, nil
}

// Create is the direct path bypassing the cart (administrative/bulk).
// An order number is assigned only when the caller did not supply one; a
// caller-supplied number that collides surfaces common.ErrConflict as is,
// regeneration applies only to numbers we assigned ourselves.
func (uc *OrderUsecase) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	now := uc.clock.Now()

	if strings.TrimSpace(o.ID) == "" {
		o.ID = uuid.NewString()
	}
	callerNumber := strings.TrimSpace(o.Number) != ""

	for attempt := 0; ; attempt++ {
		if !callerNumber {
			o.Number = orderdom.NewNumber(now)
		}

		saved, err := uc.orders.Create(ctx, o)
		if err == nil {
			return saved, nil
		}
		if !callerNumber && errors.Is(err, common.ErrConflict) && attempt < numberRetries {
			continue
		}
		return orderdom.Order{}, err
	}
}

// =======================
// Lifecycle
// =======================

func (uc *OrderUsecase) Confirm(ctx context.Context, id string) (orderdom.Order, error) {
	return uc.mutate(ctx, id, func(o *orderdom.Order) error {
		return o.Confirm(uc.clock.Now())
	})
}

func (uc *OrderUsecase) Ship(ctx context.Context, id, trackingNumber string) (orderdom.Order, error) {
	return uc.mutate(ctx, id, func(o *orderdom.Order) error {
		return o.Ship(trackingNumber, uc.clock.Now())
	})
}

func (uc *OrderUsecase) Deliver(ctx context.Context, id string) (orderdom.Order, error) {
	return uc.mutate(ctx, id, func(o *orderdom.Order) error {
		return o.Deliver(uc.clock.Now())
	})
}

func (uc *OrderUsecase) Cancel(ctx context.Context, id, reason string) (orderdom.Order, error) {
	return uc.mutate(ctx, id, func(o *orderdom.Order) error {
		return o.Cancel(reason, uc.clock.Now())
	})
}

// UpdateStatus applies a generic transition; targets outside the table
// fail with InvalidState.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, id, rawStatus string) (orderdom.Order, error) {
	target, err := orderdom.ParseStatus(rawStatus)
	if err != nil {
		return orderdom.Order{}, err
	}
	return uc.mutate(ctx, id, func(o *orderdom.Order) error {
		return o.TransitionTo(target, uc.clock.Now())
	})
}

// UpdatePaymentStatus updates the parallel payment field.
func (uc *OrderUsecase) UpdatePaymentStatus(ctx context.Context, id, rawStatus string) (orderdom.Order, error) {
	p, err := orderdom.ParsePaymentStatus(rawStatus)
	if err != nil {
		return orderdom.Order{}, err
	}
	return uc.mutate(ctx, id, func(o *orderdom.Order) error {
		return o.SetPaymentStatus(p, uc.clock.Now())
	})
}

// Delete is the explicit administrative delete.
func (uc *OrderUsecase) Delete(ctx context.Context, id string) error {
	return uc.orders.Delete(ctx, strings.TrimSpace(id))
}

// mutate resolves the order, applies fn, and saves with an optimistic
// version check so concurrent transitions cannot silently overwrite each
// other.
func (uc *OrderUsecase) mutate(ctx context.Context, id string, fn func(*orderdom.Order) error) (orderdom.Order, error) {
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.Order{}, ErrOrderInvalidArgument
	}

	o, err := uc.orders.GetByID(ctx, oid)
	if err != nil {
		return orderdom.Order{}, err
	}

	if err := fn(&o); err != nil {
		return orderdom.Order{}, err
	}

	v := o.Version
	return uc.orders.Save(ctx, o, &common.SaveOptions{IfMatchVersion: &v})
}

// =======================
// Queries
// =======================

func (uc *OrderUsecase) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	return uc.orders.GetByID(ctx, strings.TrimSpace(id))
}

func (uc *OrderUsecase) GetByNumber(ctx context.Context, number string) (orderdom.Order, error) {
	return uc.orders.GetByNumber(ctx, strings.TrimSpace(number))
}

// ListAll returns every order, most recent order date first (administrative).
func (uc *OrderUsecase) ListAll(ctx context.Context) ([]orderdom.Order, error) {
	return uc.orders.ListAll(ctx)
}

// ListByCustomer returns the customer's orders, most recent order date first.
func (uc *OrderUsecase) ListByCustomer(ctx context.Context, customerID string) ([]orderdom.Order, error) {
	return uc.orders.ListByCustomerID(ctx, strings.TrimSpace(customerID))
}

func (uc *OrderUsecase) ListByCustomerAndStatus(ctx context.Context, customerID, rawStatus string) ([]orderdom.Order, error) {
	s, err := orderdom.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	return uc.orders.ListByCustomerIDAndStatus(ctx, strings.TrimSpace(customerID), s)
}

func (uc *OrderUsecase) ListByStatus(ctx context.Context, rawStatus string) ([]orderdom.Order, error) {
	s, err := orderdom.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	return uc.orders.ListByStatus(ctx, s)
}

func (uc *OrderUsecase) ListByPaymentStatus(ctx context.Context, rawStatus string) ([]orderdom.Order, error) {
	p, err := orderdom.ParsePaymentStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	return uc.orders.ListByPaymentStatus(ctx, p)
}

func (uc *OrderUsecase) ListByDateRange(ctx context.Context, r common.TimeRange) ([]orderdom.Order, error) {
	return uc.orders.ListByDateRange(ctx, r)
}

func (uc *OrderUsecase) CountByStatus(ctx context.Context, rawStatus string) (int64, error) {
	s, err := orderdom.ParseStatus(rawStatus)
	if err != nil {
		return 0, err
	}
	return uc.orders.CountByStatus(ctx, s)
}

func (uc *OrderUsecase) CountByDateRange(ctx context.Context, r common.TimeRange) (int64, error) {
	return uc.orders.CountByDateRange(ctx, r)
}

// =======================
// Helpers
// =======================

// snapshotItems freezes the cart lines at current catalog prices. Lines
// whose product no longer resolves are dropped (they priced at zero in the
// cart as well); store failures propagate.
func (uc *OrderUsecase) snapshotItems(ctx context.Context, c *cart.Cart) ([]orderdom.Item, decimal.Decimal, error) {
	items := make([]orderdom.Item, 0, len(c.Items))
	subtotal := decimal.Zero

	for _, line := range c.Items {
		p, err := uc.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				uc.log.Warn("dropping cart line with unresolvable product",
					zap.String("customerId", c.CustomerID),
					zap.String("productId", line.ProductID))
				continue
			}
			return nil, decimal.Zero, err
		}

		it := orderdom.ItemFromCartLine(p.ID, p.Name, line.Quantity, p.EffectivePrice())
		items = append(items, it)
		subtotal = subtotal.Add(it.LineTotal)
	}

	return items, subtotal, nil
}

// sendConfirmation is best-effort; checkout never fails because mail did.
func (uc *OrderUsecase) sendConfirmation(ctx context.Context, cust customer.Customer, o orderdom.Order) {
	if uc.mailer == nil || cust.Email == "" {
		return
	}
	if err := uc.mailer.SendOrderConfirmation(ctx, cust.Email, o); err != nil {
		uc.log.Warn("order confirmation mail failed",
			zap.String("orderNumber", o.Number),
			zap.Error(err))
	}
}
