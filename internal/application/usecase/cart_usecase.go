// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"freshmart/internal/domain/cart"
	"freshmart/internal/domain/common"
	"freshmart/internal/domain/product"
)

var (
	ErrCartInvalidArgument = fmt.Errorf("cart_usecase: invalid argument: %w", common.ErrValidation)
	ErrCartNotFound        = fmt.Errorf("cart_usecase: %w", common.ErrNotFound)
)

// CartUsecase owns per-customer cart contents and the derived totals.
// Every mutation runs under the customer's lock, recomputes totals against
// the catalog, and persists the whole document.
type CartUsecase struct {
	carts     cart.Repository
	customers CustomerLookup
	products  product.Lookup
	locks     *CustomerLocks
	clock     Clock
}

// CustomerLookup is the minimal collaborator needed to bind a new cart to
// an existing customer.
type CustomerLookup interface {
	Exists(ctx context.Context, customerID string) (bool, error)
}

func NewCartUsecase(carts cart.Repository, customers CustomerLookup, products product.Lookup, locks *CustomerLocks) *CartUsecase {
	if locks == nil {
		locks = NewCustomerLocks()
	}
	return &CartUsecase{
		carts:     carts,
		customers: customers,
		products:  products,
		locks:     locks,
		clock:     systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(carts cart.Repository, customers CustomerLookup, products product.Lookup, locks *CustomerLocks, clock Clock) *CartUsecase {
	uc := NewCartUsecase(carts, customers, products, locks)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// Get returns the customer's cart, or (nil, nil) when none exists.
// An absent cart is not an error.
func (uc *CartUsecase) Get(ctx context.Context, customerID string) (*cart.Cart, error) {
	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return nil, ErrCartInvalidArgument
	}
	return uc.carts.GetByCustomerID(ctx, cid)
}

// AddItem increments qty for productID (merge-by-addition). Creates the
// cart on first add; fails with the customer's NotFound when the customer
// id does not resolve.
func (uc *CartUsecase) AddItem(ctx context.Context, customerID, productID string, qty int) (*cart.Cart, error) {
	cid := strings.TrimSpace(customerID)
	pid := strings.TrimSpace(productID)
	if cid == "" || pid == "" || qty <= 0 {
		return nil, ErrCartInvalidArgument
	}

	uc.locks.Lock(cid)
	defer uc.locks.Unlock(cid)

	c, err := uc.carts.GetByCustomerID(ctx, cid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		ok, err := uc.customers.Exists(ctx, cid)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("cart_usecase: customer %s: %w", cid, common.ErrNotFound)
		}
		c, err = cart.New(cid, nil, uc.clock.Now())
		if err != nil {
			return nil, err
		}
	}

	if err := c.Add(pid, qty, uc.clock.Now()); err != nil {
		return nil, err
	}
	return uc.persistWithTotals(ctx, c)
}

// UpdateItem sets qty for productID (replace, not add). qty <= 0 removes
// the item. Fails with NotFound when the customer has no cart.
func (uc *CartUsecase) UpdateItem(ctx context.Context, customerID, productID string, qty int) (*cart.Cart, error) {
	cid := strings.TrimSpace(customerID)
	pid := strings.TrimSpace(productID)
	if cid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	uc.locks.Lock(cid)
	defer uc.locks.Unlock(cid)

	c, err := uc.carts.GetByCustomerID(ctx, cid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	if err := c.SetQty(pid, qty, uc.clock.Now()); err != nil {
		return nil, err
	}
	return uc.persistWithTotals(ctx, c)
}

// RemoveItem removes productID from the cart. Removing a product that is
// not present succeeds (idempotent); a missing cart is still NotFound.
func (uc *CartUsecase) RemoveItem(ctx context.Context, customerID, productID string) (*cart.Cart, error) {
	return uc.UpdateItem(ctx, customerID, productID, 0)
}

// Clear deletes the cart document entirely (not just empties it).
// Idempotent: clearing an absent cart succeeds.
func (uc *CartUsecase) Clear(ctx context.Context, customerID string) error {
	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return ErrCartInvalidArgument
	}

	uc.locks.Lock(cid)
	defer uc.locks.Unlock(cid)

	return uc.carts.DeleteByCustomerID(ctx, cid)
}

// Merge folds a pre-authentication guest cart into the customer's cart.
// No existing cart: the guest cart is adopted wholesale, re-bound to the
// customer (NotFound when the customer id does not resolve). Otherwise
// quantities are summed per product and new products appended; totals are
// recomputed once at the end.
func (uc *CartUsecase) Merge(ctx context.Context, customerID string, guest *cart.Cart) (*cart.Cart, error) {
	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return nil, ErrCartInvalidArgument
	}

	uc.locks.Lock(cid)
	defer uc.locks.Unlock(cid)

	existing, err := uc.carts.GetByCustomerID(ctx, cid)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	if existing == nil {
		ok, err := uc.customers.Exists(ctx, cid)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("cart_usecase: customer %s: %w", cid, common.ErrNotFound)
		}

		var items []cart.CartItem
		if guest != nil {
			items = guest.Items
		}
		adopted, err := cart.New(cid, items, now)
		if err != nil {
			return nil, err
		}
		return uc.persistWithTotals(ctx, adopted)
	}

	if err := existing.MergeFrom(guest, now); err != nil {
		return nil, err
	}
	return uc.persistWithTotals(ctx, existing)
}

// persistWithTotals recomputes the derived totals and saves the cart.
func (uc *CartUsecase) persistWithTotals(ctx context.Context, c *cart.Cart) (*cart.Cart, error) {
	prices, err := uc.resolvePrices(ctx, c.Items)
	if err != nil {
		return nil, err
	}
	c.RecomputeTotals(prices)

	if err := uc.carts.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// resolvePrices looks up the effective unit price per product. Products
// that no longer resolve contribute nothing (no error); store failures
// propagate unchanged.
func (uc *CartUsecase) resolvePrices(ctx context.Context, items []cart.CartItem) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		prices[it.ProductID] = p.EffectivePrice()
	}
	return prices, nil
}
