// internal/domain/cart/entity.go
package cart

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"freshmart/internal/domain/common"
)

var (
	ErrInvalidCart = fmt.Errorf("cart: invalid: %w", common.ErrValidation)
)

// CartItem is one line item. Uniqueness inside a cart is defined by
// ProductID; quantities for the same product are always merged by addition.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Cart is a per-customer cart document.
//   - docId = customerId (Firestore); a customer has at most one cart
//   - TotalAmount / TotalItems are derived from Items and must be
//     recomputed after every structural change (RecomputeTotals)
type Cart struct {
	// ID is the Firestore docId (= customerId).
	ID         string
	CustomerID string

	// Items is unique by ProductID; order is not meaningful.
	Items []CartItem

	// Derived totals. Never set directly.
	TotalAmount decimal.Decimal
	TotalItems  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an empty-or-seeded cart bound to customerID.
// items can be nil (treated as empty); duplicates are merged.
func New(customerID string, items []CartItem, now time.Time) (*Cart, error) {
	cid := strings.TrimSpace(customerID)

	c := &Cart{
		ID:          cid,
		CustomerID:  cid,
		Items:       cloneItems(items),
		TotalAmount: decimal.Zero,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add increments quantity for productID (merge-by-addition, never replace).
// qty must be >= 1.
func (c *Cart) Add(productID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(productID)
	if pid == "" || qty <= 0 {
		return ErrInvalidCart
	}

	if idx := findItemIndex(c.Items, pid); idx >= 0 {
		c.Items[idx].Quantity += qty
	} else {
		c.Items = append(c.Items, CartItem{ProductID: pid, Quantity: qty})
	}

	c.touch(now)
	return c.validate()
}

// SetQty replaces the quantity for productID. qty <= 0 removes the item.
func (c *Cart) SetQty(productID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidCart
	}

	idx := findItemIndex(c.Items, pid)

	if qty <= 0 {
		if idx >= 0 {
			c.Items = removeIndex(c.Items, idx)
		}
		c.touch(now)
		return c.validate()
	}

	if idx >= 0 {
		c.Items[idx].Quantity = qty
	} else {
		c.Items = append(c.Items, CartItem{ProductID: pid, Quantity: qty})
	}

	c.touch(now)
	return c.validate()
}

// Remove removes productID from the cart. Removing an absent product is a
// no-op, not an error.
func (c *Cart) Remove(productID string, now time.Time) error {
	return c.SetQty(productID, 0, now)
}

// MergeFrom folds the items of another cart (typically a guest cart) into
// this one: matching products sum quantities, new products are appended.
func (c *Cart) MergeFrom(other *Cart, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	if other == nil || len(other.Items) == 0 {
		c.touch(now)
		return c.validate()
	}

	for _, it := range normalizeAndMerge(other.Items) {
		if idx := findItemIndex(c.Items, it.ProductID); idx >= 0 {
			c.Items[idx].Quantity += it.Quantity
		} else {
			c.Items = append(c.Items, it)
		}
	}

	c.touch(now)
	return c.validate()
}

// RecomputeTotals folds the current items against the given unit prices.
// Products missing from the map contribute zero to TotalAmount but still
// count toward TotalItems (the line stays in the cart). Pure over inputs.
func (c *Cart) RecomputeTotals(prices map[string]decimal.Decimal) {
	if c == nil {
		return
	}

	total := decimal.Zero
	count := 0
	for _, it := range c.Items {
		count += it.Quantity
		price, ok := prices[it.ProductID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	c.TotalAmount = total
	c.TotalItems = count
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}

	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.CustomerID) == "" {
		return ErrInvalidCart
	}
	if c.ID != c.CustomerID {
		return ErrInvalidCart
	}

	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidCart
	}

	if len(c.Items) == 0 {
		return nil
	}

	// normalize + merge duplicates + stable order
	c.Items = normalizeAndMerge(c.Items)

	for _, it := range c.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 {
			return ErrInvalidCart
		}
	}

	return nil
}

// ----------------------------
// Helpers
// ----------------------------

func findItemIndex(items []CartItem, pid string) int {
	for i := range items {
		if items[i].ProductID == pid {
			return i
		}
	}
	return -1
}

func removeIndex(items []CartItem, idx int) []CartItem {
	if idx < 0 || idx >= len(items) {
		return items
	}
	// preserve order
	return append(items[:idx], items[idx+1:]...)
}

func normalizeAndMerge(src []CartItem) []CartItem {
	m := map[string]int{}

	for _, it := range src {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" || it.Quantity <= 0 {
			continue
		}
		m[pid] += it.Quantity
	}

	// stable order
	pids := make([]string, 0, len(m))
	for pid := range m {
		pids = append(pids, pid)
	}
	sort.Strings(pids)

	out := make([]CartItem, 0, len(pids))
	for _, pid := range pids {
		out = append(out, CartItem{ProductID: pid, Quantity: m[pid]})
	}
	return out
}

func cloneItems(src []CartItem) []CartItem {
	if len(src) == 0 {
		return []CartItem{}
	}
	return normalizeAndMerge(src)
}
