// internal/application/usecase/cart_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"freshmart/internal/domain/cart"
	"freshmart/internal/domain/common"
	"freshmart/internal/domain/customer"
)

func seedCustomer(t *testing.T, repo *memCustomerRepo, id string) customer.Customer {
	t.Helper()
	c, err := customer.New(id, "Ada", "Lovelace", id+"@example.com", "+100"+id, "bcrypt-hash", testNow)
	require.NoError(t, err)
	repo.customers[id] = c
	return c
}

func newCartFixture(t *testing.T) (*CartUsecase, *memCartRepo, *memProductRepo) {
	t.Helper()
	carts := newMemCartRepo()
	customers := newMemCustomerRepo()
	products := newMemProductRepo()
	products.put("productA", "Product A", "10.00")
	products.put("productB", "Product B", "5.00")
	seedCustomer(t, customers, "cust-1")

	uc := NewCartUsecaseWithClock(carts, customers, products, nil, fixedClock{testNow})
	return uc, carts, products
}

func TestAddItemCreatesCartAndDerivesTotals(t *testing.T) {
	uc, _, _ := newCartFixture(t)
	ctx := context.Background()

	c, err := uc.AddItem(ctx, "cust-1", "productA", 2)
	require.NoError(t, err)
	c, err = uc.AddItem(ctx, "cust-1", "productB", 1)
	require.NoError(t, err)

	require.Equal(t, 3, c.TotalItems)
	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("25.00")),
		"got %s", c.TotalAmount)
}

func TestAddItemMergesByAddition(t *testing.T) {
	uc, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "cust-1", "productA", 2)
	require.NoError(t, err)
	c, err := uc.AddItem(ctx, "cust-1", "productA", 3)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	require.Equal(t, 5, c.Items[0].Quantity)
	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("50.00")))
}

func TestAddItemUnknownCustomer(t *testing.T) {
	uc, _, _ := newCartFixture(t)

	_, err := uc.AddItem(context.Background(), "nobody", "productA", 1)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestAddItemValidation(t *testing.T) {
	uc, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "", "productA", 1)
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = uc.AddItem(ctx, "cust-1", "", 1)
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = uc.AddItem(ctx, "cust-1", "productA", 0)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateItemWithoutCart(t *testing.T) {
	uc, _, _ := newCartFixture(t)

	_, err := uc.UpdateItem(context.Background(), "cust-1", "productA", 2)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	uc, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "cust-1", "productA", 2)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "cust-1", "productB", 1)
	require.NoError(t, err)

	c, err := uc.UpdateItem(ctx, "cust-1", "productA", 0)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	require.Equal(t, "productB", c.Items[0].ProductID)
	require.Equal(t, 1, c.TotalItems)
	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("5.00")))
}

func TestRemoveAbsentItemSucceeds(t *testing.T) {
	uc, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "cust-1", "productA", 2)
	require.NoError(t, err)

	c, err := uc.RemoveItem(ctx, "cust-1", "not-in-cart")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
}

func TestClearIsIdempotent(t *testing.T) {
	uc, carts, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "cust-1", "productA", 2)
	require.NoError(t, err)

	require.NoError(t, uc.Clear(ctx, "cust-1"))
	got, err := carts.GetByCustomerID(ctx, "cust-1")
	require.NoError(t, err)
	require.Nil(t, got)

	// clearing again still succeeds
	require.NoError(t, uc.Clear(ctx, "cust-1"))
}

func TestGetAbsentCartIsNilNil(t *testing.T) {
	uc, _, _ := newCartFixture(t)

	c, err := uc.Get(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestMergeAdoptsGuestCartWhenNoneExists(t *testing.T) {
	uc, _, _ := newCartFixture(t)
	ctx := context.Background()

	guest, err := cart.New("guest-session", []cart.CartItem{
		{ProductID: "productA", Quantity: 2},
	}, testNow)
	require.NoError(t, err)

	c, err := uc.Merge(ctx, "cust-1", guest)
	require.NoError(t, err)

	require.Equal(t, "cust-1", c.CustomerID)
	require.Equal(t, 2, c.TotalItems)
	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("20.00")))
}

func TestMergeSumsOverlappingProducts(t *testing.T) {
	uc, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "cust-1", "productA", 2)
	require.NoError(t, err)

	guest, err := cart.New("guest-session", []cart.CartItem{
		{ProductID: "productA", Quantity: 1},
		{ProductID: "productB", Quantity: 3},
	}, testNow)
	require.NoError(t, err)

	c, err := uc.Merge(ctx, "cust-1", guest)
	require.NoError(t, err)

	require.ElementsMatch(t, []cart.CartItem{
		{ProductID: "productA", Quantity: 3},
		{ProductID: "productB", Quantity: 3},
	}, c.Items)
	require.Equal(t, 6, c.TotalItems)
	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("45.00")))
}

func TestMergeUnknownCustomer(t *testing.T) {
	uc, _, _ := newCartFixture(t)

	guest, err := cart.New("guest-session", []cart.CartItem{
		{ProductID: "productA", Quantity: 1},
	}, testNow)
	require.NoError(t, err)

	_, err = uc.Merge(context.Background(), "nobody", guest)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestTotalsSkipUnresolvableProducts(t *testing.T) {
	uc, _, products := newCartFixture(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "cust-1", "productA", 2)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "cust-1", "productB", 1)
	require.NoError(t, err)

	// the catalog loses productB; the line stays but prices at zero
	delete(products.products, "productB")

	c, err := uc.AddItem(ctx, "cust-1", "productA", 1)
	require.NoError(t, err)

	require.Equal(t, 4, c.TotalItems)
	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("30.00")),
		"got %s", c.TotalAmount)
}
