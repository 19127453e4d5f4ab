// internal/domain/cart/entity_test.go
package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewMergesDuplicateSeedItems(t *testing.T) {
	c, err := New("cust-1", []CartItem{
		{ProductID: "apple", Quantity: 2},
		{ProductID: "apple", Quantity: 3},
		{ProductID: "milk", Quantity: 1},
	}, testNow)
	require.NoError(t, err)

	require.Equal(t, "cust-1", c.ID)
	require.Equal(t, "cust-1", c.CustomerID)
	require.Equal(t, []CartItem{
		{ProductID: "apple", Quantity: 5},
		{ProductID: "milk", Quantity: 1},
	}, c.Items)
}

func TestNewRejectsEmptyCustomerID(t *testing.T) {
	_, err := New("   ", nil, testNow)
	require.ErrorIs(t, err, ErrInvalidCart)
}

func TestAddMergesByAddition(t *testing.T) {
	c, err := New("cust-1", nil, testNow)
	require.NoError(t, err)

	require.NoError(t, c.Add("apple", 2, testNow))
	require.NoError(t, c.Add("apple", 3, testNow))

	require.Len(t, c.Items, 1)
	require.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddRejectsBadInput(t *testing.T) {
	c, err := New("cust-1", nil, testNow)
	require.NoError(t, err)

	require.ErrorIs(t, c.Add("", 1, testNow), ErrInvalidCart)
	require.ErrorIs(t, c.Add("apple", 0, testNow), ErrInvalidCart)
	require.ErrorIs(t, c.Add("apple", -2, testNow), ErrInvalidCart)
}

func TestSetQtyReplacesQuantity(t *testing.T) {
	c, err := New("cust-1", []CartItem{{ProductID: "apple", Quantity: 2}}, testNow)
	require.NoError(t, err)

	require.NoError(t, c.SetQty("apple", 7, testNow))
	require.Equal(t, 7, c.Items[0].Quantity)
}

func TestSetQtyZeroRemovesItem(t *testing.T) {
	c, err := New("cust-1", []CartItem{
		{ProductID: "apple", Quantity: 2},
		{ProductID: "milk", Quantity: 1},
	}, testNow)
	require.NoError(t, err)

	require.NoError(t, c.SetQty("apple", 0, testNow))
	require.Equal(t, []CartItem{{ProductID: "milk", Quantity: 1}}, c.Items)
}

func TestRemoveAbsentProductIsNoop(t *testing.T) {
	c, err := New("cust-1", []CartItem{{ProductID: "milk", Quantity: 1}}, testNow)
	require.NoError(t, err)

	require.NoError(t, c.Remove("nope", testNow))
	require.Len(t, c.Items, 1)
}

func TestMergeFromSumsAndAppends(t *testing.T) {
	c, err := New("cust-1", []CartItem{
		{ProductID: "apple", Quantity: 2},
	}, testNow)
	require.NoError(t, err)

	guest, err := New("guest", []CartItem{
		{ProductID: "apple", Quantity: 1},
		{ProductID: "bread", Quantity: 4},
	}, testNow)
	require.NoError(t, err)

	require.NoError(t, c.MergeFrom(guest, testNow))
	require.Equal(t, []CartItem{
		{ProductID: "apple", Quantity: 3},
		{ProductID: "bread", Quantity: 4},
	}, c.Items)
}

func TestMergeFromNilIsNoop(t *testing.T) {
	c, err := New("cust-1", []CartItem{{ProductID: "apple", Quantity: 2}}, testNow)
	require.NoError(t, err)

	require.NoError(t, c.MergeFrom(nil, testNow))
	require.Len(t, c.Items, 1)
}

func TestRecomputeTotals(t *testing.T) {
	c, err := New("cust-1", []CartItem{
		{ProductID: "productA", Quantity: 2},
		{ProductID: "productB", Quantity: 1},
	}, testNow)
	require.NoError(t, err)

	prices := map[string]decimal.Decimal{
		"productA": decimal.RequireFromString("10.00"),
		"productB": decimal.RequireFromString("5.00"),
	}

	c.RecomputeTotals(prices)
	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("25.00")),
		"got %s", c.TotalAmount)
	require.Equal(t, 3, c.TotalItems)

	// removing a line re-derives both totals
	require.NoError(t, c.SetQty("productA", 0, testNow))
	c.RecomputeTotals(prices)
	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("5.00")))
	require.Equal(t, 1, c.TotalItems)
}

func TestRecomputeTotalsMissingPriceCountsItemsOnly(t *testing.T) {
	c, err := New("cust-1", []CartItem{
		{ProductID: "gone", Quantity: 4},
		{ProductID: "milk", Quantity: 1},
	}, testNow)
	require.NoError(t, err)

	c.RecomputeTotals(map[string]decimal.Decimal{
		"milk": decimal.RequireFromString("3.50"),
	})

	require.True(t, c.TotalAmount.Equal(decimal.RequireFromString("3.50")))
	require.Equal(t, 5, c.TotalItems)
}

func TestIsEmpty(t *testing.T) {
	var nilCart *Cart
	require.True(t, nilCart.IsEmpty())

	c, err := New("cust-1", nil, testNow)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())

	require.NoError(t, c.Add("apple", 1, testNow))
	require.False(t, c.IsEmpty())
}
