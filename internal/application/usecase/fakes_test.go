// internal/application/usecase/fakes_test.go
package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"freshmart/internal/domain/address"
	"freshmart/internal/domain/cart"
	"freshmart/internal/domain/category"
	"freshmart/internal/domain/common"
	"freshmart/internal/domain/customer"
	orderdom "freshmart/internal/domain/order"
	"freshmart/internal/domain/product"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// ----------------------------
// carts
// ----------------------------

type memCartRepo struct {
	carts map[string]cart.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[string]cart.Cart{}}
}

func (r *memCartRepo) GetByCustomerID(_ context.Context, customerID string) (*cart.Cart, error) {
	c, ok := r.carts[customerID]
	if !ok {
		return nil, nil
	}
	cp := c
	cp.Items = append([]cart.CartItem(nil), c.Items...)
	return &cp, nil
}

func (r *memCartRepo) Upsert(_ context.Context, c *cart.Cart) error {
	cp := *c
	cp.Items = append([]cart.CartItem(nil), c.Items...)
	r.carts[c.ID] = cp
	return nil
}

func (r *memCartRepo) DeleteByCustomerID(_ context.Context, customerID string) error {
	delete(r.carts, customerID)
	return nil
}

// ----------------------------
// customers
// ----------------------------

type memCustomerRepo struct {
	customers map[string]customer.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: map[string]customer.Customer{}}
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	return c, nil
}

func (r *memCustomerRepo) GetByEmail(_ context.Context, email string) (customer.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return customer.Customer{}, customer.ErrNotFound
}

func (r *memCustomerRepo) GetByPhone(_ context.Context, phone string) (customer.Customer, error) {
	for _, c := range r.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return customer.Customer{}, customer.ErrNotFound
}

func (r *memCustomerRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.customers[id]
	return ok, nil
}

func (r *memCustomerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memCustomerRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memCustomerRepo) Save(_ context.Context, c customer.Customer) (customer.Customer, error) {
	r.customers[c.ID] = c
	return c, nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id string) error {
	delete(r.customers, id)
	return nil
}

// ----------------------------
// products
// ----------------------------

type memProductRepo struct {
	products map[string]product.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]product.Product{}}
}

func (r *memProductRepo) put(id, name string, price string) {
	r.products[id] = product.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		IsActive:  true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

// ----------------------------
// categories
// ----------------------------

type memCategoryRepo struct {
	categories map[string]category.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: map[string]category.Category{}}
}

func (r *memCategoryRepo) GetByID(_ context.Context, id string) (category.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return category.Category{}, category.ErrNotFound
	}
	return c, nil
}

func (r *memCategoryRepo) GetBySlug(_ context.Context, slug string) (category.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return category.Category{}, category.ErrNotFound
}

func (r *memCategoryRepo) ListActive(_ context.Context) ([]category.Category, error) {
	out := []category.Category{}
	for _, c := range r.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sortCategories(out)
	return out, nil
}

func (r *memCategoryRepo) ListRoots(ctx context.Context) ([]category.Category, error) {
	all, _ := r.ListActive(ctx)
	out := []category.Category{}
	for _, c := range all {
		if c.IsRoot() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) ListChildren(ctx context.Context, parentID string) ([]category.Category, error) {
	all, _ := r.ListActive(ctx)
	out := []category.Category{}
	for _, c := range all {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) SearchByName(ctx context.Context, query string) ([]category.Category, error) {
	all, _ := r.ListActive(ctx)
	q := strings.ToLower(query)
	out := []category.Category{}
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.categories[id]
	return ok, nil
}

func (r *memCategoryRepo) Save(_ context.Context, c category.Category) (category.Category, error) {
	r.categories[c.ID] = c
	return c, nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return category.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func sortCategories(cats []category.Category) {
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].ID < cats[j].ID
	})
}

// ----------------------------
// addresses
// ----------------------------

type memAddressRepo struct {
	addresses map[string]address.Address
}

func newMemAddressRepo() *memAddressRepo {
	return &memAddressRepo{addresses: map[string]address.Address{}}
}

func (r *memAddressRepo) GetByID(_ context.Context, id string) (address.Address, error) {
	a, ok := r.addresses[id]
	if !ok {
		return address.Address{}, address.ErrNotFound
	}
	return a, nil
}

func (r *memAddressRepo) ListByCustomerID(_ context.Context, customerID string) ([]address.Address, error) {
	out := []address.Address{}
	for _, a := range r.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAddressRepo) ListByCustomerIDAndType(ctx context.Context, customerID, addrType string) ([]address.Address, error) {
	all, _ := r.ListByCustomerID(ctx, customerID)
	out := []address.Address{}
	for _, a := range all {
		if a.Type == addrType {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAddressRepo) GetDefaultByCustomerID(_ context.Context, customerID string) (address.Address, error) {
	for _, a := range r.addresses {
		if a.CustomerID == customerID && a.IsDefault {
			return a, nil
		}
	}
	return address.Address{}, address.ErrNotFound
}

func (r *memAddressRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.addresses[id]
	return ok, nil
}

func (r *memAddressRepo) Save(_ context.Context, a address.Address) (address.Address, error) {
	r.addresses[a.ID] = a
	return a, nil
}

func (r *memAddressRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.addresses[id]; !ok {
		return address.ErrNotFound
	}
	delete(r.addresses, id)
	return nil
}

func (r *memAddressRepo) defaultCount(customerID string) int {
	n := 0
	for _, a := range r.addresses {
		if a.CustomerID == customerID && a.IsDefault {
			n++
		}
	}
	return n
}

// ----------------------------
// orders (repository + checkout store)
// ----------------------------

type memOrderRepo struct {
	orders  map[string]orderdom.Order
	numbers map[string]string // number -> order id
	carts   *memCartRepo

	// forceConflicts makes the next N creates fail with ErrConflict,
	// simulating number collisions.
	forceConflicts int
}

func newMemOrderRepo(carts *memCartRepo) *memOrderRepo {
	return &memOrderRepo{
		orders:  map[string]orderdom.Order{},
		numbers: map[string]string{},
		carts:   carts,
	}
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) GetByNumber(_ context.Context, number string) (orderdom.Order, error) {
	id, ok := r.numbers[number]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return r.orders[id], nil
}

func (r *memOrderRepo) ListAll(_ context.Context) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (r *memOrderRepo) ListByCustomerID(_ context.Context, customerID string) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (r *memOrderRepo) ListByCustomerIDAndStatus(ctx context.Context, customerID string, s orderdom.Status) ([]orderdom.Order, error) {
	all, _ := r.ListByCustomerID(ctx, customerID)
	out := []orderdom.Order{}
	for _, o := range all {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListByStatus(_ context.Context, s orderdom.Status) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range r.orders {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListByPaymentStatus(_ context.Context, p orderdom.PaymentStatus) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range r.orders {
		if o.PaymentStatus == p {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListByDateRange(_ context.Context, tr common.TimeRange) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range r.orders {
		if orderdom.TimeRangeContains(tr, o.OrderDate) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) CountByStatus(ctx context.Context, s orderdom.Status) (int64, error) {
	list, _ := r.ListByStatus(ctx, s)
	return int64(len(list)), nil
}

func (r *memOrderRepo) CountByDateRange(ctx context.Context, tr common.TimeRange) (int64, error) {
	list, _ := r.ListByDateRange(ctx, tr)
	return int64(len(list)), nil
}

func (r *memOrderRepo) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	if r.forceConflicts > 0 {
		r.forceConflicts--
		return orderdom.Order{}, common.ErrConflict
	}
	if _, dup := r.orders[o.ID]; dup {
		return orderdom.Order{}, common.ErrConflict
	}
	if _, dup := r.numbers[o.Number]; dup {
		return orderdom.Order{}, common.ErrConflict
	}
	r.orders[o.ID] = o
	r.numbers[o.Number] = o.ID
	return o, nil
}

func (r *memOrderRepo) CreateWithCartClear(ctx context.Context, o orderdom.Order, customerID string) (orderdom.Order, error) {
	saved, err := r.Create(ctx, o)
	if err != nil {
		return orderdom.Order{}, err
	}
	if r.carts != nil {
		_ = r.carts.DeleteByCustomerID(ctx, customerID)
	}
	return saved, nil
}

func (r *memOrderRepo) Save(_ context.Context, o orderdom.Order, opts *common.SaveOptions) (orderdom.Order, error) {
	cur, ok := r.orders[o.ID]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if opts != nil && opts.IfMatchVersion != nil {
		if cur.Version != *opts.IfMatchVersion {
			return orderdom.Order{}, common.ErrConflict
		}
		o.Version = cur.Version + 1
	}
	r.orders[o.ID] = o
	return o, nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	o, ok := r.orders[id]
	if !ok {
		return orderdom.ErrNotFound
	}
	delete(r.orders, id)
	delete(r.numbers, o.Number)
	return nil
}

// ----------------------------
// mail
// ----------------------------

type memMailer struct {
	sent []string // recipient addresses
}

func (m *memMailer) SendOrderConfirmation(_ context.Context, to string, _ orderdom.Order) error {
	m.sent = append(m.sent, to)
	return nil
}
