// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"freshmart/internal/domain/common"
	orderdom "freshmart/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository and the checkout store
// using Firestore.
//
// Collection design:
// - collection: orders, docId: order id
// - collection: orderNumbers, docId: order number ✅ create-only guard doc,
//   so number uniqueness is enforced by the store, not by a query race
// - collection: carts, docId: customerId (cleared inside the checkout tx)
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

func (r *OrderRepositoryFS) numbersCol() *firestore.CollectionRef {
	return r.Client.Collection("orderNumbers")
}

func (r *OrderRepositoryFS) cartsCol() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

// =======================
// Queries
// =======================

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return docToOrder(snap)
}

func (r *OrderRepositoryFS) GetByNumber(ctx context.Context, number string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}

	num := strings.TrimSpace(number)
	if num == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	iter := r.col().Where("orderNumber", "==", num).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if err != nil {
		return orderdom.Order{}, err
	}
	return docToOrder(snap)
}

func (r *OrderRepositoryFS) ListAll(ctx context.Context) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	return r.queryAll(ctx, r.col().OrderBy("orderDate", firestore.Desc))
}

func (r *OrderRepositoryFS) ListByCustomerID(ctx context.Context, customerID string) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	q := r.col().
		Where("customerId", "==", strings.TrimSpace(customerID)).
		OrderBy("orderDate", firestore.Desc)
	return r.queryAll(ctx, q)
}

func (r *OrderRepositoryFS) ListByCustomerIDAndStatus(ctx context.Context, customerID string, s orderdom.Status) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	q := r.col().
		Where("customerId", "==", strings.TrimSpace(customerID)).
		Where("status", "==", string(s)).
		OrderBy("orderDate", firestore.Desc)
	return r.queryAll(ctx, q)
}

func (r *OrderRepositoryFS) ListByStatus(ctx context.Context, s orderdom.Status) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	return r.queryAll(ctx, r.col().Where("status", "==", string(s)))
}

func (r *OrderRepositoryFS) ListByPaymentStatus(ctx context.Context, p orderdom.PaymentStatus) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	return r.queryAll(ctx, r.col().Where("paymentStatus", "==", string(p)))
}

func (r *OrderRepositoryFS) ListByDateRange(ctx context.Context, tr common.TimeRange) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	return r.queryAll(ctx, r.dateRangeQuery(tr))
}

func (r *OrderRepositoryFS) CountByStatus(ctx context.Context, s orderdom.Status) (int64, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("order_repository_fs: firestore client is nil")
	}
	return r.countAll(ctx, r.col().Where("status", "==", string(s)))
}

func (r *OrderRepositoryFS) CountByDateRange(ctx context.Context, tr common.TimeRange) (int64, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("order_repository_fs: firestore client is nil")
	}
	return r.countAll(ctx, r.dateRangeQuery(tr))
}

func (r *OrderRepositoryFS) dateRangeQuery(tr common.TimeRange) firestore.Query {
	q := r.col().Query
	if tr.From != nil {
		q = q.Where("orderDate", ">=", tr.From.UTC())
	}
	if tr.To != nil {
		q = q.Where("orderDate", "<=", tr.To.UTC())
	}
	return q.OrderBy("orderDate", firestore.Desc)
}

// =======================
// Writes
// =======================

// Create inserts the order and reserves its number atomically. Both docs are
// create-only: an existing id or number fails the transaction, surfaced as
// common.ErrConflict.
func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	if err := requireOrderKeys(o); err != nil {
		return orderdom.Order{}, err
	}

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(r.col().Doc(o.ID), orderDocFromDomain(o)); err != nil {
			return err
		}
		return tx.Create(r.numbersCol().Doc(o.Number), numberGuardDoc{OrderID: o.ID})
	})
	if err != nil {
		return orderdom.Order{}, mapConflict(err)
	}
	return o, nil
}

// CreateWithCartClear commits the order, reserves its number and deletes the
// customer's cart in one transaction. Deleting an absent cart doc is a no-op,
// so callers that already cleared the cart still succeed.
func (r *OrderRepositoryFS) CreateWithCartClear(ctx context.Context, o orderdom.Order, customerID string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	if err := requireOrderKeys(o); err != nil {
		return orderdom.Order{}, err
	}

	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return orderdom.Order{}, errors.New("order_repository_fs: customerID is empty")
	}

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(r.col().Doc(o.ID), orderDocFromDomain(o)); err != nil {
			return err
		}
		if err := tx.Create(r.numbersCol().Doc(o.Number), numberGuardDoc{OrderID: o.ID}); err != nil {
			return err
		}
		return tx.Delete(r.cartsCol().Doc(cid))
	})
	if err != nil {
		return orderdom.Order{}, mapConflict(err)
	}
	return o, nil
}

// Save replaces the order document. With opts.IfMatchVersion set the write
// runs in a transaction: read, compare version, bump, set. A mismatch fails
// with common.ErrConflict.
func (r *OrderRepositoryFS) Save(ctx context.Context, o orderdom.Order, opts *common.SaveOptions) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(o.ID)
	if oid == "" {
		return orderdom.Order{}, errors.New("order_repository_fs: Save requires order.ID as docId")
	}

	if opts == nil || opts.IfMatchVersion == nil {
		if _, err := r.col().Doc(oid).Set(ctx, orderDocFromDomain(o)); err != nil {
			return orderdom.Order{}, err
		}
		return o, nil
	}

	want := *opts.IfMatchVersion
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(r.col().Doc(oid))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return orderdom.ErrNotFound
			}
			return err
		}

		var cur orderDoc
		if err := snap.DataTo(&cur); err != nil {
			return err
		}
		if cur.Version != want {
			return fmt.Errorf("order_repository_fs: version mismatch (have %d, want %d): %w",
				cur.Version, want, common.ErrConflict)
		}

		o.Version = want + 1
		return tx.Set(r.col().Doc(oid), orderDocFromDomain(o))
	})
	if err != nil {
		return orderdom.Order{}, err
	}
	return o, nil
}

// Delete removes the order and releases its number guard.
func (r *OrderRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.ErrNotFound
	}

	o, err := r.GetByID(ctx, oid)
	if err != nil {
		return err
	}

	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Delete(r.col().Doc(oid)); err != nil {
			return err
		}
		return tx.Delete(r.numbersCol().Doc(o.Number))
	})
}

// =======================
// Helpers
// =======================

func (r *OrderRepositoryFS) queryAll(ctx context.Context, q firestore.Query) ([]orderdom.Order, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []orderdom.Order{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := docToOrder(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepositoryFS) countAll(ctx context.Context, q firestore.Query) (int64, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var n int64
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

func requireOrderKeys(o orderdom.Order) error {
	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order_repository_fs: order.ID is empty")
	}
	if strings.TrimSpace(o.Number) == "" {
		return errors.New("order_repository_fs: order.Number is empty")
	}
	return nil
}

func mapConflict(err error) error {
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("order_repository_fs: duplicate order id or number: %w", common.ErrConflict)
	}
	return err
}

// =======================
// Firestore DTOs
// =======================

// numberGuardDoc reserves one order number. Created (never Set) inside the
// same transaction as the order doc.
type numberGuardDoc struct {
	OrderID string `firestore:"orderId"`
}

type orderDoc struct {
	CustomerID string         `firestore:"customerId"`
	Number     string         `firestore:"orderNumber"`
	Items      []orderItemDoc `firestore:"items"`

	Subtotal       string `firestore:"subtotal"`
	TaxAmount      string `firestore:"taxAmount"`
	ShippingAmount string `firestore:"shippingAmount"`
	DiscountAmount string `firestore:"discountAmount"`
	TotalAmount    string `firestore:"totalAmount"`

	Status        string `firestore:"status"`
	PaymentStatus string `firestore:"paymentStatus"`
	PaymentMethod string `firestore:"paymentMethod"`

	ShippingAddress addressSnapshotDoc `firestore:"shippingAddress"`
	BillingAddress  addressSnapshotDoc `firestore:"billingAddress"`

	DeliveryInstructions string `firestore:"deliveryInstructions"`
	TrackingNumber       string `firestore:"trackingNumber"`
	CancelReason         string `firestore:"cancelReason"`

	OrderDate          time.Time  `firestore:"orderDate"`
	ActualDeliveryDate *time.Time `firestore:"actualDeliveryDate"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`

	Version int64 `firestore:"version"`
}

type orderItemDoc struct {
	ProductID   string `firestore:"productId"`
	ProductName string `firestore:"productName"`
	Quantity    int    `firestore:"qty"`
	UnitPrice   string `firestore:"unitPrice"`
	LineTotal   string `firestore:"lineTotal"`
}

type addressSnapshotDoc struct {
	FirstName    string `firestore:"firstName"`
	LastName     string `firestore:"lastName"`
	Phone        string `firestore:"phone"`
	AddressLine1 string `firestore:"addressLine1"`
	AddressLine2 string `firestore:"addressLine2"`
	City         string `firestore:"city"`
	State        string `firestore:"state"`
	ZipCode      string `firestore:"zipCode"`
	Country      string `firestore:"country"`
}

func orderDocFromDomain(o orderdom.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   decToStr(it.UnitPrice),
			LineTotal:   decToStr(it.LineTotal),
		})
	}

	return orderDoc{
		CustomerID: o.CustomerID,
		Number:     o.Number,
		Items:      items,

		Subtotal:       decToStr(o.Subtotal),
		TaxAmount:      decToStr(o.TaxAmount),
		ShippingAmount: decToStr(o.ShippingAmount),
		DiscountAmount: decToStr(o.DiscountAmount),
		TotalAmount:    decToStr(o.TotalAmount),

		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: o.PaymentMethod,

		ShippingAddress: snapshotToDoc(o.ShippingAddress),
		BillingAddress:  snapshotToDoc(o.BillingAddress),

		DeliveryInstructions: o.DeliveryInstructions,
		TrackingNumber:       o.TrackingNumber,
		CancelReason:         o.CancelReason,

		OrderDate:          o.OrderDate,
		ActualDeliveryDate: o.ActualDeliveryDate,

		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,

		Version: o.Version,
	}
}

func docToOrder(snap *firestore.DocumentSnapshot) (orderdom.Order, error) {
	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return orderdom.Order{}, err
	}

	items := make([]orderdom.Item, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, orderdom.Item{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   strToDec(it.UnitPrice),
			LineTotal:   strToDec(it.LineTotal),
		})
	}

	return orderdom.Order{
		ID:         snap.Ref.ID,
		CustomerID: d.CustomerID,
		Number:     d.Number,
		Items:      items,

		Subtotal:       strToDec(d.Subtotal),
		TaxAmount:      strToDec(d.TaxAmount),
		ShippingAmount: strToDec(d.ShippingAmount),
		DiscountAmount: strToDec(d.DiscountAmount),
		TotalAmount:    strToDec(d.TotalAmount),

		Status:        orderdom.Status(d.Status),
		PaymentStatus: orderdom.PaymentStatus(d.PaymentStatus),
		PaymentMethod: d.PaymentMethod,

		ShippingAddress: docToSnapshot(d.ShippingAddress),
		BillingAddress:  docToSnapshot(d.BillingAddress),

		DeliveryInstructions: d.DeliveryInstructions,
		TrackingNumber:       d.TrackingNumber,
		CancelReason:         d.CancelReason,

		OrderDate:          d.OrderDate,
		ActualDeliveryDate: d.ActualDeliveryDate,

		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,

		Version: d.Version,
	}, nil
}

func snapshotToDoc(s orderdom.AddressSnapshot) addressSnapshotDoc {
	return addressSnapshotDoc{
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Phone:        s.Phone,
		AddressLine1: s.AddressLine1,
		AddressLine2: s.AddressLine2,
		City:         s.City,
		State:        s.State,
		ZipCode:      s.ZipCode,
		Country:      s.Country,
	}
}

func docToSnapshot(d addressSnapshotDoc) orderdom.AddressSnapshot {
	return orderdom.AddressSnapshot{
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Phone:        d.Phone,
		AddressLine1: d.AddressLine1,
		AddressLine2: d.AddressLine2,
		City:         d.City,
		State:        d.State,
		ZipCode:      d.ZipCode,
		Country:      d.Country,
	}
}
