// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "freshmart/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: customerId ✅ (docId is the source of truth, one cart per customer)
// - fields: customerId, items(array), totalAmount, totalItems, createdAt, updatedAt
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

// GetByCustomerID returns (nil, nil) if not found (nil policy).
func (r *CartRepositoryFS) GetByCustomerID(ctx context.Context, customerID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return nil, errors.New("cart_repository_fs: customerID is empty")
	}

	snap, err := r.col().Doc(cid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	c := doc.toDomain()
	// docId is the source of truth even if the doc lacks the id fields
	c.ID = cid
	c.CustomerID = cid
	return c, nil
}

// Upsert saves the cart by docId = cart.ID (= customerId), overwriting the
// full document (simple and predictable).
func (r *CartRepositoryFS) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil {
		return errors.New("cart_repository_fs: cart is nil")
	}

	cid := strings.TrimSpace(c.ID)
	if cid == "" {
		return errors.New("cart_repository_fs: Upsert requires cart.ID (= customerId) as docId")
	}

	_, err := r.col().Doc(cid).Set(ctx, cartDocFromDomain(c))
	return err
}

// DeleteByCustomerID deletes the cart doc. Firestore deletes are idempotent:
// deleting an absent doc succeeds.
func (r *CartRepositoryFS) DeleteByCustomerID(ctx context.Context, customerID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return errors.New("cart_repository_fs: customerID is empty")
	}

	_, err := r.col().Doc(cid).Delete(ctx)
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	CustomerID  string        `firestore:"customerId"`
	Items       []cartItemDoc `firestore:"items"`
	TotalAmount string        `firestore:"totalAmount"`
	TotalItems  int           `firestore:"totalItems"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type cartItemDoc struct {
	ProductID string `firestore:"productId"`
	Quantity  int    `firestore:"qty"`
}

func cartDocFromDomain(c *cartdom.Cart) cartDoc {
	items := make([]cartItemDoc, 0, len(c.Items))
	for _, it := range c.Items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" || it.Quantity <= 0 {
			continue
		}
		items = append(items, cartItemDoc{ProductID: pid, Quantity: it.Quantity})
	}

	return cartDoc{
		CustomerID:  c.CustomerID,
		Items:       items,
		TotalAmount: decToStr(c.TotalAmount),
		TotalItems:  c.TotalItems,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d cartDoc) toDomain() *cartdom.Cart {
	items := make([]cartdom.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" || it.Quantity <= 0 {
			continue
		}
		items = append(items, cartdom.CartItem{ProductID: pid, Quantity: it.Quantity})
	}

	return &cartdom.Cart{
		// ID / CustomerID are filled from the docId by the caller
		Items:       items,
		TotalAmount: strToDec(d.TotalAmount),
		TotalItems:  d.TotalItems,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
