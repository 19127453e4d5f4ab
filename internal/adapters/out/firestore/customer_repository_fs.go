// internal/adapters/out/firestore/customer_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	custdom "freshmart/internal/domain/customer"
)

// CustomerRepositoryFS implements customer.Repository using Firestore.
//
// Collection design:
// - collection: customers
// - docId: customer id
// - email / phone uniqueness is checked by the usecase before save
//   (Limit(1) queries here back those checks)
type CustomerRepositoryFS struct {
	Client *firestore.Client
}

func NewCustomerRepositoryFS(client *firestore.Client) *CustomerRepositoryFS {
	return &CustomerRepositoryFS{Client: client}
}

func (r *CustomerRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("customers")
}

func (r *CustomerRepositoryFS) GetByID(ctx context.Context, id string) (custdom.Customer, error) {
	if r == nil || r.Client == nil {
		return custdom.Customer{}, errors.New("customer_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(id)
	if cid == "" {
		return custdom.Customer{}, custdom.ErrNotFound
	}

	snap, err := r.col().Doc(cid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return custdom.Customer{}, custdom.ErrNotFound
		}
		return custdom.Customer{}, err
	}
	return docToCustomer(snap)
}

func (r *CustomerRepositoryFS) GetByEmail(ctx context.Context, email string) (custdom.Customer, error) {
	return r.getByField(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (r *CustomerRepositoryFS) GetByPhone(ctx context.Context, phone string) (custdom.Customer, error) {
	return r.getByField(ctx, "phone", strings.TrimSpace(phone))
}

func (r *CustomerRepositoryFS) Exists(ctx context.Context, id string) (bool, error) {
	if r == nil || r.Client == nil {
		return false, errors.New("customer_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(id)
	if cid == "" {
		return false, nil
	}

	_, err := r.col().Doc(cid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CustomerRepositoryFS) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, custdom.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CustomerRepositoryFS) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := r.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, custdom.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CustomerRepositoryFS) Save(ctx context.Context, c custdom.Customer) (custdom.Customer, error) {
	if r == nil || r.Client == nil {
		return custdom.Customer{}, errors.New("customer_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(c.ID)
	if cid == "" {
		return custdom.Customer{}, errors.New("customer_repository_fs: Save requires customer.ID as docId")
	}

	if _, err := r.col().Doc(cid).Set(ctx, customerDocFromDomain(c)); err != nil {
		return custdom.Customer{}, err
	}
	return c, nil
}

func (r *CustomerRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("customer_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(id)
	if cid == "" {
		return custdom.ErrNotFound
	}

	_, err := r.col().Doc(cid).Delete(ctx)
	return err
}

func (r *CustomerRepositoryFS) getByField(ctx context.Context, field, value string) (custdom.Customer, error) {
	if r == nil || r.Client == nil {
		return custdom.Customer{}, errors.New("customer_repository_fs: firestore client is nil")
	}
	if value == "" {
		return custdom.Customer{}, custdom.ErrNotFound
	}

	iter := r.col().Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return custdom.Customer{}, custdom.ErrNotFound
	}
	if err != nil {
		return custdom.Customer{}, err
	}
	return docToCustomer(snap)
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type customerDoc struct {
	FirstName    string `firestore:"firstName"`
	LastName     string `firestore:"lastName"`
	Email        string `firestore:"email"`
	Phone        string `firestore:"phone"`
	PasswordHash string `firestore:"passwordHash"`

	IsActive        bool `firestore:"isActive"`
	IsEmailVerified bool `firestore:"isEmailVerified"`
	IsPhoneVerified bool `firestore:"isPhoneVerified"`

	LastLoginAt *time.Time `firestore:"lastLoginAt"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt"`
}

func customerDocFromDomain(c custdom.Customer) customerDoc {
	return customerDoc{
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Phone:           c.Phone,
		PasswordHash:    c.PasswordHash,
		IsActive:        c.IsActive,
		IsEmailVerified: c.IsEmailVerified,
		IsPhoneVerified: c.IsPhoneVerified,
		LastLoginAt:     c.LastLoginAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func docToCustomer(snap *firestore.DocumentSnapshot) (custdom.Customer, error) {
	var d customerDoc
	if err := snap.DataTo(&d); err != nil {
		return custdom.Customer{}, err
	}

	return custdom.Customer{
		ID:              snap.Ref.ID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           d.Email,
		Phone:           d.Phone,
		PasswordHash:    d.PasswordHash,
		IsActive:        d.IsActive,
		IsEmailVerified: d.IsEmailVerified,
		IsPhoneVerified: d.IsPhoneVerified,
		LastLoginAt:     d.LastLoginAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}
