// internal/adapters/out/firestore/address_repository_fs.go
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

	addrdom "freshmart/internal/domain/address"
)

// AddressRepositoryFS implements address.Repository using Firestore.
//
// Collection design:
// - collection: addresses
// - docId: address id
// - queries: customerId (==), (customerId, isDefault) and (customerId, type)
type AddressRepositoryFS struct {
	Client *firestore.Client
}

func NewAddressRepositoryFS(client *firestore.Client) *AddressRepositoryFS {
	return &AddressRepositoryFS{Client: client}
}

func (r *AddressRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("addresses")
}

func (r *AddressRepositoryFS) GetByID(ctx context.Context, id string) (addrdom.Address, error) {
	if r == nil || r.Client == nil {
		return addrdom.Address{}, errors.New("address_repository_fs: firestore client is nil")
	}

	aid := strings.TrimSpace(id)
	if aid == "" {
		return addrdom.Address{}, addrdom.ErrNotFound
	}

	snap, err := r.col().Doc(aid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return addrdom.Address{}, addrdom.ErrNotFound
		}
		return addrdom.Address{}, err
	}

	return docToAddress(snap)
}

func (r *AddressRepositoryFS) ListByCustomerID(ctx context.Context, customerID string) ([]addrdom.Address, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("address_repository_fs: firestore client is nil")
	}
	return r.queryAll(ctx, r.col().Where("customerId", "==", strings.TrimSpace(customerID)))
}

func (r *AddressRepositoryFS) ListByCustomerIDAndType(ctx context.Context, customerID, addrType string) ([]addrdom.Address, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("address_repository_fs: firestore client is nil")
	}
	q := r.col().
		Where("customerId", "==", strings.TrimSpace(customerID)).
		Where("type", "==", strings.TrimSpace(addrType))
	return r.queryAll(ctx, q)
}

func (r *AddressRepositoryFS) GetDefaultByCustomerID(ctx context.Context, customerID string) (addrdom.Address, error) {
	if r == nil || r.Client == nil {
		return addrdom.Address{}, errors.New("address_repository_fs: firestore client is nil")
	}

	iter := r.col().
		Where("customerId", "==", strings.TrimSpace(customerID)).
		Where("isDefault", "==", true).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return addrdom.Address{}, addrdom.ErrNotFound
	}
	if err != nil {
		return addrdom.Address{}, err
	}
	return docToAddress(snap)
}

func (r *AddressRepositoryFS) Exists(ctx context.Context, id string) (bool, error) {
	if r == nil || r.Client == nil {
		return false, errors.New("address_repository_fs: firestore client is nil")
	}

	aid := strings.TrimSpace(id)
	if aid == "" {
		return false, nil
	}

	_, err := r.col().Doc(aid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *AddressRepositoryFS) Save(ctx context.Context, a addrdom.Address) (addrdom.Address, error) {
	if r == nil || r.Client == nil {
		return addrdom.Address{}, errors.New("address_repository_fs: firestore client is nil")
	}

	aid := strings.TrimSpace(a.ID)
	if aid == "" {
		return addrdom.Address{}, errors.New("address_repository_fs: Save requires address.ID as docId")
	}

	if _, err := r.col().Doc(aid).Set(ctx, addressDocFromDomain(a)); err != nil {
		return addrdom.Address{}, err
	}
	return a, nil
}

func (r *AddressRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("address_repository_fs: firestore client is nil")
	}

	aid := strings.TrimSpace(id)
	if aid == "" {
		return addrdom.ErrNotFound
	}

	_, err := r.col().Doc(aid).Delete(ctx)
	return err
}

func (r *AddressRepositoryFS) queryAll(ctx context.Context, q firestore.Query) ([]addrdom.Address, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []addrdom.Address{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		a, err := docToAddress(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type addressDoc struct {
	CustomerID   string   `firestore:"customerId"`
	Type         string   `firestore:"type"`
	FirstName    string   `firestore:"firstName"`
	LastName     string   `firestore:"lastName"`
	Phone        string   `firestore:"phone"`
	AddressLine1 string   `firestore:"addressLine1"`
	AddressLine2 string   `firestore:"addressLine2"`
	City         string   `firestore:"city"`
	State        string   `firestore:"state"`
	ZipCode      string   `firestore:"zipCode"`
	Country      string   `firestore:"country"`
	Landmark     string   `firestore:"landmark"`
	Latitude     *float64 `firestore:"latitude"`
	Longitude    *float64 `firestore:"longitude"`
	IsDefault    bool     `firestore:"isDefault"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func addressDocFromDomain(a addrdom.Address) addressDoc {
	return addressDoc{
		CustomerID:   a.CustomerID,
		Type:         a.Type,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
		Country:      a.Country,
		Landmark:     a.Landmark,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		IsDefault:    a.IsDefault,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func docToAddress(snap *firestore.DocumentSnapshot) (addrdom.Address, error) {
	var d addressDoc
	if err := snap.DataTo(&d); err != nil {
		return addrdom.Address{}, err
	}

	return addrdom.Address{
		ID:           snap.Ref.ID,
		CustomerID:   d.CustomerID,
		Type:         d.Type,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Phone:        d.Phone,
		AddressLine1: d.AddressLine1,
		AddressLine2: d.AddressLine2,
		City:         d.City,
		State:        d.State,
		ZipCode:      d.ZipCode,
		Country:      d.Country,
		Landmark:     d.Landmark,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		IsDefault:    d.IsDefault,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}
