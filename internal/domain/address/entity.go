// internal/domain/address/entity.go
package address

import (
	"fmt"
	"strings"
	"time"

	"freshmart/internal/domain/common"
)

var (
	ErrInvalidAddress = fmt.Errorf("address: invalid: %w", common.ErrValidation)
	ErrNotFound       = fmt.Errorf("address: %w", common.ErrNotFound)
)

// Address belongs to exactly one customer. The "exactly one default per
// customer" invariant spans documents and is enforced by the usecase layer;
// the entity only carries the flag.
type Address struct {
	ID         string
	CustomerID string

	// Type is a free label ("home", "work", ...).
	Type string

	FirstName    string
	LastName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
	Landmark     string
	Latitude     *float64
	Longitude    *float64

	IsDefault bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields are the mutable postal fields. ID, CustomerID and IsDefault are
// not part of a field update; default promotion goes through SetDefault.
type Fields struct {
	Type         string
	FirstName    string
	LastName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
	Landmark     string
	Latitude     *float64
	Longitude    *float64
}

func New(id, customerID string, f Fields, isDefault bool, now time.Time) (Address, error) {
	a := Address{
		ID:         strings.TrimSpace(id),
		CustomerID: strings.TrimSpace(customerID),
		IsDefault:  isDefault,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	a.applyFields(f)
	if err := a.validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Apply replaces all mutable fields except ID and CustomerID.
func (a *Address) Apply(f Fields, now time.Time) error {
	if a == nil {
		return ErrInvalidAddress
	}
	a.applyFields(f)
	a.touch(now)
	return a.validate()
}

// SetDefault marks this address as the customer's default. The caller is
// responsible for unsetting the previous default first.
func (a *Address) SetDefault(now time.Time) {
	a.IsDefault = true
	a.touch(now)
}

// UnsetDefault clears the default flag.
func (a *Address) UnsetDefault(now time.Time) {
	a.IsDefault = false
	a.touch(now)
}

func (a *Address) applyFields(f Fields) {
	a.Type = strings.TrimSpace(f.Type)
	a.FirstName = strings.TrimSpace(f.FirstName)
	a.LastName = strings.TrimSpace(f.LastName)
	a.Phone = strings.TrimSpace(f.Phone)
	a.AddressLine1 = strings.TrimSpace(f.AddressLine1)
	a.AddressLine2 = strings.TrimSpace(f.AddressLine2)
	a.City = strings.TrimSpace(f.City)
	a.State = strings.TrimSpace(f.State)
	a.ZipCode = strings.TrimSpace(f.ZipCode)
	a.Country = strings.TrimSpace(f.Country)
	a.Landmark = strings.TrimSpace(f.Landmark)
	a.Latitude = f.Latitude
	a.Longitude = f.Longitude
}

func (a *Address) touch(now time.Time) {
	a.UpdatedAt = now.UTC()
}

func (a Address) validate() error {
	if a.ID == "" {
		return ErrInvalidAddress
	}
	if a.CustomerID == "" {
		return ErrInvalidAddress
	}
	if a.AddressLine1 == "" {
		return ErrInvalidAddress
	}
	if a.City == "" {
		return ErrInvalidAddress
	}
	if a.State == "" {
		return ErrInvalidAddress
	}
	if a.ZipCode == "" {
		return ErrInvalidAddress
	}
	if a.Country == "" {
		return ErrInvalidAddress
	}
	if a.CreatedAt.IsZero() {
		return ErrInvalidAddress
	}
	if a.UpdatedAt.IsZero() || a.UpdatedAt.Before(a.CreatedAt) {
		return ErrInvalidAddress
	}
	return nil
}
