// internal/domain/customer/entity.go
package customer

import (
	"fmt"
	"strings"
	"time"

	"freshmart/internal/domain/common"
)

var (
	ErrInvalidCustomer = fmt.Errorf("customer: invalid: %w", common.ErrValidation)
	ErrNotFound        = fmt.Errorf("customer: %w", common.ErrNotFound)
)

// Customer is the account aggregate. Addresses and the cart are separate
// documents referencing the customer id; nothing is embedded here.
type Customer struct {
	ID        string
	FirstName string
	LastName  string

	// Email and Phone are globally unique (enforced at registration).
	Email string
	Phone string

	// PasswordHash is a bcrypt hash; the plaintext never reaches the domain.
	PasswordHash string

	IsActive        bool
	IsEmailVerified bool
	IsPhoneVerified bool

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func New(id, firstName, lastName, email, phone, passwordHash string, now time.Time) (Customer, error) {
	c := Customer{
		ID:           strings.TrimSpace(id),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        normalizeEmail(email),
		Phone:        strings.TrimSpace(phone),
		PasswordHash: strings.TrimSpace(passwordHash),
		IsActive:     true,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	if err := c.validate(); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// UpdateProfile replaces the editable profile fields.
func (c *Customer) UpdateProfile(firstName, lastName string, now time.Time) error {
	if c == nil {
		return ErrInvalidCustomer
	}
	c.FirstName = strings.TrimSpace(firstName)
	c.LastName = strings.TrimSpace(lastName)
	c.touch(now)
	return c.validate()
}

func (c *Customer) Activate(now time.Time) {
	c.IsActive = true
	c.touch(now)
}

func (c *Customer) Deactivate(now time.Time) {
	c.IsActive = false
	c.touch(now)
}

func (c *Customer) VerifyEmail(now time.Time) {
	c.IsEmailVerified = true
	c.touch(now)
}

func (c *Customer) VerifyPhone(now time.Time) {
	c.IsPhoneVerified = true
	c.touch(now)
}

// TouchLogin stamps a successful login.
func (c *Customer) TouchLogin(now time.Time) {
	t := now.UTC()
	c.LastLoginAt = &t
	c.touch(now)
}

// ReplacePasswordHash swaps in a new bcrypt hash. The old-password check
// belongs to the usecase.
func (c *Customer) ReplacePasswordHash(hash string, now time.Time) error {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return ErrInvalidCustomer
	}
	c.PasswordHash = hash
	c.touch(now)
	return nil
}

func (c *Customer) touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

func (c Customer) validate() error {
	if c.ID == "" {
		return ErrInvalidCustomer
	}
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return ErrInvalidCustomer
	}
	if c.Phone == "" {
		return ErrInvalidCustomer
	}
	if c.PasswordHash == "" {
		return ErrInvalidCustomer
	}
	if c.CreatedAt.IsZero() {
		return ErrInvalidCustomer
	}
	if c.UpdatedAt.IsZero() || c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidCustomer
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
