// internal/application/usecase/address_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"freshmart/internal/domain/address"
	"freshmart/internal/domain/common"
)

var (
	ErrAddressInvalidArgument = fmt.Errorf("address_usecase: invalid argument: %w", common.ErrValidation)
)

// AddressUsecase maintains "exactly one default address per customer".
// Every mutation runs under the customer's lock so the unset-then-set pair
// is never interleaved with another writer.
//
// Partial-failure ordering: the old default is unset and persisted before
// the new default is saved. A crash between the two writes leaves the
// customer with no default, never with two.
type AddressUsecase struct {
	repo  address.Repository
	locks *CustomerLocks
	clock Clock
}

func NewAddressUsecase(repo address.Repository, locks *CustomerLocks) *AddressUsecase {
	if locks == nil {
		locks = NewCustomerLocks()
	}
	return &AddressUsecase{repo: repo, locks: locks, clock: systemClock{}}
}

// NewAddressUsecaseWithClock is useful for tests.
func NewAddressUsecaseWithClock(repo address.Repository, locks *CustomerLocks, clock Clock) *AddressUsecase {
	uc := NewAddressUsecase(repo, locks)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// Queries

func (uc *AddressUsecase) GetByID(ctx context.Context, id string) (address.Address, error) {
	return uc.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (uc *AddressUsecase) ListByCustomer(ctx context.Context, customerID string) ([]address.Address, error) {
	return uc.repo.ListByCustomerID(ctx, strings.TrimSpace(customerID))
}

func (uc *AddressUsecase) ListByCustomerAndType(ctx context.Context, customerID, addrType string) ([]address.Address, error) {
	return uc.repo.ListByCustomerIDAndType(ctx, strings.TrimSpace(customerID), strings.TrimSpace(addrType))
}

// GetDefault returns the customer's default address (ErrNotFound if none).
func (uc *AddressUsecase) GetDefault(ctx context.Context, customerID string) (address.Address, error) {
	return uc.repo.GetDefaultByCustomerID(ctx, strings.TrimSpace(customerID))
}

// Commands

// CreateInput carries the new address payload. RequestDefault is only a
// request: the first address of a customer becomes default regardless.
type CreateInput struct {
	CustomerID     string
	Fields         address.Fields
	RequestDefault bool
}

// Create saves a new address. The first address for a customer is forced
// default; when default is requested and a different default exists, the
// old one is flipped and persisted before the new address is saved.
func (uc *AddressUsecase) Create(ctx context.Context, in CreateInput) (address.Address, error) {
	cid := strings.TrimSpace(in.CustomerID)
	if cid == "" {
		return address.Address{}, ErrAddressInvalidArgument
	}

	uc.locks.Lock(cid)
	defer uc.locks.Unlock(cid)

	now := uc.clock.Now()

	existing, err := uc.repo.ListByCustomerID(ctx, cid)
	if err != nil {
		return address.Address{}, err
	}

	isDefault := in.RequestDefault
	if len(existing) == 0 {
		isDefault = true
	}

	if isDefault {
		if err := uc.unsetCurrentDefault(ctx, cid, now); err != nil {
			return address.Address{}, err
		}
	}

	a, err := address.New(uuid.NewString(), cid, in.Fields, isDefault, now)
	if err != nil {
		return address.Address{}, err
	}
	return uc.repo.Save(ctx, a)
}

// Update replaces all mutable fields except id and customerId. Promotion to
// default applies the same unset-then-set sequence as SetDefault.
func (uc *AddressUsecase) Update(ctx context.Context, id string, f address.Fields, requestDefault bool) (address.Address, error) {
	aid := strings.TrimSpace(id)
	if aid == "" {
		return address.Address{}, ErrAddressInvalidArgument
	}

	a, err := uc.repo.GetByID(ctx, aid)
	if err != nil {
		return address.Address{}, err
	}

	uc.locks.Lock(a.CustomerID)
	defer uc.locks.Unlock(a.CustomerID)

	now := uc.clock.Now()

	if err := a.Apply(f, now); err != nil {
		return address.Address{}, err
	}

	if requestDefault && !a.IsDefault {
		if err := uc.unsetCurrentDefault(ctx, a.CustomerID, now); err != nil {
			return address.Address{}, err
		}
		a.SetDefault(now)
	}

	return uc.repo.Save(ctx, a)
}

// SetDefault promotes the address to default, demoting any other default
// of the same customer first. ErrNotFound when the id does not resolve.
func (uc *AddressUsecase) SetDefault(ctx context.Context, id string) (address.Address, error) {
	aid := strings.TrimSpace(id)
	if aid == "" {
		return address.Address{}, ErrAddressInvalidArgument
	}

	a, err := uc.repo.GetByID(ctx, aid)
	if err != nil {
		return address.Address{}, err
	}

	uc.locks.Lock(a.CustomerID)
	defer uc.locks.Unlock(a.CustomerID)

	now := uc.clock.Now()

	if !a.IsDefault {
		if err := uc.unsetCurrentDefault(ctx, a.CustomerID, now); err != nil {
			return address.Address{}, err
		}
		a.SetDefault(now)
	}

	return uc.repo.Save(ctx, a)
}

// Delete removes the address (ErrNotFound when absent). Deleting the
// current default promotes the most recently created remaining address, so
// a customer with any addresses always keeps exactly one default.
func (uc *AddressUsecase) Delete(ctx context.Context, id string) error {
	aid := strings.TrimSpace(id)
	if aid == "" {
		return ErrAddressInvalidArgument
	}

	a, err := uc.repo.GetByID(ctx, aid)
	if err != nil {
		return err
	}

	uc.locks.Lock(a.CustomerID)
	defer uc.locks.Unlock(a.CustomerID)

	if err := uc.repo.Delete(ctx, aid); err != nil {
		return err
	}

	if !a.IsDefault {
		return nil
	}

	remaining, err := uc.repo.ListByCustomerID(ctx, a.CustomerID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return nil
	}

	next := remaining[0]
	for _, cand := range remaining[1:] {
		if cand.CreatedAt.After(next.CreatedAt) {
			next = cand
		}
	}

	next.SetDefault(uc.clock.Now())
	_, err = uc.repo.Save(ctx, next)
	return err
}

// unsetCurrentDefault demotes the customer's current default, if any, and
// persists it before the caller saves the new default.
func (uc *AddressUsecase) unsetCurrentDefault(ctx context.Context, customerID string, now time.Time) error {
	cur, err := uc.repo.GetDefaultByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	cur.UnsetDefault(now)
	_, err = uc.repo.Save(ctx, cur)
	return err
}
