// internal/application/usecase/customer_usecase.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"freshmart/internal/domain/common"
	"freshmart/internal/domain/customer"
)

var (
	ErrCustomerInvalidArgument = fmt.Errorf("customer_usecase: invalid argument: %w", common.ErrValidation)

	ErrEmailTaken      = fmt.Errorf("customer_usecase: email already registered: %w", common.ErrInvalidState)
	ErrPhoneTaken      = fmt.Errorf("customer_usecase: phone already registered: %w", common.ErrInvalidState)
	ErrInvalidPassword = fmt.Errorf("customer_usecase: invalid password: %w", common.ErrInvalidState)
)

// CustomerUsecase handles registration, login and account flags. Email and
// phone are globally unique; the duplicate checks run before the save.
type CustomerUsecase struct {
	repo  customer.Repository
	clock Clock
}

func NewCustomerUsecase(repo customer.Repository) *CustomerUsecase {
	return &CustomerUsecase{repo: repo, clock: systemClock{}}
}

// NewCustomerUsecaseWithClock is useful for tests.
func NewCustomerUsecaseWithClock(repo customer.Repository, clock Clock) *CustomerUsecase {
	uc := NewCustomerUsecase(repo)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// Queries

func (uc *CustomerUsecase) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	return uc.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (uc *CustomerUsecase) GetByEmail(ctx context.Context, email string) (customer.Customer, error) {
	return uc.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (uc *CustomerUsecase) GetByPhone(ctx context.Context, phone string) (customer.Customer, error) {
	return uc.repo.GetByPhone(ctx, strings.TrimSpace(phone))
}

func (uc *CustomerUsecase) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return uc.repo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (uc *CustomerUsecase) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return uc.repo.ExistsByPhone(ctx, strings.TrimSpace(phone))
}

// Commands

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// Register creates a new active, unverified customer. Duplicate email or
// phone fails with InvalidState.
func (uc *CustomerUsecase) Register(ctx context.Context, in RegisterInput) (customer.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	if email == "" || phone == "" || in.Password == "" {
		return customer.Customer{}, ErrCustomerInvalidArgument
	}

	if taken, err := uc.repo.ExistsByEmail(ctx, email); err != nil {
		return customer.Customer{}, err
	} else if taken {
		return customer.Customer{}, ErrEmailTaken
	}
	if taken, err := uc.repo.ExistsByPhone(ctx, phone); err != nil {
		return customer.Customer{}, err
	} else if taken {
		return customer.Customer{}, ErrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return customer.Customer{}, err
	}

	c, err := customer.New(uuid.NewString(), in.FirstName, in.LastName, email, phone, string(hash), uc.clock.Now())
	if err != nil {
		return customer.Customer{}, err
	}
	return uc.repo.Save(ctx, c)
}

// Login verifies the password and stamps lastLoginAt. Unknown email is
// NotFound; a wrong password is InvalidState.
func (uc *CustomerUsecase) Login(ctx context.Context, email, password string) (customer.Customer, error) {
	c, err := uc.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return customer.Customer{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return customer.Customer{}, ErrInvalidPassword
	}

	c.TouchLogin(uc.clock.Now())
	return uc.repo.Save(ctx, c)
}

// UpdateProfile replaces the editable profile fields.
func (uc *CustomerUsecase) UpdateProfile(ctx context.Context, id, firstName, lastName string) (customer.Customer, error) {
	return uc.mutate(ctx, id, func(c *customer.Customer) error {
		return c.UpdateProfile(firstName, lastName, uc.clock.Now())
	})
}

func (uc *CustomerUsecase) Activate(ctx context.Context, id string) (customer.Customer, error) {
	return uc.mutate(ctx, id, func(c *customer.Customer) error {
		c.Activate(uc.clock.Now())
		return nil
	})
}

func (uc *CustomerUsecase) Deactivate(ctx context.Context, id string) (customer.Customer, error) {
	return uc.mutate(ctx, id, func(c *customer.Customer) error {
		c.Deactivate(uc.clock.Now())
		return nil
	})
}

func (uc *CustomerUsecase) VerifyEmail(ctx context.Context, id string) (customer.Customer, error) {
	return uc.mutate(ctx, id, func(c *customer.Customer) error {
		c.VerifyEmail(uc.clock.Now())
		return nil
	})
}

func (uc *CustomerUsecase) VerifyPhone(ctx context.Context, id string) (customer.Customer, error) {
	return uc.mutate(ctx, id, func(c *customer.Customer) error {
		c.VerifyPhone(uc.clock.Now())
		return nil
	})
}

// ChangePassword verifies the old password and swaps in a new hash.
func (uc *CustomerUsecase) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrCustomerInvalidArgument
	}

	c, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := c.ReplacePasswordHash(string(hash), uc.clock.Now()); err != nil {
		return err
	}
	_, err = uc.repo.Save(ctx, c)
	return err
}

func (uc *CustomerUsecase) Delete(ctx context.Context, id string) error {
	cid := strings.TrimSpace(id)
	if _, err := uc.repo.GetByID(ctx, cid); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, cid)
}

func (uc *CustomerUsecase) mutate(ctx context.Context, id string, fn func(*customer.Customer) error) (customer.Customer, error) {
	c, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return customer.Customer{}, err
	}
	if err := fn(&c); err != nil {
		return customer.Customer{}, err
	}
	return uc.repo.Save(ctx, c)
}
