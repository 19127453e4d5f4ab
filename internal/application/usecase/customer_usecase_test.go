// internal/application/usecase/customer_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"freshmart/internal/domain/common"
)

func newCustomerFixture(t *testing.T) (*CustomerUsecase, *memCustomerRepo) {
	t.Helper()
	repo := newMemCustomerRepo()
	return NewCustomerUsecaseWithClock(repo, fixedClock{testNow}), repo
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Phone:     "+1000",
		Password:  "s3cret",
	}
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	uc, _ := newCustomerFixture(t)

	c, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	require.Equal(t, "ada@example.com", c.Email)
	require.True(t, c.IsActive)
	require.False(t, c.IsEmailVerified)
	require.NotEqual(t, "s3cret", c.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("s3cret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newCustomerFixture(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.Phone = "+2000"
	_, err = uc.Register(ctx, in)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	uc, _ := newCustomerFixture(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.Email = "other@example.com"
	_, err = uc.Register(ctx, in)
	require.ErrorIs(t, err, ErrPhoneTaken)
}

func TestLogin(t *testing.T) {
	uc, _ := newCustomerFixture(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerInput())
	require.NoError(t, err)

	c, err := uc.Login(ctx, "ADA@example.com", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, c.LastLoginAt)

	_, err = uc.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = uc.Login(ctx, "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	uc, repo := newCustomerFixture(t)
	ctx := context.Background()

	c, err := uc.Register(ctx, registerInput())
	require.NoError(t, err)

	require.ErrorIs(t, uc.ChangePassword(ctx, c.ID, "wrong", "newpass"), ErrInvalidPassword)
	require.NoError(t, uc.ChangePassword(ctx, c.ID, "s3cret", "newpass"))

	stored := repo.customers[c.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass")))
}

func TestAccountFlags(t *testing.T) {
	uc, _ := newCustomerFixture(t)
	ctx := context.Background()

	c, err := uc.Register(ctx, registerInput())
	require.NoError(t, err)

	got, err := uc.VerifyEmail(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, got.IsEmailVerified)

	got, err = uc.Deactivate(ctx, c.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	got, err = uc.Activate(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)
}

func TestDeleteUnknownCustomer(t *testing.T) {
	uc, _ := newCustomerFixture(t)
	require.ErrorIs(t, uc.Delete(context.Background(), "missing"), common.ErrNotFound)
}
