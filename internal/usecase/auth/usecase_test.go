package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrolend-backend/internal/adapter/repository/mysql"
	"agrolend-backend/internal/domain/user"
	"agrolend-backend/internal/security"
	"agrolend-backend/internal/testutil/sqlitedb"
	"agrolend-backend/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUsecase(t *testing.T, allowAdmins bool) (*Usecase, security.TokenManager) {
	t.Helper()
	db := sqlitedb.Open(t, mysql.Models()...)
	tokens := security.NewTokenManager("test-secret", time.Hour)
	uc := NewUsecase(mysql.NewUserRepository(db), tokens, allowAdmins)
	uc.cost = bcrypt.MinCost
	return uc, tokens
}

func farmerInput() RegisterInput {
	return RegisterInput{
		Name:     "Amina",
		Email:    "Amina@Example.com ",
		Phone:    "0711000001",
		Password: "secret1",
		LandSize: decimal.NewFromInt(3),
		CropType: "maize",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	uc, tokens := newUsecase(t, false)
	ctx := context.Background()

	u, err := uc.Register(ctx, farmerInput())
	require.NoError(t, err)
	assert.Equal(t, user.RoleFarmer, u.Role)
	assert.Equal(t, "amina@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	res, err := uc.Login(ctx, "AMINA@example.com", "secret1")
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "farmer", claims.Role)

	_, err = uc.Login(ctx, "amina@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = uc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = uc.Login(ctx, "", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegisterDuplicates(t *testing.T) {
	uc, _ := newUsecase(t, false)
	ctx := context.Background()
	_, err := uc.Register(ctx, farmerInput())
	require.NoError(t, err)

	_, err = uc.Register(ctx, farmerInput())
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "email and phone")

	in := farmerInput()
	in.Email = "other@example.com"
	_, err = uc.Register(ctx, in)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "phone number")
}

func TestRegisterValidation(t *testing.T) {
	uc, _ := newUsecase(t, false)
	ctx := context.Background()

	noLand := farmerInput()
	noLand.LandSize = decimal.Zero
	_, err := uc.Register(ctx, noLand)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	short := farmerInput()
	short.Password = "123"
	_, err = uc.Register(ctx, short)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	admin := farmerInput()
	admin.Role = user.RoleAdmin
	_, err = uc.Register(ctx, admin)
	assert.ErrorIs(t, err, apperr.ErrValidation, "admin self-signup disabled")
}

func TestRegisterAdminWhenAllowed(t *testing.T) {
	uc, _ := newUsecase(t, true)
	in := farmerInput()
	in.Role = user.RoleAdmin
	in.LandSize = decimal.Zero
	in.CropType = ""

	u, err := uc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)
}

func TestEnsureAdmin(t *testing.T) {
	uc, _ := newUsecase(t, false)
	ctx := context.Background()

	require.NoError(t, uc.EnsureAdmin(ctx, "root@example.com", "rootpass"))
	require.NoError(t, uc.EnsureAdmin(ctx, "root@example.com", "rootpass"), "second call is a no-op")
	require.NoError(t, uc.EnsureAdmin(ctx, "", ""))

	res, err := uc.Login(ctx, "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, res.User.Role)
	assert.False(t, uc.allowAdmins, "seeding does not open admin signup")
}

type failingUsers struct{ user.Repository }

func (failingUsers) ExistsByEmailOrPhone(context.Context, string, string) (bool, bool, error) {
	return false, false, errors.New("db down")
}

func TestRegisterStorageError(t *testing.T) {
	uc := NewUsecase(failingUsers{}, security.NewTokenManager("x", time.Hour), false)
	_, err := uc.Register(context.Background(), farmerInput())
	assert.ErrorIs(t, err, apperr.ErrStorage)
}
