package auth

import (
	"context"
	"errors"
	"strings"

	"agrolend-backend/internal/domain/user"
	"agrolend-backend/internal/logger"
	"agrolend-backend/internal/security"
	"agrolend-backend/pkg/apperr"
	"agrolend-backend/pkg/id"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type Usecase struct {
	users       user.Repository
	tokens      security.TokenManager
	allowAdmins bool
	cost        int
}

// NewUsecase builds the credential service. allowAdmins lets Register create admin accounts.
func NewUsecase(users user.Repository, tokens security.TokenManager, allowAdmins bool) *Usecase {
	return &Usecase{users: users, tokens: tokens, allowAdmins: allowAdmins, cost: bcrypt.DefaultCost}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Role == "" {
		in.Role = user.RoleFarmer
	}

	switch {
	case in.Name == "" || in.Email == "" || in.Phone == "":
		return nil, apperr.Validation(apperr.CodeInvalidInput, "name, email and phone are required")
	case len(in.Password) < minPasswordLen:
		return nil, apperr.Validation(apperr.CodeInvalidInput, "password must be at least 6 characters")
	case !in.Role.Valid():
		return nil, apperr.Validation(apperr.CodeInvalidInput, "role must be farmer or admin")
	case in.Role == user.RoleAdmin && !u.allowAdmins:
		return nil, apperr.Validation(apperr.CodeInvalidInput, "admin accounts cannot be self-registered")
	case in.Role == user.RoleFarmer && (!in.LandSize.IsPositive() || strings.TrimSpace(in.CropType) == ""):
		return nil, apperr.Validation(apperr.CodeInvalidInput, "farmer land size and crop type are required")
	}

	emailTaken, phoneTaken, err := u.users.ExistsByEmailOrPhone(ctx, in.Email, in.Phone)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	switch {
	case emailTaken && phoneTaken:
		return nil, apperr.Conflict(apperr.CodeUserExists, "user with this email and phone already exists")
	case emailTaken:
		return nil, apperr.Conflict(apperr.CodeUserExists, "user with this email already exists")
	case phoneTaken:
		return nil, apperr.Conflict(apperr.CodeUserExists, "user with this phone number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return nil, err
	}
	usr := &user.User{
		ID:           id.NewID32(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         in.Role,
		LandSize:     in.LandSize,
		CropType:     strings.TrimSpace(in.CropType),
		Location:     strings.TrimSpace(in.Location),
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, apperr.Storage(err)
	}
	logger.InfoContext(ctx, "user registered", "user_id", usr.ID, "role", usr.Role)
	return usr, nil
}

func (u *Usecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "email and password are required")
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	tok, exp, err := u.tokens.GenerateAccessToken(usr.ID, string(usr.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, ExpiresAt: exp, User: usr}, nil
}

// EnsureAdmin creates the bootstrap admin account unless the email is already registered.
func (u *Usecase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	_, err := u.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return apperr.Storage(err)
	}

	seeder := *u
	seeder.allowAdmins = true
	_, err = seeder.Register(ctx, RegisterInput{
		Name:     "Administrator",
		Email:    email,
		Phone:    "admin-" + id.NewID32()[:8],
		Password: password,
		Role:     user.RoleAdmin,
	})
	return err
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func invalidCredentials() error {
	return apperr.Unauthorized(apperr.CodeInvalidCredentials, "invalid email or password")
}
