package user

import (
	"context"
	"errors"
	"sort"
	"strings"

	domain "agrolend-backend/internal/domain/user"
	"agrolend-backend/pkg/apperr"
)

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	usr, err := u.repo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return usr, nil
}

// UpdateProfile writes the allow-listed fields present in updates.
// Unknown keys and blank values are ignored.
func (u *Usecase) UpdateProfile(ctx context.Context, userID string, updates map[string]string) (*domain.User, error) {
	usr, err := u.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var fields []domain.ProfileField
	for key, raw := range updates {
		field := domain.ProfileField(key)
		set, ok := domain.ProfileSetters[field]
		v := strings.TrimSpace(raw)
		if !ok || v == "" {
			continue
		}
		if field == domain.FieldEmail {
			v = strings.ToLower(v)
		}
		set(usr, v)
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return usr, nil
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	if err := u.checkUnique(ctx, usr, fields); err != nil {
		return nil, err
	}
	if err := u.repo.UpdateProfile(ctx, usr, fields); err != nil {
		return nil, apperr.Storage(err)
	}
	return usr, nil
}

func (u *Usecase) ListFarmers(ctx context.Context, f domain.Filter) ([]domain.User, error) {
	out, err := u.repo.ListFarmers(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

func (u *Usecase) GetFarmer(ctx context.Context, farmerID string) (*domain.User, error) {
	usr, err := u.Profile(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if usr.Role != domain.RoleFarmer {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "farmer not found")
	}
	return usr, nil
}

func (u *Usecase) checkUnique(ctx context.Context, usr *domain.User, fields []domain.ProfileField) error {
	var email, phone string
	for _, f := range fields {
		switch f {
		case domain.FieldEmail:
			email = usr.Email
		case domain.FieldPhone:
			phone = usr.Phone
		}
	}
	if email == "" && phone == "" {
		return nil
	}

	current, err := u.repo.GetByID(ctx, usr.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if email == current.Email {
		email = ""
	}
	if phone == current.Phone {
		phone = ""
	}
	emailTaken, phoneTaken, err := u.repo.ExistsByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return apperr.Storage(err)
	}
	if (email != "" && emailTaken) || (phone != "" && phoneTaken) {
		return apperr.Conflict(apperr.CodeUserExists, "email or phone already belongs to another user")
	}
	return nil
}
