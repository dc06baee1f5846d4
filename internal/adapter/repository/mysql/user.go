package mysql

import (
	"context"
	"errors"

	userDomain "agrolend-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return userResult(&out, res.Error)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("email = ?", email).First(&out)
	return userResult(&out, res.Error)
}

func (r *UserRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, bool, error) {
	var emails, phones int64
	if err := r.db.WithContext(ctx).Model(&userDomain.User{}).Where("email = ?", email).Count(&emails).Error; err != nil {
		return false, false, err
	}
	if err := r.db.WithContext(ctx).Model(&userDomain.User{}).Where("phone = ?", phone).Count(&phones).Error; err != nil {
		return false, false, err
	}
	return emails > 0, phones > 0, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *userDomain.User, fields []userDomain.ProfileField) error {
	if len(fields) == 0 {
		return nil
	}
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, string(f))
	}
	return r.db.WithContext(ctx).Model(u).Select(cols).Updates(u).Error
}

func (r *UserRepository) ListFarmers(ctx context.Context, f userDomain.Filter) ([]userDomain.User, error) {
	q := r.db.WithContext(ctx).Where("role = ?", userDomain.RoleFarmer)
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+lower(f.Name)+"%")
	}
	if f.Phone != "" {
		q = q.Where("phone LIKE ?", "%"+f.Phone+"%")
	}
	var out []userDomain.User
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *UserRepository) FarmerIDs(ctx context.Context, ids []string) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&userDomain.User{}).Where("role = ?", userDomain.RoleFarmer)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	var out []string
	err := q.Order("id").Pluck("id", &out).Error
	return out, err
}

func userResult(u *userDomain.User, err error) (*userDomain.User, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
