package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (emailTaken, phoneTaken bool, err error)
	// UpdateProfile writes only the listed columns.
	UpdateProfile(ctx context.Context, u *User, fields []ProfileField) error
	ListFarmers(ctx context.Context, f Filter) ([]User, error)
	// FarmerIDs returns ids of farmers; when ids is non-empty only those that exist and are farmers.
	FarmerIDs(ctx context.Context, ids []string) ([]string, error)
}
