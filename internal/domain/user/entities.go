package user

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("user not found")

type Role string

const (
	RoleFarmer Role = "farmer"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool { return r == RoleFarmer || r == RoleAdmin }

// User is both the farmer identity that owns ledger records and the admin reviewer.
type User struct {
	ID           string          `gorm:"primaryKey;size:32" json:"id"`
	Name         string          `gorm:"size:128;not null" json:"name"`
	Email        string          `gorm:"size:191;uniqueIndex:ux_users_email;not null" json:"email"`
	Phone        string          `gorm:"size:32;uniqueIndex:ux_users_phone;not null" json:"phone"`
	PasswordHash string          `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         Role            `gorm:"size:16;index;not null" json:"role"`
	LandSize     decimal.Decimal `gorm:"type:decimal(12,2)" json:"land_size"`
	CropType     string          `gorm:"size:64" json:"crop_type,omitempty"`
	Location     string          `gorm:"size:128" json:"location,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// ProfileField names a user column that a profile update may write.
type ProfileField string

const (
	FieldName     ProfileField = "name"
	FieldPhone    ProfileField = "phone"
	FieldEmail    ProfileField = "email"
	FieldLocation ProfileField = "location"
)

// ProfileSetters is the allow-list of writable profile fields.
var ProfileSetters = map[ProfileField]func(u *User, v string){
	FieldName:     func(u *User, v string) { u.Name = v },
	FieldPhone:    func(u *User, v string) { u.Phone = v },
	FieldEmail:    func(u *User, v string) { u.Email = v },
	FieldLocation: func(u *User, v string) { u.Location = v },
}

type Filter struct {
	Name  string
	Phone string
}
