package auth

import (
	"time"

	"agrolend-backend/internal/domain/user"

	"github.com/shopspring/decimal"
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     user.Role
	LandSize decimal.Decimal
	CropType string
	Location string
}

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}
