package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("loan not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusRepaid   Status = "repaid"
)

type Loan struct {
	ID              string          `gorm:"primaryKey;size:32" json:"id"`
	FarmerID        string          `gorm:"size:32;index:idx_loans_farmer_status;not null" json:"farmer_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	AmountRemaining decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount_remaining"`
	Status          Status          `gorm:"size:16;index:idx_loans_farmer_status;not null;default:pending" json:"status"`
	Reason          string          `gorm:"type:text" json:"reason,omitempty"`
	DueDate         *time.Time      `gorm:"index" json:"due_date,omitempty"`
	ApprovedBy      *string         `gorm:"size:32" json:"approved_by,omitempty"`
	RejectedBy      *string         `gorm:"size:32" json:"rejected_by,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Settle returns the balance and status after applying amount to an approved loan.
// The balance never drops below zero; reaching zero closes the loan.
func (l *Loan) Settle(amount decimal.Decimal) (decimal.Decimal, Status) {
	remaining := l.AmountRemaining.Sub(amount)
	if !remaining.IsPositive() {
		return decimal.Zero, StatusRepaid
	}
	return remaining, StatusApproved
}

type Filter struct {
	Status   Status
	FarmerID string
	From     *time.Time
	To       *time.Time
	Limit    int
}
