package repayment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("repayment not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Method string

const (
	MethodMobileMoney Method = "mobile_money"
	MethodBank        Method = "bank"
	MethodCash        Method = "cash"
)

func (m Method) Valid() bool {
	switch m {
	case MethodMobileMoney, MethodBank, MethodCash:
		return true
	}
	return false
}

type Repayment struct {
	ID         string          `gorm:"primaryKey;size:32" json:"id"`
	FarmerID   string          `gorm:"size:32;index;not null" json:"farmer_id"`
	LoanID     string          `gorm:"size:32;index:idx_repayments_loan_status;not null" json:"loan_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Method     Method          `gorm:"size:16;not null" json:"method"`
	ReceiptRef string          `gorm:"type:text" json:"receipt_ref,omitempty"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	Status     Status          `gorm:"size:16;index:idx_repayments_loan_status;not null;default:pending" json:"status"`
	ApprovedAt *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy *string         `gorm:"size:32" json:"approved_by,omitempty"`
	RejectedAt *time.Time      `json:"rejected_at,omitempty"`
	RejectedBy *string         `gorm:"size:32" json:"rejected_by,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Repayment) TableName() string { return "repayments" }

type Filter struct {
	Status   Status
	FarmerID string
	LoanID   string
	From     *time.Time
	To       *time.Time
}
