package harvest

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("harvest not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status returns the terminal status a decision leads to.
func (d Decision) Status() (Status, bool) {
	switch d {
	case DecisionApprove:
		return StatusApproved, true
	case DecisionReject:
		return StatusRejected, true
	}
	return "", false
}

type Harvest struct {
	ID         string          `gorm:"primaryKey;size:32" json:"id"`
	FarmerID   string          `gorm:"size:32;index:idx_harvests_farmer_status;not null" json:"farmer_id"`
	CropType   string          `gorm:"size:64;not null" json:"crop_type"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Location   string          `gorm:"size:128" json:"location,omitempty"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	Status     Status          `gorm:"size:16;index:idx_harvests_farmer_status;not null;default:pending" json:"status"`
	ReviewedBy *string         `gorm:"size:32" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Harvest) TableName() string { return "harvests" }

// Fields are the farmer-editable attributes of a pending harvest.
type Fields struct {
	CropType string
	Amount   decimal.Decimal
	Location string
	Notes    string
}

func (h *Harvest) Apply(f Fields) {
	h.CropType = f.CropType
	h.Amount = f.Amount
	h.Location = f.Location
	h.Notes = f.Notes
	h.Status = StatusPending
}

type Filter struct {
	Status   Status
	FarmerID string
	From     *time.Time
	To       *time.Time
}
