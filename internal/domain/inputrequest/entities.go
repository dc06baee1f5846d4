package inputrequest

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("input request not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusFulfilled Status = "fulfilled"
)

// transitions lists the statuses an admin may move a request into from each status.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusFulfilled},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type InputRequest struct {
	ID            string     `gorm:"primaryKey;size:32" json:"id"`
	FarmerID      string     `gorm:"size:32;index;not null" json:"farmer_id"`
	Items         []Item     `gorm:"foreignKey:InputRequestID;constraint:OnDelete:CASCADE" json:"items"`
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	Status        Status     `gorm:"size:16;index;not null;default:pending" json:"status"`
	AdminRemarks  string     `gorm:"type:text" json:"admin_remarks,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (InputRequest) TableName() string { return "input_requests" }

type Item struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	InputRequestID string `gorm:"size:32;index;not null" json:"-"`
	Name           string `gorm:"size:128;not null" json:"name"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	Unit           string `gorm:"size:16;not null;default:kg" json:"unit"`
}

func (Item) TableName() string { return "input_request_items" }

type Filter struct {
	Status   Status
	FarmerID string
}
