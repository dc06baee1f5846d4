package message

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("message not found")

type Type string

const (
	TypeAlert    Type = "alert"
	TypeReminder Type = "reminder"
	TypeInfo     Type = "info"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAlert, TypeReminder, TypeInfo:
		return true
	}
	return false
}

type Message struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	SenderID  *string   `gorm:"size:32" json:"sender_id,omitempty"` // nil for system messages
	FarmerID  string    `gorm:"size:32;index:idx_messages_farmer_seen;not null" json:"farmer_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Type      Type      `gorm:"size:16;not null;default:info" json:"type"`
	Seen      bool      `gorm:"index:idx_messages_farmer_seen;not null;default:false" json:"seen"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

type Filter struct {
	FarmerID   string
	SenderID   string
	UnseenOnly bool
	Limit      int
}
