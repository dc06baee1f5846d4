package event

import (
	"context"
	"time"

	"agrolend-backend/internal/logger"
)

type Kind string

const (
	HarvestReviewed   Kind = "harvest.reviewed"
	LoanApproved      Kind = "loan.approved"
	LoanRejected      Kind = "loan.rejected"
	LoanRepaid        Kind = "loan.repaid"
	RepaymentApproved Kind = "repayment.approved"
	RepaymentRejected Kind = "repayment.rejected"
	LoanDueReminder   Kind = "loan.due_reminder"
)

// Event describes a committed status change on a farmer-owned record.
type Event struct {
	Kind     Kind      `json:"kind"`
	FarmerID string    `json:"farmer_id"`
	EntityID string    `json:"entity_id"`
	Status   string    `json:"status"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}

// Notifier is the status-change side channel.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Deliver sends e and only logs a failure; the change it reports is already committed.
func Deliver(ctx context.Context, n Notifier, e Event) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, e); err != nil {
		logger.WarnContext(ctx, "notify failed",
			"kind", e.Kind, "farmer_id", e.FarmerID, "entity_id", e.EntityID, "error", err)
	}
}
