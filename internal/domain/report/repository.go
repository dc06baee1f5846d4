package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// FarmerTotals are the aggregate figures of one farmer's ledger.
type FarmerTotals struct {
	TotalOwed       decimal.Decimal `db:"total_owed" json:"total_owed"`
	TotalPaid       decimal.Decimal `db:"total_paid" json:"total_paid"`
	TotalLoans      int64           `db:"total_loans" json:"total_loans"`
	TotalRepayments int64           `db:"total_repayments" json:"total_repayments"`
	TotalHarvests   int64           `db:"total_harvests" json:"total_harvests"`
	UnreadMessages  int64           `db:"unread_messages" json:"unread_messages_count"`
}

type AdminCounts struct {
	Farmers           int64 `db:"farmers" json:"farmers"`
	Loans             int64 `db:"loans" json:"loans"`
	PendingLoans      int64 `db:"pending_loans" json:"pending_loans"`
	PendingHarvests   int64 `db:"pending_harvests" json:"pending_harvests"`
	PendingRepayments int64 `db:"pending_repayments" json:"pending_repayments"`
	Repayments        int64 `db:"repayments" json:"repayments"`
	InputRequests     int64 `db:"input_requests" json:"input_requests"`
}

type Repository interface {
	FarmerTotals(ctx context.Context, farmerID string) (FarmerTotals, error)
	AdminCounts(ctx context.Context) (AdminCounts, error)
}
