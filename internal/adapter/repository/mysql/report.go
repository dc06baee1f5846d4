package mysql

import (
	"context"

	"agrolend-backend/internal/domain/harvest"
	"agrolend-backend/internal/domain/loan"
	"agrolend-backend/internal/domain/repayment"
	"agrolend-backend/internal/domain/report"
	"agrolend-backend/internal/domain/user"
	"agrolend-backend/pkg/money"

	"github.com/jmoiron/sqlx"
)

// ReportRepository runs read-only aggregate queries with plain SQL.
type ReportRepository struct{ db *sqlx.DB }

func NewReportRepository(db *sqlx.DB) *ReportRepository { return &ReportRepository{db: db} }

const farmerTotalsQuery = `
SELECT
  (SELECT COALESCE(SUM(amount_remaining), 0) FROM loans WHERE farmer_id = ? AND status = ?) AS total_owed,
  (SELECT COALESCE(SUM(amount), 0) FROM repayments WHERE farmer_id = ? AND status = ?) AS total_paid,
  (SELECT COUNT(*) FROM loans WHERE farmer_id = ?) AS total_loans,
  (SELECT COUNT(*) FROM repayments WHERE farmer_id = ?) AS total_repayments,
  (SELECT COUNT(*) FROM harvests WHERE farmer_id = ?) AS total_harvests,
  (SELECT COUNT(*) FROM messages WHERE farmer_id = ? AND seen = ?) AS unread_messages`

func (r *ReportRepository) FarmerTotals(ctx context.Context, farmerID string) (report.FarmerTotals, error) {
	var out report.FarmerTotals
	err := r.db.GetContext(ctx, &out, r.db.Rebind(farmerTotalsQuery),
		farmerID, loan.StatusApproved,
		farmerID, repayment.StatusApproved,
		farmerID,
		farmerID,
		farmerID,
		farmerID, false,
	)
	out.TotalOwed = money.Round(out.TotalOwed)
	out.TotalPaid = money.Round(out.TotalPaid)
	return out, err
}

const adminCountsQuery = `
SELECT
  (SELECT COUNT(*) FROM users WHERE role = ?) AS farmers,
  (SELECT COUNT(*) FROM loans) AS loans,
  (SELECT COUNT(*) FROM loans WHERE status = ?) AS pending_loans,
  (SELECT COUNT(*) FROM harvests WHERE status = ?) AS pending_harvests,
  (SELECT COUNT(*) FROM repayments WHERE status = ?) AS pending_repayments,
  (SELECT COUNT(*) FROM repayments) AS repayments,
  (SELECT COUNT(*) FROM input_requests) AS input_requests`

func (r *ReportRepository) AdminCounts(ctx context.Context) (report.AdminCounts, error) {
	var out report.AdminCounts
	err := r.db.GetContext(ctx, &out, r.db.Rebind(adminCountsQuery),
		user.RoleFarmer, loan.StatusPending, harvest.StatusPending, repayment.StatusPending)
	return out, err
}
