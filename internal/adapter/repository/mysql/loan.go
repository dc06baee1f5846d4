package mysql

import (
	"context"
	"errors"
	"time"

	loanDomain "agrolend-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return loanResult(&out, res.Error)
}

func (r *LoanRepository) GetByIDForFarmer(ctx context.Context, id, farmerID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ? AND farmer_id = ?", id, farmerID).First(&out)
	return loanResult(&out, res.Error)
}

// GetByIDForUpdate takes a row lock; the sqlite dialect drops the locking clause.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return loanResult(&out, res.Error)
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FarmerID != "" {
		q = q.Where("farmer_id = ?", f.FarmerID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []loanDomain.Loan
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListDue(ctx context.Context, before time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date IS NOT NULL AND due_date <= ? AND amount_remaining > 0",
			loanDomain.StatusApproved, before).
		Order("due_date ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) UpdatePending(ctx context.Context, l *loanDomain.Loan) (bool, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ? AND farmer_id = ? AND status = ?", l.ID, l.FarmerID, loanDomain.StatusPending).
		Updates(map[string]any{
			"amount":           l.Amount,
			"amount_remaining": l.AmountRemaining,
			"reason":           l.Reason,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *LoanRepository) DeletePending(ctx context.Context, id, farmerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND farmer_id = ? AND status = ?", id, farmerID, loanDomain.StatusPending).
		Delete(&loanDomain.Loan{})
	return res.RowsAffected == 1, res.Error
}

func (r *LoanRepository) Approve(ctx context.Context, id, adminID string, due, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ? AND status = ?", id, loanDomain.StatusPending).
		Updates(map[string]any{
			"status":      loanDomain.StatusApproved,
			"due_date":    due,
			"approved_by": adminID,
			"reviewed_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *LoanRepository) Reject(ctx context.Context, id, adminID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ? AND status = ?", id, loanDomain.StatusPending).
		Updates(map[string]any{
			"status":      loanDomain.StatusRejected,
			"rejected_by": adminID,
			"reviewed_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

// ApplyBalance is a compare-and-set on (status=approved, amount_remaining=expected).
func (r *LoanRepository) ApplyBalance(ctx context.Context, id string, expected, remaining decimal.Decimal, status loanDomain.Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ? AND status = ? AND amount_remaining = ?", id, loanDomain.StatusApproved, expected).
		Updates(map[string]any{
			"amount_remaining": remaining,
			"status":           status,
		})
	return res.RowsAffected == 1, res.Error
}

func loanResult(l *loanDomain.Loan, err error) (*loanDomain.Loan, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
