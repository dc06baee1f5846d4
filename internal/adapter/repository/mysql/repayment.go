package mysql

import (
	"context"
	"errors"
	"time"

	repaymentDomain "agrolend-backend/internal/domain/repayment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository { return &RepaymentRepository{db: db} }

func (r *RepaymentRepository) Create(ctx context.Context, rp *repaymentDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(rp).Error
}

func (r *RepaymentRepository) GetByID(ctx context.Context, id string) (*repaymentDomain.Repayment, error) {
	var out repaymentDomain.Repayment
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, repaymentDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *RepaymentRepository) List(ctx context.Context, f repaymentDomain.Filter) ([]repaymentDomain.Repayment, error) {
	q := r.db.WithContext(ctx).Model(&repaymentDomain.Repayment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FarmerID != "" {
		q = q.Where("farmer_id = ?", f.FarmerID)
	}
	if f.LoanID != "" {
		q = q.Where("loan_id = ?", f.LoanID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	var out []repaymentDomain.Repayment
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// SumApproved adds up in Go so the decimal column type does not depend on the driver.
func (r *RepaymentRepository) SumApproved(ctx context.Context, loanID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&repaymentDomain.Repayment{}).
		Where("loan_id = ? AND status = ?", loanID, repaymentDomain.StatusApproved).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (r *RepaymentRepository) MarkApproved(ctx context.Context, id, adminID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&repaymentDomain.Repayment{}).
		Where("id = ? AND status = ?", id, repaymentDomain.StatusPending).
		Updates(map[string]any{
			"status":      repaymentDomain.StatusApproved,
			"approved_at": at,
			"approved_by": adminID,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *RepaymentRepository) MarkRejected(ctx context.Context, id, adminID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&repaymentDomain.Repayment{}).
		Where("id = ? AND status = ?", id, repaymentDomain.StatusPending).
		Updates(map[string]any{
			"status":      repaymentDomain.StatusRejected,
			"rejected_at": at,
			"rejected_by": adminID,
		})
	return res.RowsAffected == 1, res.Error
}
