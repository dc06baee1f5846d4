package dashboard

import (
	"context"

	"agrolend-backend/internal/domain/loan"
	"agrolend-backend/internal/domain/message"
	"agrolend-backend/internal/domain/report"
	"agrolend-backend/internal/usecase/eligibility"
	"agrolend-backend/pkg/apperr"

	"github.com/shopspring/decimal"
)

const recentLimit = 5

type Ceilings interface {
	Compute(ctx context.Context, farmerID string) (eligibility.Ceiling, error)
}

type FarmerSummary struct {
	report.FarmerTotals
	EligibleLoan decimal.Decimal `json:"eligible_loan"`
}

type FarmerDashboard struct {
	Summary        FarmerSummary     `json:"summary"`
	RecentLoans    []loan.Loan       `json:"recent_loans"`
	RecentMessages []message.Message `json:"recent_messages"`
}

type Usecase struct {
	reports  report.Repository
	loans    loan.Repository
	messages message.Repository
	ceilings Ceilings
}

func NewUsecase(reports report.Repository, loans loan.Repository, messages message.Repository, ceilings Ceilings) *Usecase {
	return &Usecase{reports: reports, loans: loans, messages: messages, ceilings: ceilings}
}

func (u *Usecase) Farmer(ctx context.Context, farmerID string) (*FarmerDashboard, error) {
	totals, err := u.reports.FarmerTotals(ctx, farmerID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	ceil, err := u.ceilings.Compute(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	loans, err := u.loans.List(ctx, loan.Filter{FarmerID: farmerID, Limit: recentLimit})
	if err != nil {
		return nil, apperr.Storage(err)
	}
	msgs, err := u.messages.List(ctx, message.Filter{FarmerID: farmerID, Limit: recentLimit})
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if loans == nil {
		loans = []loan.Loan{}
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return &FarmerDashboard{
		Summary:        FarmerSummary{FarmerTotals: totals, EligibleLoan: ceil.Amount},
		RecentLoans:    loans,
		RecentMessages: msgs,
	}, nil
}

func (u *Usecase) Admin(ctx context.Context) (report.AdminCounts, error) {
	counts, err := u.reports.AdminCounts(ctx)
	if err != nil {
		return report.AdminCounts{}, apperr.Storage(err)
	}
	return counts, nil
}
