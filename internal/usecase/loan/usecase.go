package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrolend-backend/internal/domain/event"
	domain "agrolend-backend/internal/domain/loan"
	"agrolend-backend/internal/logger"
	"agrolend-backend/internal/usecase/eligibility"
	"agrolend-backend/pkg/apperr"
	"agrolend-backend/pkg/id"
	"agrolend-backend/pkg/money"

	"github.com/shopspring/decimal"
)

// DefaultTerm is the time from approval to due date.
const DefaultTerm = 365 * 24 * time.Hour

// Ceilings enforces the eligibility ceiling at request time.
type Ceilings interface {
	Check(ctx context.Context, farmerID string, amount decimal.Decimal) (eligibility.Ceiling, error)
}

type Usecase struct {
	repo     domain.Repository
	ceilings Ceilings
	notifier event.Notifier
	term     time.Duration
	now      func() time.Time
}

func NewUsecase(r domain.Repository, c Ceilings, n event.Notifier, term time.Duration) *Usecase {
	if term <= 0 {
		term = DefaultTerm
	}
	return &Usecase{
		repo:     r,
		ceilings: c,
		notifier: n,
		term:     term,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) Request(ctx context.Context, farmerID string, in RequestInput) (*domain.Loan, error) {
	if !money.Valid(in.Amount) {
		return nil, invalidAmount()
	}
	if _, err := u.ceilings.Check(ctx, farmerID, in.Amount); err != nil {
		return nil, err
	}

	l := &domain.Loan{
		ID:              id.NewID32(),
		FarmerID:        farmerID,
		Amount:          in.Amount,
		AmountRemaining: in.Amount,
		Status:          domain.StatusPending,
		Reason:          in.Reason,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, apperr.Storage(err)
	}
	logger.InfoContext(ctx, "loan requested", "loan_id", l.ID, "farmer_id", farmerID, "amount", l.Amount.String())
	return l, nil
}

// Edit resets both amount and balance to the new amount while the loan is pending.
func (u *Usecase) Edit(ctx context.Context, farmerID, loanID string, in EditInput) (*domain.Loan, error) {
	l, err := u.GetForFarmer(ctx, loanID, farmerID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.StatusPending {
		return nil, notPending(l.Status)
	}
	if !money.Valid(in.Amount) {
		return nil, invalidAmount()
	}
	if _, err := u.ceilings.Check(ctx, farmerID, in.Amount); err != nil {
		return nil, err
	}

	l.Amount = in.Amount
	l.AmountRemaining = in.Amount
	if in.Reason != nil {
		l.Reason = *in.Reason
	}
	ok, err := u.repo.UpdatePending(ctx, l)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		return nil, u.lostPendingRace(ctx, loanID, farmerID)
	}
	l.UpdatedAt = u.now()
	return l, nil
}

// Cancel deletes a pending loan owned by farmerID.
func (u *Usecase) Cancel(ctx context.Context, farmerID, loanID string) error {
	l, err := u.GetForFarmer(ctx, loanID, farmerID)
	if err != nil {
		return err
	}
	if l.Status != domain.StatusPending {
		return notPending(l.Status)
	}
	ok, err := u.repo.DeletePending(ctx, loanID, farmerID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return u.lostPendingRace(ctx, loanID, farmerID)
	}
	logger.InfoContext(ctx, "loan cancelled", "loan_id", loanID, "farmer_id", farmerID)
	return nil
}

func (u *Usecase) Approve(ctx context.Context, adminID, loanID string) (*domain.Loan, error) {
	l, err := u.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.StatusPending {
		return nil, notPending(l.Status)
	}

	at := u.now()
	due := at.Add(u.term)
	ok, err := u.repo.Approve(ctx, l.ID, adminID, due, at)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		return nil, apperr.InvalidState(apperr.CodeLoanNotPending, "loan was reviewed concurrently")
	}

	l.Status = domain.StatusApproved
	l.DueDate = &due
	l.ApprovedBy = &adminID
	l.ReviewedAt = &at
	logger.InfoContext(ctx, "loan approved", "loan_id", l.ID, "admin_id", adminID, "due_date", due)
	event.Deliver(ctx, u.notifier, event.Event{
		Kind:     event.LoanApproved,
		FarmerID: l.FarmerID,
		EntityID: l.ID,
		Status:   string(l.Status),
		Text:     fmt.Sprintf("Your loan of %s was approved. It is due on %s.", l.Amount.String(), due.Format("2006-01-02")),
		At:       at,
	})
	return l, nil
}

func (u *Usecase) Reject(ctx context.Context, adminID, loanID string) (*domain.Loan, error) {
	l, err := u.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.StatusPending {
		return nil, notPending(l.Status)
	}

	at := u.now()
	ok, err := u.repo.Reject(ctx, l.ID, adminID, at)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		return nil, apperr.InvalidState(apperr.CodeLoanNotPending, "loan was reviewed concurrently")
	}

	l.Status = domain.StatusRejected
	l.RejectedBy = &adminID
	l.ReviewedAt = &at
	logger.InfoContext(ctx, "loan rejected", "loan_id", l.ID, "admin_id", adminID)
	event.Deliver(ctx, u.notifier, event.Event{
		Kind:     event.LoanRejected,
		FarmerID: l.FarmerID,
		EntityID: l.ID,
		Status:   string(l.Status),
		Text:     fmt.Sprintf("Your loan request of %s was rejected.", l.Amount.String()),
		At:       at,
	})
	return l, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	l, err := u.repo.GetByID(ctx, loanID)
	return found(l, err)
}

func (u *Usecase) GetForFarmer(ctx context.Context, loanID, farmerID string) (*domain.Loan, error) {
	l, err := u.repo.GetByIDForFarmer(ctx, loanID, farmerID)
	return found(l, err)
}

func (u *Usecase) List(ctx context.Context, f domain.Filter) ([]domain.Loan, error) {
	out, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

// lostPendingRace explains why a conditional write on a pending loan matched nothing.
func (u *Usecase) lostPendingRace(ctx context.Context, loanID, farmerID string) error {
	cur, err := u.GetForFarmer(ctx, loanID, farmerID)
	if err != nil {
		return err
	}
	return notPending(cur.Status)
}

func found(l *domain.Loan, err error) (*domain.Loan, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeLoanNotFound, "loan not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return l, nil
}

func notPending(s domain.Status) error {
	return apperr.InvalidState(apperr.CodeLoanNotPending, fmt.Sprintf("loan is %s; only pending loans can change", s))
}

func invalidAmount() error {
	return apperr.Validation(apperr.CodeInvalidAmount, "loan amount must be a positive number with at most 2 decimals")
}
