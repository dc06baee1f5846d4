package repayment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrolend-backend/internal/domain/event"
	loanDomain "agrolend-backend/internal/domain/loan"
	domain "agrolend-backend/internal/domain/repayment"
	"agrolend-backend/internal/domain/uow"
	"agrolend-backend/internal/logger"
	loanUsecase "agrolend-backend/internal/usecase/loan"
	"agrolend-backend/pkg/apperr"
	"agrolend-backend/pkg/id"
	"agrolend-backend/pkg/money"
)

type Usecase struct {
	repo     domain.Repository
	loans    loanDomain.Repository
	uow      uow.UnitOfWork
	receipts ReceiptStore
	notifier event.Notifier
	now      func() time.Time
}

func NewUsecase(r domain.Repository, loans loanDomain.Repository, tx uow.UnitOfWork, receipts ReceiptStore, n event.Notifier) *Usecase {
	return &Usecase{
		repo:     r,
		loans:    loans,
		uow:      tx,
		receipts: receipts,
		notifier: n,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit records a pending repayment. The loan is not touched until an admin approves it.
func (u *Usecase) Submit(ctx context.Context, farmerID string, in SubmitInput) (*domain.Repayment, error) {
	if !money.Valid(in.Amount) {
		return nil, apperr.Validation(apperr.CodeInvalidAmount, "repayment amount must be a positive number with at most 2 decimals")
	}
	if !in.Method.Valid() {
		return nil, apperr.Validation(apperr.CodeInvalidMethod, "payment method must be one of mobile_money, bank, cash")
	}

	l, err := u.loans.GetByIDForFarmer(ctx, in.LoanID, farmerID)
	if errors.Is(err, loanDomain.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeLoanNotFound, "loan not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if err := acceptsRepayment(l); err != nil {
		return nil, err
	}
	if in.Amount.GreaterThan(l.AmountRemaining) {
		return nil, exceedsBalance(l)
	}

	rp := &domain.Repayment{
		ID:       id.NewID32(),
		FarmerID: farmerID,
		LoanID:   l.ID,
		Amount:   in.Amount,
		Method:   in.Method,
		Notes:    in.Notes,
		Status:   domain.StatusPending,
	}
	if in.Receipt != nil && u.receipts != nil {
		ref, err := u.receipts.Put(ctx, in.Receipt.Filename, in.Receipt.ContentType, in.Receipt.Body)
		if err != nil {
			return nil, apperr.Storage(fmt.Errorf("store receipt: %w", err))
		}
		rp.ReceiptRef = ref
	}
	if err := u.repo.Create(ctx, rp); err != nil {
		return nil, apperr.Storage(err)
	}
	logger.InfoContext(ctx, "repayment submitted", "repayment_id", rp.ID, "loan_id", l.ID, "amount", rp.Amount.String())
	return rp, nil
}

// Approve marks the repayment approved and settles it against the loan in one transaction.
func (u *Usecase) Approve(ctx context.Context, adminID, repaymentID string) (*domain.Repayment, *loanDomain.Loan, error) {
	rp, err := u.Get(ctx, repaymentID)
	if err != nil {
		return nil, nil, err
	}
	if err := approvable(rp.Status); err != nil {
		return nil, nil, err
	}

	at := u.now()
	var settled *loanDomain.Loan
	err = u.uow.WithinLoanTx(ctx, rp.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if err := acceptsRepayment(l); err != nil {
			return err
		}
		// another repayment may have been approved since submission
		if rp.Amount.GreaterThan(l.AmountRemaining) {
			return exceedsBalance(l)
		}

		ok, err := r.Repayments.MarkApproved(ctx, rp.ID, adminID, at)
		if err != nil {
			return apperr.Storage(err)
		}
		if !ok {
			return lostRace(ctx, r.Repayments, rp.ID, approvable)
		}
		if err := loanUsecase.Settle(ctx, r.Loans, l, rp.Amount); err != nil {
			return err
		}
		settled = l
		return nil
	})
	if err != nil {
		return nil, nil, txError(err)
	}

	rp.Status = domain.StatusApproved
	rp.ApprovedAt = &at
	rp.ApprovedBy = &adminID
	logger.InfoContext(ctx, "repayment approved",
		"repayment_id", rp.ID, "loan_id", settled.ID, "amount_remaining", settled.AmountRemaining.String(), "loan_status", settled.Status)

	event.Deliver(ctx, u.notifier, event.Event{
		Kind:     event.RepaymentApproved,
		FarmerID: rp.FarmerID,
		EntityID: rp.ID,
		Status:   string(rp.Status),
		Text:     fmt.Sprintf("Your repayment of %s was approved. Remaining balance: %s.", rp.Amount.String(), settled.AmountRemaining.String()),
		At:       at,
	})
	if settled.Status == loanDomain.StatusRepaid {
		event.Deliver(ctx, u.notifier, event.Event{
			Kind:     event.LoanRepaid,
			FarmerID: settled.FarmerID,
			EntityID: settled.ID,
			Status:   string(settled.Status),
			Text:     fmt.Sprintf("Your loan of %s is fully repaid.", settled.Amount.String()),
			At:       at,
		})
	}
	return rp, settled, nil
}

// Reject closes a pending repayment without touching its loan.
func (u *Usecase) Reject(ctx context.Context, adminID, repaymentID string) (*domain.Repayment, error) {
	rp, err := u.Get(ctx, repaymentID)
	if err != nil {
		return nil, err
	}
	if err := rejectable(rp.Status); err != nil {
		return nil, err
	}

	at := u.now()
	ok, err := u.repo.MarkRejected(ctx, rp.ID, adminID, at)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		return nil, lostRace(ctx, u.repo, rp.ID, rejectable)
	}

	rp.Status = domain.StatusRejected
	rp.RejectedAt = &at
	rp.RejectedBy = &adminID
	logger.InfoContext(ctx, "repayment rejected", "repayment_id", rp.ID, "admin_id", adminID)
	event.Deliver(ctx, u.notifier, event.Event{
		Kind:     event.RepaymentRejected,
		FarmerID: rp.FarmerID,
		EntityID: rp.ID,
		Status:   string(rp.Status),
		Text:     fmt.Sprintf("Your repayment of %s was rejected.", rp.Amount.String()),
		At:       at,
	})
	return rp, nil
}

func (u *Usecase) Get(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
	rp, err := u.repo.GetByID(ctx, repaymentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeRepaymentNotFound, "repayment not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return rp, nil
}

func (u *Usecase) GetForFarmer(ctx context.Context, repaymentID, farmerID string) (*domain.Repayment, error) {
	rp, err := u.Get(ctx, repaymentID)
	if err != nil {
		return nil, err
	}
	if rp.FarmerID != farmerID {
		return nil, apperr.NotFound(apperr.CodeRepaymentNotFound, "repayment not found")
	}
	return rp, nil
}

func (u *Usecase) List(ctx context.Context, f domain.Filter) ([]domain.Repayment, error) {
	out, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

func acceptsRepayment(l *loanDomain.Loan) error {
	switch l.Status {
	case loanDomain.StatusApproved:
		return nil
	case loanDomain.StatusRepaid:
		return apperr.InvalidState(apperr.CodeLoanRepaid, "loan is already repaid")
	}
	return apperr.InvalidState(apperr.CodeLoanNotApproved, fmt.Sprintf("loan is %s; only approved loans take repayments", l.Status))
}

func exceedsBalance(l *loanDomain.Loan) error {
	return apperr.Validation(apperr.CodeExceedsBalance,
		fmt.Sprintf("repayment exceeds the outstanding balance of %s", l.AmountRemaining.String()))
}

func approvable(s domain.Status) error {
	switch s {
	case domain.StatusPending:
		return nil
	case domain.StatusApproved:
		return apperr.Conflict(apperr.CodeAlreadyApproved, "repayment already approved")
	}
	return apperr.InvalidState(apperr.CodeRepaymentTerminal, "repayment is "+string(s))
}

func rejectable(s domain.Status) error {
	switch s {
	case domain.StatusPending:
		return nil
	case domain.StatusRejected:
		return apperr.Conflict(apperr.CodeAlreadyRejected, "repayment already rejected")
	}
	return apperr.InvalidState(apperr.CodeRepaymentTerminal, "repayment is "+string(s))
}

// lostRace re-reads a repayment whose conditional write matched nothing and reports why.
func lostRace(ctx context.Context, repo domain.Repository, id string, guard func(domain.Status) error) error {
	cur, err := repo.GetByID(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if err := guard(cur.Status); err != nil {
		return err
	}
	return apperr.Conflict(apperr.CodeRepaymentTerminal, "repayment changed concurrently; retry")
}

func txError(err error) error {
	if errors.Is(err, loanDomain.ErrNotFound) {
		return apperr.NotFound(apperr.CodeLoanNotFound, "loan not found")
	}
	return apperr.Storage(err)
}
