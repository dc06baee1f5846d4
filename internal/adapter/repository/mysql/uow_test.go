package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	harvestDomain "agrolend-backend/internal/domain/harvest"
	loanDomain "agrolend-backend/internal/domain/loan"
	repaymentDomain "agrolend-backend/internal/domain/repayment"
	"agrolend-backend/internal/domain/uow"
	"agrolend-backend/pkg/id"

	"github.com/shopspring/decimal"
)

func seedApprovedLoan(t *testing.T, repo *LoanRepository, amount int64) *loanDomain.Loan {
	t.Helper()
	ctx := context.Background()
	l := makeLoan(id.NewID32(), amount)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	now := time.Now().UTC()
	if ok, err := repo.Approve(ctx, l.ID, "admin", now.Add(time.Hour), now); err != nil || !ok {
		t.Fatalf("seed approve: %v %v", ok, err)
	}
	return l
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	farmer := id.NewID32()
	h := &harvestDomain.Harvest{ID: id.NewID32(), FarmerID: farmer, CropType: "maize", Amount: decimal.NewFromInt(5), Status: harvestDomain.StatusPending}
	l := makeLoan(farmer, 50)

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Harvests.Create(ctx, h); err != nil {
			return err
		}
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewHarvestRepository(db).GetByID(ctx, h.ID); err != nil {
		t.Fatalf("harvest not visible after commit: %v", err)
	}
	if _, err := NewLoanRepository(db).GetByID(ctx, l.ID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	sentinel := errors.New("boom")

	l := makeLoan(id.NewID32(), 50)
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if _, err := NewLoanRepository(db).GetByID(ctx, l.ID); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_SettlementRollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	loans := NewLoanRepository(db)
	repayments := NewRepaymentRepository(db)

	l := seedApprovedLoan(t, loans, 500)
	rp := &repaymentDomain.Repayment{
		ID: id.NewID32(), FarmerID: l.FarmerID, LoanID: l.ID,
		Amount: decimal.NewFromInt(200), Method: repaymentDomain.MethodCash, Status: repaymentDomain.StatusPending,
	}
	if err := repayments.Create(ctx, rp); err != nil {
		t.Fatal(err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinLoanTx(ctx, l.ID, func(r uow.Repos, locked *loanDomain.Loan) error {
		if locked.ID != l.ID || locked.Status != loanDomain.StatusApproved {
			t.Fatalf("unexpected loan passed to fn: %+v", locked)
		}
		if ok, err := r.Repayments.MarkApproved(ctx, rp.ID, "admin", time.Now().UTC()); err != nil || !ok {
			t.Fatalf("MarkApproved: %v %v", ok, err)
		}
		rem, st := locked.Settle(rp.Amount)
		if ok, err := r.Loans.ApplyBalance(ctx, locked.ID, locked.AmountRemaining, rem, st); err != nil || !ok {
			t.Fatalf("ApplyBalance: %v %v", ok, err)
		}
		return sentinel // force rollback
	})

	gotLoan, _ := loans.GetByID(ctx, l.ID)
	if !gotLoan.AmountRemaining.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("loan balance changed after rollback: %s", gotLoan.AmountRemaining)
	}
	gotRp, _ := repayments.GetByID(ctx, rp.ID)
	if gotRp.Status != repaymentDomain.StatusPending {
		t.Fatalf("repayment status changed after rollback: %s", gotRp.Status)
	}
}

func TestGormUoW_WithinLoanTx_LoanNotFound(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	err := guow.WithinLoanTx(context.Background(), "LN-NOPE", func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatalf("callback should not be called when loan missing")
		return nil
	})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
