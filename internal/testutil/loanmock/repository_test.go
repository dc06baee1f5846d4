package loanmock

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "agrolend-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

func TestRepoDefaults(t *testing.T) {
	m := &Repo{}
	ctx := context.Background()

	if err := m.Create(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Create default err: %v", err)
	}
	if _, err := m.GetByID(ctx, "x"); !errors.Is(err, ErrUnimplemented) {
		t.Fatalf("GetByID default = %v, want ErrUnimplemented", err)
	}
	if ok, err := m.ApplyBalance(ctx, "x", decimal.Zero, decimal.Zero, domain.StatusRepaid); !ok || err != nil {
		t.Fatalf("ApplyBalance default = %v, %v", ok, err)
	}
}

func TestRepoDelegates(t *testing.T) {
	var gotDue time.Time
	m := &Repo{
		GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return &domain.Loan{ID: id}, nil
		},
		ApproveFn: func(ctx context.Context, id, adminID string, due, at time.Time) (bool, error) {
			gotDue = due
			return false, nil
		},
	}
	ctx := context.Background()

	l, err := m.GetByIDForUpdate(ctx, "LN-1")
	if err != nil || l.ID != "LN-1" {
		t.Fatalf("GetByIDForUpdate = %+v, %v", l, err)
	}
	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if ok, _ := m.Approve(ctx, "LN-1", "adm", due, time.Now()); ok {
		t.Fatal("Approve should return the stubbed false")
	}
	if !gotDue.Equal(due) {
		t.Fatalf("due not passed through: %v", gotDue)
	}
}
