package reminder

import (
	"context"
	"fmt"
	"time"

	"agrolend-backend/internal/domain/event"
	"agrolend-backend/internal/domain/loan"
	"agrolend-backend/internal/logger"
	"agrolend-backend/pkg/apperr"
)

const DefaultWindow = 7 * 24 * time.Hour

// Result summarises one reminder run.
type Result struct {
	Due    int `json:"due"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type Usecase struct {
	loans    loan.Repository
	notifier event.Notifier
	window   time.Duration
	now      func() time.Time
}

func NewUsecase(loans loan.Repository, n event.Notifier, window time.Duration) *Usecase {
	if window <= 0 {
		window = DefaultWindow
	}
	if n == nil {
		n = event.Nop{}
	}
	return &Usecase{loans: loans, notifier: n, window: window, now: func() time.Time { return time.Now().UTC() }}
}

// Run reminds every farmer whose approved loan is due within the window or overdue.
// A failed reminder is counted and logged; it does not stop the run.
func (u *Usecase) Run(ctx context.Context) (Result, error) {
	now := u.now()
	due, err := u.loans.ListDue(ctx, now.Add(u.window))
	if err != nil {
		return Result{}, apperr.Storage(err)
	}
	res := Result{Due: len(due)}
	for i := range due {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		l := &due[i]
		e := event.Event{
			Kind:     event.LoanDueReminder,
			FarmerID: l.FarmerID,
			EntityID: l.ID,
			Status:   string(l.Status),
			Text:     Text(l, now),
			At:       now,
		}
		if err := u.notifier.Notify(ctx, e); err != nil {
			res.Failed++
			logger.WarnContext(ctx, "reminder failed", "loan_id", l.ID, "farmer_id", l.FarmerID, "error", err)
			continue
		}
		res.Sent++
	}
	logger.InfoContext(ctx, "reminders sent", "due", res.Due, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}

// Text is the mailbox wording for a due or overdue loan.
func Text(l *loan.Loan, now time.Time) string {
	if l.DueDate == nil {
		return fmt.Sprintf("Reminder: your loan has %s outstanding.", l.AmountRemaining.StringFixed(2))
	}
	day := l.DueDate.UTC().Format("2006-01-02")
	if l.DueDate.Before(now) {
		return fmt.Sprintf("Your loan was due on %s and still has %s outstanding. Please submit a repayment.",
			day, l.AmountRemaining.StringFixed(2))
	}
	return fmt.Sprintf("Reminder: your loan of %s is due on %s with %s outstanding.",
		l.Amount.StringFixed(2), day, l.AmountRemaining.StringFixed(2))
}
