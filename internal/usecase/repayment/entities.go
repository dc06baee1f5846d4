package repayment

import (
	"context"
	"io"

	domain "agrolend-backend/internal/domain/repayment"

	"github.com/shopspring/decimal"
)

type SubmitInput struct {
	LoanID  string
	Amount  decimal.Decimal
	Method  domain.Method
	Notes   string
	Receipt *Receipt
}

// Receipt is an uploaded proof-of-payment image.
type Receipt struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ReceiptStore persists receipt bytes and returns a stable reference to them.
type ReceiptStore interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}
