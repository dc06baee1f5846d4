package loan

import "github.com/shopspring/decimal"

type RequestInput struct {
	Amount decimal.Decimal
	Reason string
}

// EditInput replaces the amount; a nil Reason keeps the current one.
type EditInput struct {
	Amount decimal.Decimal
	Reason *string
}
