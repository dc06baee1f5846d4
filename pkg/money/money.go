// Package money holds the amount rules shared by every ledger record.
package money

import "github.com/shopspring/decimal"

// Scale is the number of decimal places an amount may carry.
const Scale = 2

// Valid reports whether d is a positive amount with at most Scale decimal places.
func Valid(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(Scale))
}

// Round cuts d to Scale places. Aggregates read back from floating-point
// SQL sums go through it.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}
