package eligibility

import (
	"context"
	"errors"
	"fmt"

	"agrolend-backend/internal/domain/harvest"
	"agrolend-backend/pkg/apperr"

	"github.com/shopspring/decimal"
)

// DefaultMultiplier is the loan-to-harvest ratio used when none is configured.
var DefaultMultiplier = decimal.NewFromInt(10)

// Ceiling is a farmer's loan ceiling and the harvest it was derived from.
type Ceiling struct {
	Amount    decimal.Decimal `json:"amount"`
	HarvestID string          `json:"harvest_id,omitempty"`
}

// Eligible reports whether an approved harvest backs the ceiling.
func (c Ceiling) Eligible() bool { return c.HarvestID != "" }

// CeilingFor is floor(harvestAmount × multiplier).
func CeilingFor(harvestAmount, multiplier decimal.Decimal) decimal.Decimal {
	return harvestAmount.Mul(multiplier).Floor()
}

// Calculator reads harvests and never writes.
type Calculator struct {
	harvests   harvest.Repository
	multiplier decimal.Decimal
}

func NewCalculator(harvests harvest.Repository, multiplier decimal.Decimal) *Calculator {
	if !multiplier.IsPositive() {
		multiplier = DefaultMultiplier
	}
	return &Calculator{harvests: harvests, multiplier: multiplier}
}

func (c *Calculator) Multiplier() decimal.Decimal { return c.multiplier }

// Compute returns a zero ceiling when the farmer has no approved harvest.
func (c *Calculator) Compute(ctx context.Context, farmerID string) (Ceiling, error) {
	h, err := c.harvests.LatestApproved(ctx, farmerID)
	if errors.Is(err, harvest.ErrNotFound) {
		return Ceiling{Amount: decimal.Zero}, nil
	}
	if err != nil {
		return Ceiling{}, apperr.Storage(err)
	}
	return Ceiling{Amount: CeilingFor(h.Amount, c.multiplier), HarvestID: h.ID}, nil
}

// Check fails with an eligibility error when no approved harvest exists and
// with a validation error naming the ceiling when amount exceeds it.
func (c *Calculator) Check(ctx context.Context, farmerID string, amount decimal.Decimal) (Ceiling, error) {
	ceil, err := c.Compute(ctx, farmerID)
	if err != nil {
		return Ceiling{}, err
	}
	if !ceil.Eligible() {
		return ceil, apperr.Eligibility(apperr.CodeNoApprovedHarvest,
			"no approved harvest found; a loan needs at least one approved harvest")
	}
	if amount.GreaterThan(ceil.Amount) {
		return ceil, apperr.Validation(apperr.CodeExceedsCeiling,
			fmt.Sprintf("you can only request up to %s", ceil.Amount.String()))
	}
	return ceil, nil
}
