package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"1":      true,
		"0.01":   true,
		"500.50": true,
		"0":      false,
		"-3":     false,
		"1.005":  false,
	}
	for in, want := range cases {
		assert.Equal(t, want, Valid(decimal.RequireFromString(in)), in)
	}
}

func TestRound(t *testing.T) {
	noisy := decimal.NewFromFloat(0.1 + 0.2)
	assert.False(t, noisy.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, "0.3", Round(noisy).String())
	assert.Equal(t, "350.5", Round(decimal.RequireFromString("350.50")).String())
}
