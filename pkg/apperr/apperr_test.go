package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	err := Conflict(CodeAlreadyApproved, "repayment already approved")

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("approve: %w", err)
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestStorage_WrapsAndKeepsTyped(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage(cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	var ae *Error
	assert.True(t, errors.As(err, &ae))
	assert.True(t, ae.Retryable())

	typed := NotFound(CodeLoanNotFound, "loan not found")
	assert.Same(t, typed, Storage(typed))
}

func TestKindOf_Untyped(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "LOAN_EXCEEDS_CEILING: you can only request up to 500",
		Validation(CodeExceedsCeiling, "you can only request up to 500").Error())
	assert.Contains(t, Storage(errors.New("boom")).Error(), "(boom)")
}
