package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the boundary layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindEligibility  Kind = "eligibility"
	KindConflict     Kind = "conflict"
	KindStorage      Kind = "storage"
	KindUnauthorized Kind = "unauthorized"
)

// Kind sentinels, usable with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrEligibility  = errors.New("not eligible")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage failure")
	ErrUnauthorized = errors.New("unauthorized")
)

var sentinels = map[Kind]error{
	KindValidation:   ErrValidation,
	KindNotFound:     ErrNotFound,
	KindInvalidState: ErrInvalidState,
	KindEligibility:  ErrEligibility,
	KindConflict:     ErrConflict,
	KindStorage:      ErrStorage,
	KindUnauthorized: ErrUnauthorized,
}

// Error is the typed failure every engine returns.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// Retryable reports whether the caller may retry the same request unchanged.
func (e *Error) Retryable() bool { return e.Kind == KindStorage }

func New(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message, nil)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message, nil)
}

func InvalidState(code, message string) *Error {
	return New(KindInvalidState, code, message, nil)
}

func Eligibility(code, message string) *Error {
	return New(KindEligibility, code, message, nil)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message, nil)
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message, nil)
}

// Storage wraps a persistence failure. An *Error passed in is returned as is.
func Storage(err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(KindStorage, CodeStorage, "storage operation failed", err)
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Error codes
const (
	CodeStorage             = "STORAGE_ERROR"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidCrop         = "INVALID_CROP"
	CodeInvalidMethod       = "INVALID_METHOD"
	CodeInvalidDecision     = "INVALID_DECISION"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeHarvestNotFound     = "HARVEST_NOT_FOUND"
	CodeHarvestNotPending   = "HARVEST_NOT_PENDING"
	CodeNoApprovedHarvest   = "NO_APPROVED_HARVEST"
	CodeExceedsCeiling      = "LOAN_EXCEEDS_CEILING"
	CodeLoanNotFound        = "LOAN_NOT_FOUND"
	CodeLoanNotPending      = "LOAN_NOT_PENDING"
	CodeLoanNotApproved     = "LOAN_NOT_APPROVED"
	CodeLoanRepaid          = "LOAN_ALREADY_REPAID"
	CodeBalanceChanged      = "LOAN_BALANCE_CHANGED"
	CodeExceedsBalance      = "REPAYMENT_EXCEEDS_BALANCE"
	CodeRepaymentNotFound   = "REPAYMENT_NOT_FOUND"
	CodeAlreadyApproved     = "REPAYMENT_ALREADY_APPROVED"
	CodeAlreadyRejected     = "REPAYMENT_ALREADY_REJECTED"
	CodeRepaymentTerminal   = "REPAYMENT_TERMINAL"
	CodeInputRequestMissing = "INPUT_REQUEST_NOT_FOUND"
	CodeInputRequestState   = "INPUT_REQUEST_INVALID_STATE"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeUserExists          = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeMessageNotFound     = "MESSAGE_NOT_FOUND"
	CodeNoRecipients        = "NO_RECIPIENTS"
	CodeUnauthenticated     = "UNAUTHENTICATED"
)
