package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found in the tenant scope.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicateCode indicates an account code collision within a pump.
var ErrDuplicateCode = errors.New("account code already exists")

// ErrDuplicateVoucherNumber indicates a voucher number collision within a pump.
var ErrDuplicateVoucherNumber = errors.New("voucher number already exists")

// ErrInvalidFormat indicates a malformed account code, GST number or PAN.
var ErrInvalidFormat = errors.New("invalid format")

// ErrUnbalancedEntry indicates a voucher whose debit and credit totals disagree,
// or that carries fewer than two entries.
var ErrUnbalancedEntry = errors.New("voucher entries do not balance")

// ErrImmutableVoucher indicates a structural edit attempt on a posted or cancelled voucher.
var ErrImmutableVoucher = errors.New("voucher is immutable")

// ErrLocked indicates an edit or delete attempt on a locked account.
var ErrLocked = errors.New("account is locked")

// ErrSystemAccountProtected indicates a delete attempt on a system account.
var ErrSystemAccountProtected = errors.New("system account cannot be deleted")

// ErrUnbalancedLedger indicates that a generated statement failed its internal
// balancing invariant. This signals a posting bug upstream, not a user input error.
var ErrUnbalancedLedger = errors.New("ledger is unbalanced")

// ErrAlreadyPosted indicates a posting attempt on an already posted voucher.
var ErrAlreadyPosted = errors.New("voucher is already posted")

// ErrAlreadyCancelled indicates a cancellation attempt on an already cancelled voucher.
var ErrAlreadyCancelled = errors.New("voucher is already cancelled")

// ErrNotPosted indicates an operation that requires a posted voucher (e.g. reconciliation).
var ErrNotPosted = errors.New("voucher is not posted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level failure with an HTTP-ish status code so handlers
// can map repository errors without inspecting driver-specific types.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
