package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError rejects bad input before any side effect happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// LedgerError wraps a failed write to the entitlement ledger. It is fatal
// and aborts the whole workflow.
type LedgerError struct {
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error { return e.Err }

func NewLedger(op string, err error) *LedgerError {
	return &LedgerError{Op: op, Err: err}
}

// ExternalSyncError wraps a failed provider call. It is recorded, not
// thrown: workflows surface it as a warning next to an otherwise
// successful result.
type ExternalSyncError struct {
	Provider string
	Err      error
}

func (e *ExternalSyncError) Error() string {
	return fmt.Sprintf("provider %s sync failed: %v", e.Provider, e.Err)
}

func (e *ExternalSyncError) Unwrap() error { return e.Err }

func NewExternalSync(provider string, err error) *ExternalSyncError {
	return &ExternalSyncError{Provider: provider, Err: err}
}

// RefundProviderError is the one external failure treated as fatal: if the
// money never moved, nothing in the ledger may record that it did.
type RefundProviderError struct {
	OrderRef string
	Err      error
}

func (e *RefundProviderError) Error() string {
	return fmt.Sprintf("payment provider refund for order %s failed: %v", e.OrderRef, e.Err)
}

func (e *RefundProviderError) Unwrap() error { return e.Err }

func NewRefundProvider(orderRef string, err error) *RefundProviderError {
	return &RefundProviderError{OrderRef: orderRef, Err: err}
}

// ErrNotFound marks lookups of entities that do not exist.
var ErrNotFound = errors.New("record not found")

// ErrGrantInProgress is returned when the duplicate-grant lock is already
// held for the same (user, product, tariff) triple.
var ErrGrantInProgress = errors.New("a grant for this user and tariff is already in progress")

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsRefundProvider(err error) bool {
	var re *RefundProviderError
	return errors.As(err, &re)
}
