package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Confirmation workflow outcomes. ErrAlreadyResolved is the normal result
	// of losing a concurrent confirm/reject race and is not an application
	// error.
	ErrNotAuthorized   = errors.New("not authorized to resolve confirmation")
	ErrAlreadyResolved = errors.New("confirmation already resolved")
	ErrExpired         = errors.New("confirmation expired")

	ErrInvalidStateTransition = errors.New("invalid order state transition")
	ErrInvalidAction          = errors.New("unknown confirmation action")
	ErrReasonRequired         = errors.New("rejection reason required")
	ErrInvoiceRequired        = errors.New("invoice payload required")

	ErrInvalidOrder       = errors.New("invalid order data")
	ErrInvalidAmount      = errors.New("invalid payment amount")
	ErrInvalidPaymentKind = errors.New("invalid payment kind")

	// ErrDependencyFailure wraps mail transport or storage failures during
	// execution. Such failures abort the enclosing transaction entirely and
	// are retryable.
	ErrDependencyFailure = errors.New("dependency failure")
)
