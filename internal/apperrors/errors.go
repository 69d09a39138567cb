package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that a withdrawal or transfer exceeds the available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict indicates that a concurrent mutation invalidated an optimistic check
// and the bounded internal retries were exhausted.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrStoreUnavailable indicates that the underlying persistence layer failed.
// Mutating operations are never silently retried on this error.
var ErrStoreUnavailable = errors.New("store unavailable")
