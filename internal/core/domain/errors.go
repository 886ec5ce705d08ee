package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a content type with no registered
	// extractor.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrSyncInProgress indicates a sync is already running for the
	// source.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrCursorConflict indicates a cursor compare-and-swap lost to a
	// concurrent writer.
	ErrCursorConflict = errors.New("cursor version conflict")

	// ErrInvalidCursor indicates a stored cursor could not be decoded.
	// The safe fallback is to treat the cursor as absent and run a full
	// crawl.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrDimensionMismatch indicates the embedding provider returned a
	// vector of an unexpected dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrUnavailable indicates a provider stayed unreachable beyond the
	// retry budget.
	ErrUnavailable = errors.New("service unavailable")
)

// transientError marks a failure as retryable (network, rate limit,
// provider overload).
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return fmt.Sprintf("transient: %v", e.err)
}

func (e *transientError) Unwrap() error {
	return e.err
}

// Transient wraps err so IsTransient reports true for it.
// Returns nil if err is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is marked retryable anywhere in its
// chain.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
