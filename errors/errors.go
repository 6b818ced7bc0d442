// Package errors provides error handling for gridsense.
//
// This package re-exports github.com/cockroachdb/errors so every package gets
// stack traces, hints and assertion failures from one import:
//
//	if err := sampler.Sample(); err != nil {
//	    return errors.Wrap(err, "failed to sample maze")
//	}
//
//	return errors.WithHint(err, "lower grid.density or raise maze.max_attempts")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Stack traces
var (
	GetReportableStackTrace = crdb.GetReportableStackTrace
)

// Assertions
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinel errors shared across gridsense.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidRequest indicates a malformed argument (out-of-bounds point, unknown name)
	ErrInvalidRequest = New("invalid request")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = New("not found")

	// ErrUnsolvable indicates no solvable maze was produced within the attempt budget
	ErrUnsolvable = New("unsolvable")

	// ErrInvariant indicates a bookkeeping invariant was broken (a programming defect)
	ErrInvariant = New("invariant violated")
)

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvariantError creates an assertion failure that also matches ErrInvariant
func NewInvariantError(format string, args ...interface{}) error {
	return crdb.Mark(AssertionFailedf(format, args...), ErrInvariant)
}
