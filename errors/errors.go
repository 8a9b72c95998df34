// Package errors provides error handling for efmig.
//
// This package re-exports github.com/cockroachdb/errors and adds the small
// taxonomy the migration workflows report against:
//
//   - ErrValidation: rejected locally before the external tool is invoked
//   - ErrTool: the external tool reported one or more error lines
//   - ErrAmbiguous: the tool finished without an error or a known success marker
//   - ErrConfiguration: the persisted project configuration is stale or invalid
//   - ErrSetup: unrecoverable startup failure (process exits with status 1)
//
// Usage:
//
//	// Reject input before touching the tool
//	return errors.NewValidation("migration name must not be empty")
//
//	// Wrap with context
//	if err := store.Save(p); err != nil {
//	    return errors.Wrap(err, "failed to save project configuration")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "install the tool with: dotnet tool install --global dotnet-ef")
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

// Sentinel errors for the migration workflows.
// Use these with errors.Is() for type-safe error checking.
var (
	// ErrValidation indicates input was rejected before any tool invocation
	ErrValidation = New("validation failed")

	// ErrTool indicates the external tool reported error lines
	ErrTool = New("tool reported errors")

	// ErrAmbiguous indicates the tool output carried neither an error nor a success marker
	ErrAmbiguous = New("ambiguous tool outcome")

	// ErrConfiguration indicates the persisted project configuration is unusable
	ErrConfiguration = New("invalid configuration")

	// ErrSetup indicates startup cannot continue
	ErrSetup = New("setup failed")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")
)

// NewValidation creates a validation error with a formatted message.
// The message is reported verbatim; the ErrValidation mark is only for inspection.
func NewValidation(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrValidation)
}

// NewConfiguration creates a configuration error with a formatted message.
func NewConfiguration(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfiguration)
}

// NewSetup creates an unrecoverable setup error with a formatted message.
func NewSetup(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrSetup)
}

// MarkTool marks err as a tool failure while keeping its message.
func MarkTool(err error) error {
	if err == nil {
		return nil
	}
	return Mark(err, ErrTool)
}

// IsValidation checks if an error is or wraps ErrValidation
func IsValidation(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsConfiguration checks if an error is or wraps ErrConfiguration
func IsConfiguration(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsSetup checks if an error is or wraps ErrSetup
func IsSetup(err error) bool {
	return err != nil && Is(err, ErrSetup)
}

// IsTool checks if an error is or wraps ErrTool
func IsTool(err error) bool {
	return err != nil && Is(err, ErrTool)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}
