// Package errors provides error handling conventions for mcpsync.
//
// It fronts github.com/cockroachdb/errors so the rest of the tree imports a
// single errors package, and adds the sentinels and the ExitError type used
// by the CLI layer.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes following standard Unix conventions.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions).
	ExitSystem = 2
)

// Re-exports from cockroachdb/errors so callers need only this package.
var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Sentinel errors for common failure conditions.
var (
	// ErrUnknownApp indicates an application name is not in the known app table.
	ErrUnknownApp = errors.New("unknown application")

	// ErrNoAppsDetected indicates no supported applications were found on this host.
	ErrNoAppsDetected = errors.New("no applications detected")

	// ErrSourceNotFound indicates the sync source file does not exist.
	ErrSourceNotFound = errors.New("source config not found")

	// ErrSourceEmpty indicates the sync source contains no MCP servers.
	ErrSourceEmpty = errors.New("no MCP configuration found in source")

	// ErrParse indicates a config file exists but is not valid JSON.
	// Distinct from an absent file, which is a safe empty starting document.
	ErrParse = errors.New("config file is not valid JSON")

	// ErrCancelled indicates the user declined a destructive operation.
	ErrCancelled = errors.New("operation cancelled by user")

	// ErrInvalidConfig indicates mcpsync's own configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ExitError wraps an error with an exit code and optional suggestion for the CLI.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: mcpsync config init",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
