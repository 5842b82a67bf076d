package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates bad input: unknown flags, unknown formats,
	// invalid configuration, or documents whose frontmatter fails to parse.
	ExitUser = 1

	// ExitSystem indicates an I/O or environment failure.
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates a document path matched no file.
	ErrNotFound = crdb.New("document not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrUnknownFormat indicates a frontmatter format name that no parser handles.
	ErrUnknownFormat = crdb.New("unknown frontmatter format")

	// ErrCheckFailed indicates one or more documents failed to parse.
	ErrCheckFailed = crdb.New("frontmatter check failed")
)

// ExitError wraps an error with an exit code and optional suggestion.
// It supports unwrapping, so Is and As see the underlying error.
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

// NewConfigError creates an ExitError for configuration problems.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: matter config show",
	}
}

// Error returns the message of the underlying error, or a generic message
// naming the exit code when there is none.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// CodeOf returns the exit code carried by err. Errors without an ExitError
// in their chain map to ExitUser; nil maps to ExitSuccess.
func CodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUser
}
