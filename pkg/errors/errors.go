// Package errors provides structured error types for rampboard.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the dashboard
//   - Machine-readable error codes for programmatic handling
//   - User-facing messages paired with an actionable next step
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The three codes that make up the data taxonomy are:
//   - SCHEMA_ERROR: a required column is missing or no value columns were given
//   - EMPTY_INPUT: zero rows to group, or zero entries to rank
//   - UNREADABLE_FILE: no encoding in the trial list parses the source
//
// None of them are fatal. Callers report [UserMessage] and [Hint] to the user
// and wait for corrected input.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSchema, "key column %q not found", name)
//	if errors.Is(err, errors.ErrCodeSchema) {
//	    fmt.Println(errors.Hint(err))
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUnreadableFile, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Data errors
	ErrCodeSchema         Code = "SCHEMA_ERROR"
	ErrCodeEmptyInput     Code = "EMPTY_INPUT"
	ErrCodeUnreadableFile Code = "UNREADABLE_FILE"
	ErrCodeKeyNotFound    Code = "KEY_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired  Code = "SESSION_EXPIRED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// hints maps error codes to the next step a user can take.
var hints = map[Code]string{
	ErrCodeSchema:         "pick at least one value column and check the key column name",
	ErrCodeEmptyInput:     "upload a CSV with at least one data row",
	ErrCodeUnreadableFile: "upload a CSV saved as UTF-8 or add its encoding to the trial list",
	ErrCodeKeyNotFound:    "choose one of the listed key values",
	ErrCodeInvalidFormat:  "use one of: svg, json, csv",
	ErrCodeFileNotFound:   "upload a CSV",
	ErrCodeSessionExpired: "upload the CSV again",
}

// Hint returns an actionable next step for err, or "" when none is known.
func Hint(err error) string {
	return hints[GetCode(err)]
}

// Recoverable reports whether err belongs to the data taxonomy that should be
// shown to the user while the process keeps running.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeSchema, ErrCodeEmptyInput, ErrCodeUnreadableFile, ErrCodeKeyNotFound,
		ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidPath,
		ErrCodeFileNotFound, ErrCodeSessionNotFound, ErrCodeSessionExpired:
		return true
	}
	return false
}
