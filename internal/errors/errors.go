// Package errors defines the stable error codes used across the scanner and
// distinguishes fatal header-authoring defects from recoverable failures.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a stable identifier for a failure mode.
type Code string

const (
	// TentativeDefinition indicates a variable tentative definition in a header.
	TentativeDefinition Code = "TENTATIVE_DEFINITION"
	// DeclarationMismatch indicates the same declaration site was observed
	// with differing extern/definition status across configurations.
	DeclarationMismatch Code = "DECLARATION_MISMATCH"
	// BadAnnotation indicates an availability annotation with a malformed value.
	BadAnnotation Code = "BAD_ANNOTATION"
	// AvailabilityConflict indicates two configurations assigned different
	// non-empty values to the same availability slot.
	AvailabilityConflict Code = "AVAILABILITY_CONFLICT"
	// ParseFailed indicates the front end could not parse a header.
	ParseFailed Code = "PARSE_FAILED"
	// ConfigInvalid indicates a malformed configuration or matrix file.
	ConfigInvalid Code = "CONFIG_INVALID"
	// SnapshotMissing indicates a snapshot database was not found.
	SnapshotMissing Code = "SNAPSHOT_MISSING"
	// Internal indicates an unexpected failure.
	Internal Code = "INTERNAL_ERROR"
)

// ScanError is an error with a stable code. Fatal errors are
// header-authoring defects: the database cannot be trusted after one, so
// the run must stop. Non-fatal errors are reported to the caller, which
// decides whether to continue.
type ScanError struct {
	Code    Code
	Message string
	Fatal   bool
	cause   error
}

// New returns a non-fatal ScanError.
func New(code Code, message string) *ScanError {
	return &ScanError{Code: code, Message: message}
}

// Fatalf returns a fatal ScanError with a formatted message.
func Fatalf(code Code, format string, args ...interface{}) *ScanError {
	return &ScanError{Code: code, Message: fmt.Sprintf(format, args...), Fatal: true}
}

// Wrap returns a non-fatal ScanError wrapping cause.
func Wrap(code Code, message string, cause error) *ScanError {
	return &ScanError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.cause
}

// IsFatal reports whether err is (or wraps) a fatal ScanError.
func IsFatal(err error) bool {
	var se *ScanError
	return stderrors.As(err, &se) && se.Fatal
}

// CodeOf returns the code of err, or Internal when err carries none.
func CodeOf(err error) Code {
	var se *ScanError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return Internal
}
