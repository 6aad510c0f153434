// Package doctext extracts machine-readable text from heterogeneous document
// files (PDF, Word, spreadsheets, scanned images) and persists it alongside
// provenance metadata. JSON manifests referencing remote documents are
// resolved, downloaded, and fed through the same extraction path.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., extract/, sqlite/, http/).
package doctext

import "fmt"

// Error codes for application-level error handling.
const (
	ECOMPOSITE     = "composite"      // every fallback strategy failed
	EEMPTY         = "empty"          // zero-byte input file
	EENGINEFAILURE = "engine_failure" // external engine ran and failed
	EENGINEMISSING = "engine_missing" // external engine not installed
	EINTERNAL      = "internal"
	EINVALID       = "invalid"
	ENOTFOUND      = "not_found"
	EPERSIST       = "persist"     // result sink rejected the write
	ETIMEOUT       = "timeout"     // remote fetch exceeded its deadline
	EUNAVAILABLE   = "unavailable" // transport-level failure
	EUNSUPPORTED   = "unsupported" // no extraction strategy for the format; a skip, not a failure
)

// Error represents an application error with a machine-readable code.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description safe to surface to callers.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("doctext error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the error, if available.
// Returns EINTERNAL for non-application errors and empty string for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, if available.
// Non-application errors report a generic message so raw library errors
// never reach end users.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	return "An internal error has occurred."
}

// Errorf creates a new Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
