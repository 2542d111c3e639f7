package errors

import (
	stderrors "errors"

	"github.com/louisbranch/dualidade/internal/platform/errors/i18n"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata for i18n templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// LocalizedMessage renders the user-facing message for locale.
func (e *Error) LocalizedMessage(locale string) string {
	return i18n.GetCatalog(locale).Format(string(e.Code), e.Metadata)
}

// HTTPStatus returns the HTTP status for the error's code.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// As extracts a domain error from err's chain.
func As(err error) (*Error, bool) {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// CodeOf returns err's domain code, or CodeUnknown.
func CodeOf(err error) Code {
	if domainErr, ok := As(err); ok {
		return domainErr.Code
	}
	return CodeUnknown
}
