// Package apperrors defines the errors surfaced to users of the link list:
// what went wrong, a readable message, and whether retrying can help.
package apperrors

import (
	"errors"
	"fmt"
)

// Type categorises an Error.
type Type string

const (
	TypeParsing         Type = "PARSING_ERROR"
	TypeContentTooLarge Type = "CONTENT_TOO_LARGE"
	TypeTooManyURLs     Type = "TOO_MANY_URLS"
	TypeNotFound        Type = "NOT_FOUND"
	TypeNetwork         Type = "NETWORK_ERROR"
	TypeInternal        Type = "INTERNAL_ERROR"
)

// Error is an error with a user-facing message.
type Error struct {
	Type        Type
	Message     string
	Recoverable bool
	Err         error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Parsing reports content the engine could not process.
func Parsing(err error) *Error {
	return &Error{
		Type:        TypeParsing,
		Message:     "Could not read the pasted content.",
		Recoverable: true,
		Err:         err,
	}
}

// ContentTooLarge reports content over the size ceiling. The engine is never
// invoked for such content.
func ContentTooLarge(size, limit int) *Error {
	return &Error{
		Type:        TypeContentTooLarge,
		Message:     fmt.Sprintf("Content is too large to process (%d bytes, limit %d). Please try with smaller content.", size, limit),
		Recoverable: true,
	}
}

// TooManyURLs reports an extraction result over the URL count ceiling.
func TooManyURLs(count, limit int) *Error {
	return &Error{
		Type:        TypeTooManyURLs,
		Message:     fmt.Sprintf("Too many URLs found (%d, limit %d). Please try with content containing fewer URLs.", count, limit),
		Recoverable: true,
	}
}

// NotFound reports a missing list entry.
func NotFound(what string) *Error {
	return &Error{
		Type:        TypeNotFound,
		Message:     fmt.Sprintf("%s not found.", what),
		Recoverable: false,
	}
}

// Network reports a failed outbound request.
func Network(err error) *Error {
	return &Error{
		Type:        TypeNetwork,
		Message:     "Network request failed.",
		Recoverable: true,
		Err:         err,
	}
}

// Internal wraps unexpected failures such as storage errors.
func Internal(err error) *Error {
	return &Error{
		Type:        TypeInternal,
		Message:     "Something went wrong.",
		Recoverable: true,
		Err:         err,
	}
}

// Is reports whether err is an *Error of type t.
func Is(err error, t Type) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Type == t
}

// UserMessage returns the text to show for err, with a recovery hint when
// retrying can help. Errors outside this package get a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return "An unexpected error occurred. Please try again."
	}

	msg := appErr.Message
	if !appErr.Recoverable {
		return msg
	}
	switch appErr.Type {
	case TypeParsing:
		msg += " Try again or paste different content."
	case TypeNetwork:
		msg += " Check your connection and try again."
	case TypeContentTooLarge, TypeTooManyURLs:
		// The message already says what to do.
	default:
		msg += " Please try again."
	}
	return msg
}
