package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode"
)

// APIError is the normalized error shape of the request pipeline.
// It is immutable once constructed.
type APIError struct {
	statusCode int
	code       string
	message    string
	cause      error
}

// Option customizes an APIError at construction time.
type Option func(*APIError)

// WithStatus sets the HTTP status code the error was derived from.
func WithStatus(code int) Option {
	return func(e *APIError) { e.statusCode = code }
}

// WithCause sets the underlying cause.
func WithCause(cause error) Option {
	return func(e *APIError) { e.cause = cause }
}

// New creates an APIError from a catalog entry.
func New(k Known, opts ...Option) *APIError {
	return build(k.Code(), k.Message(), opts)
}

// From creates an APIError that carries the code and message of src.
// Status code and cause are not inherited; pass options to set them.
func From(src *APIError, opts ...Option) *APIError {
	if src == nil {
		return New(Unknown, opts...)
	}
	return build(src.code, src.message, opts)
}

// Custom creates an APIError with a code outside the catalog, typically
// decoded from a server payload.
func Custom(code, message string, opts ...Option) *APIError {
	return build(code, message, opts)
}

func build(code, message string, opts []Option) *APIError {
	e := &APIError{code: code, message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Error returns the string representation of the error.
func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.code)
	b.WriteString(": ")
	b.WriteString(e.message)
	if e.statusCode > 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.statusCode)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *APIError) Unwrap() error { return e.cause }

// Is reports whether target is an APIError with the same code, so callers
// can match against a catalog value with errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.code == e.code
}

// StatusCode returns the HTTP status code, or 0 when the error did not
// come from an HTTP response.
func (e *APIError) StatusCode() int { return e.statusCode }

// Code returns the stable error code.
func (e *APIError) Code() string { return e.code }

// Message returns the human readable message.
func (e *APIError) Message() string { return e.message }

// Cause returns the wrapped error, if any.
func (e *APIError) Cause() error { return e.cause }

// CodeNumber returns only the digits of the code ("ERROR-401" -> "401").
func (e *APIError) CodeNumber() string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, e.code)
}

// Known returns the catalog entry matching the code, if any.
func (e *APIError) Known() (Known, bool) {
	return Lookup(e.code)
}

// Wrap normalizes err into the taxonomy. An APIError found anywhere in the
// chain is returned as is; anything else becomes Unknown with err as cause.
// Wrap(nil) returns nil.
func Wrap(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr
	}
	return New(Unknown, WithCause(err))
}

// AsAPIError extracts the first APIError in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the code of k.
func IsCode(err error, k Known) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.code == k.Code()
}

// IsUnauthorized reports whether err is the 401 taxonomy error.
func IsUnauthorized(err error) bool { return IsCode(err, Unauthorized) }

// IsForbidden reports whether err is the 403 taxonomy error.
func IsForbidden(err error) bool { return IsCode(err, Forbidden) }

// IsAuthFailure reports whether err is either the 401 or 403 error.
func IsAuthFailure(err error) bool { return IsUnauthorized(err) || IsForbidden(err) }

// As is a convenience re-export of the standard library errors.As.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Is is a convenience re-export of the standard library errors.Is.
func Is(err, target error) bool { return stderrors.Is(err, target) }
