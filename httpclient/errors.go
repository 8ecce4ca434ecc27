package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/kbukum/apikit/resilience"
)

// ErrorCode classifies transport failures.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a deadline was hit before the exchange completed.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a dial, TLS or protocol failure.
	ErrCodeConnection
	// ErrCodeCanceled indicates the caller cancelled the context.
	ErrCodeCanceled
	// ErrCodeCircuitOpen indicates the breaker rejected the request.
	ErrCodeCircuitOpen
	// ErrCodeRateLimited indicates the limiter rejected the request.
	ErrCodeRateLimited
	// ErrCodeBulkheadFull indicates no concurrency slot was available.
	ErrCodeBulkheadFull
	// ErrCodeRead indicates the body could not be read.
	ErrCodeRead
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeCircuitOpen:
		return "circuit_open"
	case ErrCodeRateLimited:
		return "rate_limited"
	case ErrCodeBulkheadFull:
		return "bulkhead_full"
	case ErrCodeRead:
		return "read"
	default:
		return "unknown"
	}
}

// Error is a transport failure. No response was obtained.
type Error struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, retryable bool, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Retryable: retryable, Err: err}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error { return newError(ErrCodeTimeout, true, err) }

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error { return newError(ErrCodeConnection, true, err) }

// NewReadError creates a body read error. A read cut short by a deadline
// is reported as a timeout.
func NewReadError(err error) *Error {
	if isTimeout(err) {
		return NewTimeoutError(err)
	}
	return newError(ErrCodeRead, true, fmt.Errorf("read response body: %w", err))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Classify maps an error from the HTTP stack or the resilience layer onto
// an *Error. ctx is the request context; its state decides between
// cancellation and timeout.
func Classify(ctx context.Context, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return newError(ErrCodeCircuitOpen, false, err)
	case errors.Is(err, resilience.ErrRateLimited):
		return newError(ErrCodeRateLimited, true, err)
	case errors.Is(err, resilience.ErrBulkheadFull), errors.Is(err, resilience.ErrBulkheadTimeout):
		return newError(ErrCodeBulkheadFull, true, err)
	}

	if ctx != nil {
		switch ctx.Err() {
		case context.Canceled:
			return newError(ErrCodeCanceled, false, err)
		case context.DeadlineExceeded:
			return NewTimeoutError(err)
		}
	}
	if errors.Is(err, context.Canceled) {
		return newError(ErrCodeCanceled, false, err)
	}
	if isTimeout(err) {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsCircuitOpen checks if the breaker rejected the request.
func IsCircuitOpen(err error) bool { return hasCode(err, ErrCodeCircuitOpen) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
