package apiclient

import "time"

// RetryResult is a Retrier decision.
type RetryResult struct {
	retry bool
	delay time.Duration
	err   error
}

// RetryNow asks for an immediate retry.
func RetryNow() RetryResult { return RetryResult{retry: true} }

// RetryAfter asks for a retry once d has elapsed.
func RetryAfter(d time.Duration) RetryResult { return RetryResult{retry: true, delay: d} }

// DoNotRetry ends the call with the current error.
func DoNotRetry() RetryResult { return RetryResult{} }

// DoNotRetryWithError ends the call with cause instead of the current error.
func DoNotRetryWithError(cause error) RetryResult { return RetryResult{err: cause} }

// Required reports whether another attempt should run.
func (r RetryResult) Required() bool { return r.retry }

// Delay returns the wait before the next attempt.
func (r RetryResult) Delay() time.Duration { return r.delay }

// Err returns the replacement error, if any.
func (r RetryResult) Err() error { return r.err }
