package apiclient

import (
	"context"
	"net/http"
	"slices"

	"github.com/google/uuid"

	apierrors "github.com/kbukum/apikit/errors"
	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/resilience"
)

// AdapterState describes the attempt being adapted or retried.
type AdapterState struct {
	// RequestID is shared by every attempt of one call.
	RequestID uuid.UUID
	// Attempt is 1 for the first try.
	Attempt int
	// Transport is the transport executing the call.
	Transport httpclient.Transport
}

// Adapter rewrites a request before it is sent. The request is a private
// copy for this attempt and may be modified in place.
type Adapter interface {
	Adapt(ctx context.Context, req *http.Request, state AdapterState) (*http.Request, error)
}

// Retrier decides what happens after a failed attempt. err is always an
// *errors.APIError.
type Retrier interface {
	Retry(ctx context.Context, req *http.Request, state AdapterState, err error) RetryResult
}

// Interceptor adapts requests and decides on retries.
type Interceptor interface {
	Adapter
	Retrier
}

// AdaptFunc adapts a function to Adapter.
type AdaptFunc func(ctx context.Context, req *http.Request, state AdapterState) (*http.Request, error)

// Adapt implements Adapter.
func (f AdaptFunc) Adapt(ctx context.Context, req *http.Request, state AdapterState) (*http.Request, error) {
	return f(ctx, req, state)
}

// RetryFunc adapts a function to Retrier.
type RetryFunc func(ctx context.Context, req *http.Request, state AdapterState, err error) RetryResult

// Retry implements Retrier.
func (f RetryFunc) Retry(ctx context.Context, req *http.Request, state AdapterState, err error) RetryResult {
	return f(ctx, req, state, err)
}

// NopInterceptor passes requests through and never retries.
type NopInterceptor struct{}

var _ Interceptor = NopInterceptor{}

// Adapt returns req unchanged.
func (NopInterceptor) Adapt(_ context.Context, req *http.Request, _ AdapterState) (*http.Request, error) {
	return req, nil
}

// Retry returns DoNotRetry.
func (NopInterceptor) Retry(context.Context, *http.Request, AdapterState, error) RetryResult {
	return DoNotRetry()
}

type combined struct {
	Adapter
	Retrier
}

// Combine joins an Adapter and a Retrier. A nil half behaves like
// NopInterceptor.
func Combine(a Adapter, r Retrier) Interceptor {
	if a == nil {
		a = NopInterceptor{}
	}
	if r == nil {
		r = NopInterceptor{}
	}
	return combined{Adapter: a, Retrier: r}
}

// Chain runs adapters in order, each receiving the previous result.
func Chain(adapters ...Adapter) Adapter {
	return AdaptFunc(func(ctx context.Context, req *http.Request, state AdapterState) (*http.Request, error) {
		var err error
		for _, a := range adapters {
			if req, err = a.Adapt(ctx, req, state); err != nil {
				return nil, err
			}
		}
		return req, nil
	})
}

// HeaderAdapter sets static headers on every attempt, replacing existing
// values. Keys are written verbatim.
type HeaderAdapter map[string]string

// Adapt implements Adapter.
func (h HeaderAdapter) Adapt(_ context.Context, req *http.Request, _ AdapterState) (*http.Request, error) {
	for k, v := range h {
		req.Header[k] = []string{v}
	}
	return req, nil
}

var idempotentMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions,
}

// BackoffRetrier retries transport failures and 5xx responses with
// exponential backoff. The client's attempt limit still applies.
type BackoffRetrier struct {
	Backoff resilience.Backoff
	// RetryNonIdempotent allows retrying POST, PATCH and CONNECT.
	RetryNonIdempotent bool
	// Retryable overrides the default error filter.
	Retryable func(err error) bool
}

var _ Retrier = (*BackoffRetrier)(nil)

// NewBackoffRetrier creates a retrier with b as its schedule.
func NewBackoffRetrier(b resilience.Backoff) *BackoffRetrier {
	return &BackoffRetrier{Backoff: b}
}

// Retry implements Retrier.
func (r *BackoffRetrier) Retry(_ context.Context, req *http.Request, state AdapterState, err error) RetryResult {
	if !r.RetryNonIdempotent && !slices.Contains(idempotentMethods, req.Method) {
		return DoNotRetry()
	}
	retryable := r.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	if !retryable(err) {
		return DoNotRetry()
	}
	return RetryAfter(r.Backoff.Delay(state.Attempt))
}

// IsRetryable reports whether err is a retryable transport failure or a
// rejected 5xx response.
func IsRetryable(err error) bool {
	if httpclient.IsRetryable(err) {
		return true
	}
	apiErr, ok := apierrors.AsAPIError(err)
	return ok && apiErr.StatusCode() >= 500 && apierrors.IsCode(err, apierrors.StatusCodeNotAllowed)
}
