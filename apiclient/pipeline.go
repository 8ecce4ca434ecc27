package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apikit/codec"
	"github.com/kbukum/apikit/corehttp"
	"github.com/kbukum/apikit/endpoint"
	apierrors "github.com/kbukum/apikit/errors"
	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/observability"
	"github.com/kbukum/apikit/resilience"
)

const (
	attrAuthFailure = "apikit.auth_failure"
	maxLoggedBody   = 1024
	redacted        = "[REDACTED]"
)

var errNilRequest = errors.New("adapter returned a nil request")

// sendFunc executes one adapted request.
type sendFunc func(ctx context.Context, req *http.Request) (*httpclient.Response, error)

// finishFunc consumes a validated response. A returned error fails the
// attempt.
type finishFunc func(resp *httpclient.Response) error

// Do runs p through the pipeline and decodes the response body into T.
// Every returned error is an *errors.APIError.
func Do[T any](ctx context.Context, c *Client, p endpoint.Provider, opts ...CallOption) (T, error) {
	return call[T](ctx, c, p, newCallOptions(opts), c.transport.Send)
}

// DoRaw runs p through the pipeline without decoding and returns the
// validated response.
func (c *Client) DoRaw(ctx context.Context, p endpoint.Provider, opts ...CallOption) (*httpclient.Response, error) {
	resp, apiErr := c.execute(ctx, p, newCallOptions(opts), c.transport.Send, nil)
	if apiErr != nil {
		return nil, apiErr
	}
	return resp, nil
}

func call[T any](ctx context.Context, c *Client, p endpoint.Provider, o callOptions, send sendFunc) (T, error) {
	var out T
	_, apiErr := c.execute(ctx, p, o, send, func(resp *httpclient.Response) error {
		v, err := decode[T](o.response.Decoder, resp)
		if err != nil {
			return err
		}
		c.logDecoded(v)
		out = v
		return nil
	})
	if apiErr != nil {
		var zero T
		return zero, apiErr
	}
	return out, nil
}

func decode[T any](dec codec.Decoder, resp *httpclient.Response) (T, error) {
	var zero T
	status := apierrors.WithStatus(resp.StatusCode)
	if len(resp.Body) == 0 {
		return zero, apierrors.New(apierrors.ResponseContentDataUnavailable, status)
	}
	if dec == nil {
		dec = codec.JSON
	}
	v, err := codec.Decode[T](dec, resp.Body)
	if err != nil {
		return zero, apierrors.New(apierrors.DecodingData, status, apierrors.WithCause(err))
	}
	return v, nil
}

// execute wraps run with the client span and metrics.
func (c *Client) execute(ctx context.Context, p endpoint.Provider, o callOptions, send sendFunc, finish finishFunc) (*httpclient.Response, *apierrors.APIError) {
	method := string(p.Endpoint().Method)
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := c.tracer.Start(ctx, observability.SpanClientRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(observability.AttrMethod, method)),
	)
	defer span.End()

	start := time.Now()
	c.metrics.RequestStarted(ctx, method)

	resp, apiErr := c.run(ctx, p, o, send, finish)

	outcome := observability.OutcomeOK
	if apiErr != nil {
		outcome = apiErr.Code()
		span.SetAttributes(attribute.String(observability.AttrErrorCode, apiErr.Code()))
		observability.RecordError(span, apiErr, apiErr.Code())
	}
	c.metrics.RequestFinished(ctx, method, outcome, time.Since(start))
	return resp, apiErr
}

// run materializes once and then loops over attempts until one succeeds
// or the retrier declines.
func (c *Client) run(ctx context.Context, p endpoint.Provider, o callOptions, send sendFunc, finish finishFunc) (*httpclient.Response, *apierrors.APIError) {
	span := trace.SpanFromContext(ctx)

	base, err := endpoint.Materializer{Encoder: o.request.Encoder}.Materialize(ctx, p)
	if err != nil {
		return nil, apierrors.Wrap(err)
	}
	if o.request.Accept != "" {
		base.Header[corehttp.HeaderAccept.String()] = []string{o.request.Accept.String()}
	}

	id := uuid.New()
	span.SetAttributes(
		attribute.String(observability.AttrURL, base.URL.String()),
		attribute.String(observability.AttrRequestID, id.String()),
	)

	for attempt := 1; ; attempt++ {
		state := AdapterState{RequestID: id, Attempt: attempt, Transport: c.transport}

		req, err := cloneRequest(base)
		if err != nil {
			return nil, apierrors.New(apierrors.EncodingBody, apierrors.WithCause(err))
		}

		resp, apiErr := c.attempt(ctx, req, state, o, send, finish)
		if apiErr == nil {
			return resp, nil
		}
		if apierrors.IsAuthFailure(apiErr) {
			c.onAuthFailure(span, req, apiErr)
		}
		if attempt >= c.maxAttempts {
			return nil, apiErr
		}

		decision := c.interceptor.Retry(ctx, req, state, apiErr)
		if !decision.Required() {
			if decision.Err() != nil {
				return nil, apierrors.Wrap(decision.Err())
			}
			return nil, apiErr
		}

		c.metrics.RetryScheduled(ctx, req.Method)
		span.AddEvent("retry", trace.WithAttributes(
			attribute.Int(observability.AttrAttempt, attempt),
			attribute.String(observability.AttrErrorCode, apiErr.Code()),
		))
		c.log.Debug("retrying request", logger.Fields(
			logger.FieldRequestID, id.String(),
			logger.FieldAttempt, attempt,
			logger.FieldErrorCode, apiErr.Code(),
			"delay", decision.Delay().String(),
		))
		if err := resilience.Sleep(ctx, decision.Delay()); err != nil {
			return nil, apierrors.Wrap(httpclient.Classify(ctx, err))
		}
	}
}

// attempt adapts, sends, validates and finishes one request.
func (c *Client) attempt(ctx context.Context, req *http.Request, state AdapterState, o callOptions, send sendFunc, finish finishFunc) (*httpclient.Response, *apierrors.APIError) {
	adapted, err := c.interceptor.Adapt(ctx, req, state)
	if err != nil {
		return nil, apierrors.Wrap(err)
	}
	if adapted == nil {
		return nil, apierrors.New(apierrors.Unknown, apierrors.WithCause(errNilRequest))
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(adapted.Header))

	c.logRequest(adapted, state)

	resp, err := send(adapted.Context(), adapted)
	if err != nil {
		c.log.Debug("request failed", logger.Fields(
			logger.FieldRequestID, state.RequestID.String(),
			logger.FieldAttempt, state.Attempt,
			logger.FieldError, err.Error(),
		))
		return nil, apierrors.Wrap(err)
	}
	if resp == nil {
		return nil, apierrors.Wrap(httpclient.NoResponseError())
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(observability.AttrStatus, resp.StatusCode))
	c.logResponse(resp, state)

	if err := c.validator.ValidateStatus(resp, o.response.StatusCodes); err != nil {
		return nil, apierrors.Wrap(err)
	}
	if err := c.validator.ValidateMimeType(resp, o.response.MimeTypes); err != nil {
		return nil, apierrors.Wrap(err)
	}
	if finish != nil {
		if err := finish(resp); err != nil {
			return nil, apierrors.Wrap(err)
		}
	}
	return resp, nil
}

// onAuthFailure marks and logs a 401/403. Token refresh is left to
// interceptors.
func (c *Client) onAuthFailure(span trace.Span, req *http.Request, apiErr *apierrors.APIError) {
	span.SetAttributes(attribute.Bool(attrAuthFailure, true))
	c.log.Warn("authorization rejected", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL.String(),
		logger.FieldStatus, apiErr.StatusCode(),
		logger.FieldErrorCode, apiErr.Code(),
	))
}

// cloneRequest copies base for one attempt with a fresh body reader.
func cloneRequest(base *http.Request) (*http.Request, error) {
	req := base.Clone(base.Context())
	if base.GetBody != nil {
		body, err := base.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
		req.Body = body
	}
	return req, nil
}

func (c *Client) logRequest(req *http.Request, state AdapterState) {
	if !c.log.DebugEnabled() {
		return
	}
	c.log.Debug("sending request", logger.Fields(
		logger.FieldRequestID, state.RequestID.String(),
		logger.FieldAttempt, state.Attempt,
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL.String(),
		logger.FieldHeaders, redactHeaders(req.Header),
		"body_bytes", req.ContentLength,
	))
}

func (c *Client) logResponse(resp *httpclient.Response, state AdapterState) {
	if !c.log.DebugEnabled() {
		return
	}
	c.log.Debug("response received", logger.Fields(
		logger.FieldRequestID, state.RequestID.String(),
		logger.FieldAttempt, state.Attempt,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldMimeType, resp.MimeType,
		logger.FieldBody, truncate(resp.Body, maxLoggedBody),
	))
}

func (c *Client) logDecoded(v any) {
	if !c.log.DebugEnabled() {
		return
	}
	c.log.Debug("response decoded", logger.Fields(
		"type", fmt.Sprintf("%T", v),
		"value", v,
	))
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if strings.EqualFold(k, corehttp.HeaderAuthorization.String()) ||
			strings.EqualFold(k, corehttp.HeaderProxyAuthorization.String()) ||
			strings.EqualFold(k, corehttp.HeaderCookie.String()) {
			out[k] = redacted
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
