package apiclient

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/observability"
)

// DefaultMaxAttempts bounds the attempts of one call, retries included.
const DefaultMaxAttempts = 3

// Client runs endpoints through the request pipeline. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	transport   httpclient.Transport
	interceptor Interceptor
	validator   Validator
	log         *logger.Logger
	maxAttempts int

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	metrics        *observability.ClientMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the diagnostic logger. logger.Nop() silences the client.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithInterceptor sets the adapt/retry interceptor. Defaults to
// NopInterceptor.
func WithInterceptor(i Interceptor) Option {
	return func(c *Client) {
		if i != nil {
			c.interceptor = i
		}
	}
}

// WithValidator replaces the response validator.
func WithValidator(v Validator) Option {
	return func(c *Client) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithMaxAttempts bounds attempts per call. Values below 1 mean 1.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = max(n, 1) }
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) { c.meterProvider = mp }
}

// New creates a client sending through t.
func New(t httpclient.Transport, opts ...Option) (*Client, error) {
	if t == nil {
		return nil, fmt.Errorf("apiclient: transport is required")
	}
	c := &Client{
		transport:   t,
		interceptor: NopInterceptor{},
		validator:   DefaultValidator{},
		log:         logger.GetGlobalLogger(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("apiclient")

	if c.tracerProvider == nil {
		c.tracerProvider = otel.GetTracerProvider()
	}
	if c.meterProvider == nil {
		c.meterProvider = otel.GetMeterProvider()
	}
	c.tracer = c.tracerProvider.Tracer(observability.InstrumentationName)

	m, err := observability.NewClientMetrics(c.meterProvider.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("apiclient: %w", err)
	}
	c.metrics = m
	return c, nil
}

// Transport returns the transport the client sends through.
func (c *Client) Transport() httpclient.Transport { return c.transport }

// MaxAttempts returns the attempt bound.
func (c *Client) MaxAttempts() int { return c.maxAttempts }
