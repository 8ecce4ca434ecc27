package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/version"
)

// Adapter is the default Transport: net/http with HTTP/2, TLS and the
// resilience primitives enabled in Config.
type Adapter struct {
	config       Config
	roundTripper http.RoundTripper
	httpClient   *http.Client
	streamClient *http.Client
	log          *logger.Logger

	breaker  *resilience.Breaker
	limiter  *resilience.Limiter
	bulkhead *resilience.Bulkhead
}

var _ Transport = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter's logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l.WithComponent("httpclient")
		}
	}
}

// WithRoundTripper replaces the network round tripper. Tests use it to
// serve responses without a listener.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(a *Adapter) { a.roundTripper = rt }
}

// New creates an adapter from cfg.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := NewHTTPTransport(cfg)
	if err != nil {
		return nil, err
	}
	return build(cfg, base, opts), nil
}

// NewDefault creates an adapter with DefaultConfig.
func NewDefault(opts ...Option) *Adapter {
	cfg := DefaultConfig()
	base, err := NewHTTPTransport(cfg)
	if err != nil {
		// Only TLS or an already configured transport can fail, and the
		// default config has neither.
		base = newBaseTransport(cfg)
	}
	return build(cfg, base, opts)
}

// NewHTTPTransport builds the *http.Transport described by cfg: pool
// limits, header timeout, TLS and HTTP/2. rest.Transport shares it.
func NewHTTPTransport(cfg Config) (*http.Transport, error) {
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	base := newBaseTransport(cfg)
	if tlsCfg != nil {
		base.TLSClientConfig = tlsCfg
	}
	if !cfg.DisableHTTP2 {
		h2, err := http2.ConfigureTransports(base)
		if err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
		h2.ReadIdleTimeout = cfg.HTTP2ReadIdleTimeout
	}
	return base, nil
}

func build(cfg Config, base http.RoundTripper, opts []Option) *Adapter {
	a := &Adapter{
		config: cfg,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.roundTripper == nil {
		a.roundTripper = base
	}

	a.httpClient = &http.Client{Transport: a.roundTripper, Timeout: cfg.ResourceTimeout}
	a.streamClient = &http.Client{Transport: a.roundTripper}

	if cfg.Breaker != nil {
		a.breaker = resilience.NewBreaker(cfg.Name, *cfg.Breaker,
			resilience.OnStateChange(func(name string, from, to resilience.State) {
				a.log.Warn("circuit breaker state changed", logger.Fields(
					"breaker", name, "from", from.String(), "to", to.String()))
			}))
	}
	if cfg.RateLimit != nil {
		a.limiter = resilience.NewLimiter(*cfg.RateLimit)
	}
	if cfg.Bulkhead != nil {
		a.bulkhead = resilience.NewBulkhead(*cfg.Bulkhead)
	}
	return a
}

func newBaseTransport(cfg Config) *http.Transport {
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
	}
}

// Send implements Transport.
func (a *Adapter) Send(ctx context.Context, req *http.Request) (*Response, error) {
	sr, err := a.exchange(ctx, req, a.httpClient)
	if err != nil {
		return nil, err
	}
	return sr.ReadAll()
}

// Stream implements Transport. The bulkhead slot, if any, is held until
// the body is closed.
func (a *Adapter) Stream(ctx context.Context, req *http.Request) (*StreamResponse, error) {
	return a.exchange(ctx, req, a.streamClient)
}

func (a *Adapter) exchange(ctx context.Context, req *http.Request, client *http.Client) (*StreamResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, Classify(ctx, err)
		}
	}

	release := func() {}
	if a.bulkhead != nil {
		r, err := a.bulkhead.Acquire(ctx)
		if err != nil {
			return nil, Classify(ctx, err)
		}
		release = r
	}

	if a.breaker != nil {
		if err := a.breaker.Allow(); err != nil {
			release()
			return nil, Classify(ctx, err)
		}
	}

	req = a.prepare(ctx, req)
	start := time.Now()
	resp, err := client.Do(req)
	if a.breaker != nil {
		a.breaker.Record(err == nil && resp.StatusCode < http.StatusInternalServerError)
	}
	if err != nil {
		release()
		terr := Classify(ctx, err)
		a.log.Debug("exchange failed", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.String(),
			logger.FieldErrorCode, terr.Code.String(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		return nil, terr
	}

	return &StreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		MimeType:   MediaType(resp.Header.Get("Content-Type")),
		Body:       &releasingBody{ReadCloser: resp.Body, release: release},
	}, nil
}

// prepare binds ctx and fills configured default headers on a copy so the
// caller's request is left untouched.
func (a *Adapter) prepare(ctx context.Context, req *http.Request) *http.Request {
	req = req.Clone(ctx)
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	for k, v := range a.config.Headers {
		if !HasHeader(req.Header, k) {
			req.Header.Set(k, v)
		}
	}
	CanonicalizeHeader(req.Header, "User-Agent")
	if !HasHeader(req.Header, "User-Agent") {
		ua := a.config.UserAgent
		if ua == "" {
			ua = version.UserAgent()
		}
		req.Header.Set("User-Agent", ua)
	}
	return req
}

// Name returns the configured transport name.
func (a *Adapter) Name() string { return a.config.Name }

// Config returns the effective configuration.
func (a *Adapter) Config() Config { return a.config }

// BreakerState returns the breaker state, or StateClosed without a breaker.
func (a *Adapter) BreakerState() resilience.State {
	if a.breaker == nil {
		return resilience.StateClosed
	}
	return a.breaker.State()
}

// Close releases idle connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

type releasingBody struct {
	io.ReadCloser
	release func()
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}
