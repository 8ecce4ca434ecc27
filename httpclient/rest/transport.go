package rest

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/version"
)

// Transport sends requests through resty clients.
type Transport struct {
	config httpclient.Config
	send   *resty.Client
	stream *resty.Client
}

var _ httpclient.Transport = (*Transport)(nil)

// New creates a resty-backed transport. Breaker, RateLimit and Bulkhead in
// cfg are not applied here; use httpclient.Adapter for those.
func New(cfg httpclient.Config) (*Transport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rt, err := httpclient.NewHTTPTransport(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithRoundTripper(cfg, rt), nil
}

// NewWithRoundTripper creates a transport over an existing round tripper.
func NewWithRoundTripper(cfg httpclient.Config, rt http.RoundTripper) *Transport {
	cfg.ApplyDefaults()
	newClient := func(hc *http.Client) *resty.Client {
		return resty.NewWithClient(hc).SetRetryCount(0)
	}
	return &Transport{
		config: cfg,
		send:   newClient(&http.Client{Transport: rt, Timeout: cfg.ResourceTimeout}),
		stream: newClient(&http.Client{Transport: rt}),
	}
}

// Send implements httpclient.Transport.
func (t *Transport) Send(ctx context.Context, req *http.Request) (*httpclient.Response, error) {
	r, err := t.request(ctx, t.send, req)
	if err != nil {
		return nil, err
	}
	resp, err := r.Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, httpclient.Classify(ctx, err)
	}
	return &httpclient.Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		MimeType:   httpclient.MediaType(resp.Header().Get("Content-Type")),
		Body:       resp.Body(),
	}, nil
}

// Stream implements httpclient.Transport.
func (t *Transport) Stream(ctx context.Context, req *http.Request) (*httpclient.StreamResponse, error) {
	r, err := t.request(ctx, t.stream, req)
	if err != nil {
		return nil, err
	}
	resp, err := r.SetDoNotParseResponse(true).Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, httpclient.Classify(ctx, err)
	}
	return &httpclient.StreamResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		MimeType:   httpclient.MediaType(resp.Header().Get("Content-Type")),
		Body:       resp.RawBody(),
	}, nil
}

// request copies req onto a resty request. Header keys are kept verbatim.
func (t *Transport) request(ctx context.Context, c *resty.Client, req *http.Request) (*resty.Request, error) {
	r := c.R().SetContext(ctx)
	for k, v := range req.Header {
		r.Header[k] = append([]string(nil), v...)
	}
	for k, v := range t.config.Headers {
		if !httpclient.HasHeader(r.Header, k) {
			r.Header.Set(k, v)
		}
	}
	httpclient.CanonicalizeHeader(r.Header, "User-Agent")
	if !httpclient.HasHeader(r.Header, "User-Agent") {
		ua := t.config.UserAgent
		if ua == "" {
			ua = version.UserAgent()
		}
		r.Header.Set("User-Agent", ua)
	}

	if req.Body != nil && req.Body != http.NoBody {
		body, err := readBody(req)
		if err != nil {
			return nil, httpclient.NewConnectionError(err)
		}
		r.SetBody(body)
	}
	return r, nil
}

// readBody reads the request body without consuming the caller's copy
// when GetBody is available.
func readBody(req *http.Request) ([]byte, error) {
	src := req.Body
	if req.GetBody != nil {
		b, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		src = b
	}
	defer func() { _ = src.Close() }()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Client exposes the resty client used by Send for hooks and middleware.
func (t *Transport) Client() *resty.Client { return t.send }
