package httpclient

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	apierrors "github.com/kbukum/apikit/errors"
)

var errNilResponse = errors.New("transport returned no response")

// NoResponseError reports a transport that returned neither a response nor
// an error. It classifies as InvalidResponse.
func NoResponseError() error {
	return apierrors.New(apierrors.InvalidResponse, apierrors.WithCause(errNilResponse))
}

// Transport executes HTTP exchanges.
type Transport interface {
	// Send performs the exchange and reads the body to completion.
	Send(ctx context.Context, req *http.Request) (*Response, error)
	// Stream performs the exchange and returns once headers arrive. The
	// caller owns Body and must Close the response.
	Stream(ctx context.Context, req *http.Request) (*StreamResponse, error)
}

// Response is a completed exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	// MimeType is the Content-Type media type with parameters stripped,
	// empty when the header is missing or unparsable.
	MimeType string
	Body     []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StreamResponse is an exchange whose body has not been read yet.
type StreamResponse struct {
	StatusCode int
	Header     http.Header
	MimeType   string
	Body       io.ReadCloser
}

// Close releases the body.
func (r *StreamResponse) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// ReadAll drains and closes the body, returning a completed Response.
func (r *StreamResponse) ReadAll() (*Response, error) {
	if r == nil {
		return nil, NoResponseError()
	}
	defer func() { _ = r.Close() }()

	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, NewReadError(err)
		}
		body = data
	}
	return &Response{
		StatusCode: r.StatusCode,
		Header:     r.Header,
		MimeType:   r.MimeType,
		Body:       body,
	}, nil
}

// HasHeader reports whether h carries a non-empty value for key under any
// casing. Endpoint headers are stored verbatim, so Header.Get can miss them.
func HasHeader(h http.Header, key string) bool {
	for k, v := range h {
		if strings.EqualFold(k, key) && len(v) > 0 && v[0] != "" {
			return true
		}
	}
	return false
}

// CanonicalizeHeader moves the values of every casing of key onto the
// canonical key. net/http only recognizes headers it manages, such as
// User-Agent, under their canonical form.
func CanonicalizeHeader(h http.Header, key string) {
	canonical := http.CanonicalHeaderKey(key)
	for k, v := range h {
		if k != canonical && strings.EqualFold(k, key) {
			h[canonical] = append(h[canonical], v...)
			delete(h, k)
		}
	}
}

// MediaType extracts the media type from a Content-Type value.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Keep what precedes the parameters so a sloppy header still
		// matches an allowlist.
		mt, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}

// TransportFunc adapts a function to the Send half of Transport. Stream
// calls the function and wraps the buffered body.
type TransportFunc func(ctx context.Context, req *http.Request) (*Response, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, req *http.Request) (*Response, error) {
	return f(ctx, req)
}

// Stream implements Transport.
func (f TransportFunc) Stream(ctx context.Context, req *http.Request) (*StreamResponse, error) {
	resp, err := f(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, NoResponseError()
	}
	return &StreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		MimeType:   resp.MimeType,
		Body:       io.NopCloser(strings.NewReader(string(resp.Body))),
	}, nil
}
