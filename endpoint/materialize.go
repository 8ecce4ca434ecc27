package endpoint

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kbukum/apikit/codec"
	"github.com/kbukum/apikit/corehttp"
	apierrors "github.com/kbukum/apikit/errors"
	"github.com/kbukum/apikit/validation"
)

// Materializer converts endpoints into requests.
type Materializer struct {
	// Encoder serializes Endpoint.Body. Defaults to codec.JSON.
	Encoder codec.Encoder
}

// Materialize converts ep into a request bound to ctx.
func Materialize(ctx context.Context, ep Endpoint, enc codec.Encoder) (*http.Request, error) {
	return Materializer{Encoder: enc}.Materialize(ctx, ep)
}

// Materialize converts p's endpoint into a request bound to ctx.
func (m Materializer) Materialize(ctx context.Context, p Provider) (*http.Request, error) {
	ep := p.Endpoint()

	target, err := BuildURL(ep)
	if err != nil {
		return nil, err
	}

	method := string(ep.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	var contentLength string
	switch {
	case ep.Multipart != nil:
		data := ep.Multipart.Body()
		body = bytes.NewReader(data)
		contentLength = strconv.Itoa(len(data))
	case ep.Body != nil:
		enc := m.Encoder
		if enc == nil {
			enc = codec.JSON
		}
		data, err := enc.Encode(ep.Body)
		if err != nil {
			return nil, apierrors.New(apierrors.EncodingBody, apierrors.WithCause(err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, apierrors.New(apierrors.URLComponents, apierrors.WithCause(err))
	}

	// Keys are stored verbatim so they reach the wire exactly as declared.
	for k, v := range ep.Headers {
		req.Header[string(k)] = []string{v}
	}
	if ep.Authorization != nil {
		req.Header[corehttp.HeaderAuthorization.String()] = []string{ep.Authorization.Value()}
	}
	if ep.Multipart != nil {
		req.Header[corehttp.HeaderContentType.String()] = []string{ep.Multipart.ContentType()}
		req.Header[corehttp.HeaderContentLength.String()] = []string{contentLength}
	}

	return req.WithContext(withEndpoint(ctx, ep)), nil
}

// BuildURL validates ep and assembles its URL. Failures are URLComponents
// errors carrying the validation error as cause.
func BuildURL(ep Endpoint) (string, error) {
	if err := validation.Validate(ep); err != nil {
		return "", apierrors.New(apierrors.URLComponents, apierrors.WithCause(err))
	}
	u := url.URL{
		Scheme:   string(ep.Scheme),
		Host:     ep.Host,
		Path:     ep.Path,
		RawQuery: encodeQuery(ep.Query),
	}
	return u.String(), nil
}

// encodeQuery renders items in order. Spaces become %20.
func encodeQuery(items []QueryItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeQuery(it.Name))
		if it.Value != nil {
			b.WriteByte('=')
			b.WriteString(escapeQuery(*it.Value))
		}
	}
	return b.String()
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type endpointKey struct{}

func withEndpoint(ctx context.Context, ep Endpoint) context.Context {
	return context.WithValue(ctx, endpointKey{}, ep)
}

// FromRequest returns the endpoint a request was materialized from.
func FromRequest(req *http.Request) (Endpoint, bool) {
	ep, ok := req.Context().Value(endpointKey{}).(Endpoint)
	return ep, ok
}
