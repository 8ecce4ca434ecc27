package endpoint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/kbukum/apikit/corehttp"
	"github.com/kbukum/apikit/httpclient"
)

// FixtureTransport answers requests from files named by Endpoint.MockFile
// instead of the network. It is meant for tests and offline demos.
type FixtureTransport struct {
	// Files holds the fixtures, e.g. os.DirFS("testdata") or an embed.FS.
	Files fs.FS
	// StatusCode defaults to 200.
	StatusCode int
	// MimeType defaults to application/json.
	MimeType corehttp.MimeType
}

var _ httpclient.Transport = (*FixtureTransport)(nil)

// Send implements httpclient.Transport.
func (f *FixtureTransport) Send(ctx context.Context, req *http.Request) (*httpclient.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, httpclient.Classify(ctx, err)
	}
	ep, ok := FromRequest(req)
	if !ok || ep.MockFile == "" {
		return nil, httpclient.NewConnectionError(fmt.Errorf("no fixture for %s %s", req.Method, req.URL))
	}
	data, err := fs.ReadFile(f.Files, ep.MockFile)
	if err != nil {
		return nil, httpclient.NewConnectionError(fmt.Errorf("read fixture %s: %w", ep.MockFile, err))
	}

	status := f.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	mt := f.MimeType
	if mt == "" {
		mt = corehttp.MimeJSON
	}
	header := http.Header{}
	header.Set(corehttp.HeaderContentType.String(), mt.String())

	return &httpclient.Response{StatusCode: status, Header: header, MimeType: mt.String(), Body: data}, nil
}

// Stream implements httpclient.Transport.
func (f *FixtureTransport) Stream(ctx context.Context, req *http.Request) (*httpclient.StreamResponse, error) {
	resp, err := f.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	return &httpclient.StreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		MimeType:   resp.MimeType,
		Body:       io.NopCloser(bytes.NewReader(resp.Body)),
	}, nil
}
