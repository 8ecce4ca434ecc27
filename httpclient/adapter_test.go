package httpclient

import (
	"context"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/security"
	"github.com/kbukum/apikit/version"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newRequest(t *testing.T, method, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return req
}

func TestAdapter_Send_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items" {
			t.Errorf("expected /items, got %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != version.UserAgent() {
			t.Errorf("expected default User-Agent %q, got %q", version.UserAgent(), ua)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = io.WriteString(w, `{"id":1}`)
	}))
	defer srv.Close()

	a := NewDefault()
	resp, err := a.Send(context.Background(), newRequest(t, http.MethodGet, srv.URL+"/items"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.MimeType != "application/json" {
		t.Errorf("expected mime application/json, got %q", resp.MimeType)
	}
	if string(resp.Body) != `{"id":1}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestAdapter_Send_ErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := NewDefault().Send(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if err != nil {
		t.Fatalf("transport must not classify status codes, got %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if resp.MimeType != "" {
		t.Errorf("expected empty mime, got %q", resp.MimeType)
	}
}

func TestAdapter_DefaultHeadersDoNotOverride(t *testing.T) {
	var got http.Header
	a, err := New(Config{
		UserAgent: "custom/1",
		Headers:   map[string]string{"X-Tenant": "default", "X-Env": "test"},
	}, WithRoundTripper(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		got = r.Header.Clone()
		return &http.Response{StatusCode: 204, Header: http.Header{}, Body: http.NoBody, Request: r}, nil
	})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := newRequest(t, http.MethodGet, "https://api.test/")
	req.Header.Set("X-Tenant", "acme")
	if _, err := a.Send(context.Background(), req); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.Get("X-Tenant") != "acme" {
		t.Errorf("expected request header to win, got %q", got.Get("X-Tenant"))
	}
	if got.Get("X-Env") != "test" {
		t.Errorf("expected default header, got %q", got.Get("X-Env"))
	}
	if got.Get("User-Agent") != "custom/1" {
		t.Errorf("expected configured User-Agent, got %q", got.Get("User-Agent"))
	}
	if req.Header.Get("X-Env") != "" {
		t.Error("caller's request must not be mutated")
	}
}

func TestAdapter_RequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a, err := New(Config{RequestTimeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = a.Send(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestAdapter_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := NewDefault().Send(ctx, newRequest(t, http.MethodGet, srv.URL))
	if !hasCode(err, ErrCodeCanceled) {
		t.Errorf("expected canceled error, got %v", err)
	}
}

func TestAdapter_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewDefault().Send(context.Background(), newRequest(t, http.MethodGet, url))
	if !IsConnection(err) {
		t.Errorf("expected connection error, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("connection errors should be retryable")
	}
}

func TestAdapter_BreakerOpensOn5xx(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a, err := New(Config{Breaker: &resilience.BreakerConfig{MaxFailures: 1, Cooldown: time.Minute}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := a.Send(context.Background(), newRequest(t, http.MethodGet, srv.URL)); err != nil {
		t.Fatalf("first send: %v", err)
	}
	_, err = a.Send(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if !IsCircuitOpen(err) {
		t.Errorf("expected circuit open, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
	if a.BreakerState() != resilience.StateOpen {
		t.Errorf("expected open breaker, got %s", a.BreakerState())
	}
}

func TestAdapter_StreamHoldsBulkheadSlot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "hello")
	}))
	defer srv.Close()

	a, err := New(Config{Bulkhead: &resilience.BulkheadConfig{MaxConcurrent: 1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stream, err := a.Stream(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	_, err = a.Send(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if !hasCode(err, ErrCodeBulkheadFull) {
		t.Errorf("expected bulkhead full while stream is open, got %v", err)
	}

	resp, err := stream.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(resp.Body) != "hello" || resp.MimeType != "text/plain" {
		t.Errorf("unexpected stream response %+v", resp)
	}

	if _, err := a.Send(context.Background(), newRequest(t, http.MethodGet, srv.URL)); err != nil {
		t.Errorf("expected slot to be released after close, got %v", err)
	}
}

func TestAdapter_StreamIgnoresResourceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		time.Sleep(100 * time.Millisecond)
		_, _ = io.WriteString(w, "late")
	}))
	defer srv.Close()

	a, err := New(Config{ResourceTimeout: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := a.Send(context.Background(), newRequest(t, http.MethodGet, srv.URL)); !IsTimeout(err) {
		t.Errorf("expected Send to hit the resource timeout, got %v", err)
	}

	stream, err := a.Stream(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	resp, err := stream.ReadAll()
	if err != nil {
		t.Fatalf("stream read: %v", err)
	}
	if string(resp.Body) != "late" {
		t.Errorf("expected 'late', got %q", resp.Body)
	}
}

func TestAdapter_TLSWithHTTP2(t *testing.T) {
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Proto", r.Proto)
		w.WriteHeader(http.StatusNoContent)
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	block := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(caFile, block, 0o600); err != nil {
		t.Fatalf("write CA: %v", err)
	}

	a, err := New(Config{TLS: &security.TLSConfig{CAFile: caFile}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := a.Send(context.Background(), newRequest(t, http.MethodGet, srv.URL))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if proto := resp.Header.Get("X-Proto"); !strings.HasPrefix(proto, "HTTP/2") {
		t.Errorf("expected HTTP/2, got %q", proto)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{TLS: &security.TLSConfig{CertFile: "only-cert.pem"}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	_, err = New(Config{Bulkhead: &resilience.BulkheadConfig{MaxConcurrent: -1}})
	if err == nil {
		t.Fatal("expected validation error for negative bulkhead")
	}
}

func TestAdapter_VerbatimHeadersNotDuplicated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Values("User-Agent"); len(got) != 1 || got[0] != "custom/2" {
			t.Errorf("expected single User-Agent custom/2, got %v", got)
		}
		if got := r.Header.Values("X-Tenant"); len(got) != 1 || got[0] != "acme" {
			t.Errorf("expected single X-Tenant acme, got %v", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a, err := New(Config{Headers: map[string]string{"X-Tenant": "default"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req := newRequest(t, http.MethodGet, srv.URL)
	req.Header["user-agent"] = []string{"custom/2"}
	req.Header["x-tenant"] = []string{"acme"}
	if _, err := a.Send(context.Background(), req); err != nil {
		t.Fatalf("Send: %v", err)
	}
}
