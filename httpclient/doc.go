// Package httpclient is the transport layer of apikit: it executes an
// already-built *http.Request and hands back the raw exchange.
//
// Transports never interpret status codes. A 404 or a 500 is a successful
// exchange here; deciding whether it is acceptable belongs to the client's
// validator. Transport errors are reported as *Error with a Code
// (timeout, connection, circuit open, ...).
//
// Two implementations ship with apikit:
//
//   - Adapter: net/http with HTTP/2 (golang.org/x/net/http2), TLS from
//     security.TLSConfig, and optional breaker, rate limiter and bulkhead
//   - rest.Transport: the same contract over go-resty
//
// # Usage
//
//	transport, err := httpclient.New(httpclient.Config{
//	    RequestTimeout: 10 * time.Second,
//	    Breaker:        &resilience.BreakerConfig{MaxFailures: 5},
//	})
//	resp, err := transport.Send(ctx, req)
//
// Timeouts: RequestTimeout bounds the wait for response headers;
// ResourceTimeout bounds the whole exchange for Send. Stream ignores
// ResourceTimeout and is governed by the request context.
package httpclient
