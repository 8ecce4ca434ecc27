// Package rest implements httpclient.Transport on top of go-resty.
//
// It is a drop-in alternative to httpclient.Adapter for callers already
// standardized on resty (request logging hooks, middleware). Both share the
// same *http.Transport construction, so timeouts, TLS and HTTP/2 behave the
// same. Resty's own retry support is disabled: retry decisions belong to
// the apikit client's retrier.
//
//	transport, err := rest.New(httpclient.Config{RequestTimeout: 5 * time.Second})
//	client := apiclient.New(transport)
package rest
