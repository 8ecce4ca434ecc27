package apiclient

import (
	"github.com/kbukum/apikit/codec"
	"github.com/kbukum/apikit/corehttp"
)

// RequestOptions control how a request is built.
type RequestOptions struct {
	// Encoder serializes the endpoint JSON body. Defaults to codec.JSON.
	Encoder codec.Encoder
	// Accept is sent as the Accept header when non-empty.
	Accept corehttp.MimeType
}

// DefaultRequestOptions returns JSON encoding with Accept application/json.
func DefaultRequestOptions() RequestOptions {
	return RequestOptions{Encoder: codec.JSON, Accept: corehttp.MimeJSON}
}

// ResponseOptions control how a response is validated and decoded.
type ResponseOptions struct {
	// Decoder deserializes the body. Defaults to codec.JSON.
	Decoder codec.Decoder
	// StatusCodes is the accepted status range. Nil skips the check.
	StatusCodes *corehttp.StatusRange
	// MimeTypes is the accepted media types. Nil skips the check and an
	// empty non-nil list rejects every response.
	MimeTypes []corehttp.MimeType
}

// DefaultResponseOptions accepts 2xx application/json responses decoded
// with codec.JSON.
func DefaultResponseOptions() ResponseOptions {
	success := corehttp.SuccessRange
	return ResponseOptions{
		Decoder:     codec.JSON,
		StatusCodes: &success,
		MimeTypes:   []corehttp.MimeType{corehttp.MimeJSON},
	}
}

type callOptions struct {
	request  RequestOptions
	response ResponseOptions
}

func newCallOptions(opts []CallOption) callOptions {
	o := callOptions{
		request:  DefaultRequestOptions(),
		response: DefaultResponseOptions(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CallOption customizes a single call.
type CallOption func(*callOptions)

// WithRequestOptions replaces the request options.
func WithRequestOptions(ro RequestOptions) CallOption {
	return func(o *callOptions) { o.request = ro }
}

// WithResponseOptions replaces the response options.
func WithResponseOptions(ro ResponseOptions) CallOption {
	return func(o *callOptions) { o.response = ro }
}

// WithEncoder sets the body encoder.
func WithEncoder(enc codec.Encoder) CallOption {
	return func(o *callOptions) { o.request.Encoder = enc }
}

// WithAccept sets the Accept header. An empty value sends none.
func WithAccept(m corehttp.MimeType) CallOption {
	return func(o *callOptions) { o.request.Accept = m }
}

// WithDecoder sets the response decoder.
func WithDecoder(dec codec.Decoder) CallOption {
	return func(o *callOptions) { o.response.Decoder = dec }
}

// WithStatusCodes sets the accepted status range. Nil skips the check.
func WithStatusCodes(r *corehttp.StatusRange) CallOption {
	return func(o *callOptions) { o.response.StatusCodes = r }
}

// WithMimeTypes sets the accepted media types. Calling it with no
// arguments skips the check; use WithResponseOptions to pass an empty
// non-nil list.
func WithMimeTypes(types ...corehttp.MimeType) CallOption {
	return func(o *callOptions) { o.response.MimeTypes = types }
}
