package errors

// Known enumerates the canonical failures of the request pipeline.
type Known int

const (
	// Unknown wraps any failure outside the taxonomy.
	Unknown Known = iota
	// DecodingData indicates the response body could not be decoded.
	DecodingData
	// EncodingBody indicates the request body could not be encoded.
	EncodingBody
	// Forbidden indicates an HTTP 403 response.
	Forbidden
	// InvalidResponse indicates a missing or non-HTTP response, or a
	// response without a MIME type when one is required.
	InvalidResponse
	// Unauthorized indicates an HTTP 401 response.
	Unauthorized
	// URLComponents indicates the endpoint could not form a valid URL.
	URLComponents
	// StatusCodeNotAllowed indicates a status outside the accepted range.
	StatusCodeNotAllowed
	// MimeTypeNotValid indicates a MIME type outside the accepted list.
	MimeTypeNotValid
	// ResponseContentDataUnavailable indicates an empty response body.
	ResponseContentDataUnavailable
)

type knownEntry struct {
	name    string
	code    string
	message string
}

var catalog = map[Known]knownEntry{
	Unknown:                        {"apikit.errors.unknown", "ERROR-0", "Unknown API error"},
	DecodingData:                   {"apikit.errors.decodingData", "ERROR-1", "Decoding response data error"},
	EncodingBody:                   {"apikit.errors.encodingBody", "ERROR-2", "Encoding http body error"},
	Forbidden:                      {"apikit.errors.forbidden", "ERROR-403", "Expired token error"},
	InvalidResponse:                {"apikit.errors.invalidResponse", "ERROR-4", "Invalid HTTP response error"},
	Unauthorized:                   {"apikit.errors.unauthorized", "ERROR-401", "Unauthorized error"},
	URLComponents:                  {"apikit.errors.urlComponents", "ERROR-5", "Composing URL with components error"},
	StatusCodeNotAllowed:           {"apikit.errors.statusCodeNotAllowed", "ERROR-6", "Response status code is not in allowed range"},
	MimeTypeNotValid:               {"apikit.errors.mimeTypeNotValid", "ERROR-7", "Response mime type is not in expected list"},
	ResponseContentDataUnavailable: {"apikit.errors.responseContentDataUnavailable", "ERROR-8", "Response content data is not available"},
}

func (k Known) entry() knownEntry {
	if e, ok := catalog[k]; ok {
		return e
	}
	return catalog[Unknown]
}

// Code returns the stable wire code, e.g. "ERROR-6".
func (k Known) Code() string { return k.entry().code }

// Message returns the canonical human readable message.
func (k Known) Message() string { return k.entry().message }

// Name returns the dotted identifier used for log and metric labels.
func (k Known) Name() string { return k.entry().name }

// String returns the dotted identifier.
func (k Known) String() string { return k.Name() }

// Lookup returns the catalog entry whose code matches, if any.
func Lookup(code string) (Known, bool) {
	for k, e := range catalog {
		if e.code == code {
			return k, true
		}
	}
	return Unknown, false
}
