package endpoint

import "github.com/kbukum/apikit/corehttp"

// Endpoint is a declarative description of one HTTP call.
type Endpoint struct {
	Scheme corehttp.Scheme `json:"scheme" validate:"required,oneof=http https"`
	// Host is "host" or "host:port".
	Host string `json:"host" validate:"urlhost"`
	// Path must be empty or start with "/".
	Path string `json:"path" validate:"omitempty,startswith=/"`
	// Method defaults to GET when empty.
	Method corehttp.Method `json:"method" validate:"omitempty,oneof=GET POST PUT PATCH DELETE HEAD CONNECT"`

	Authorization *corehttp.Authorization       `json:"-" validate:"-"`
	Headers       map[corehttp.HeaderKey]string `json:"-" validate:"-"`
	Query         []QueryItem                   `json:"-" validate:"-"`

	// Body is serialized with the request encoder.
	Body map[string]any `json:"-" validate:"-"`
	// Multipart takes precedence over Body.
	Multipart *Multipart `json:"-" validate:"-"`

	// MockFile names a fixture for FixtureTransport. Never read by the
	// materializer.
	MockFile string `json:"-" validate:"-"`
}

// Provider supplies an Endpoint. APIs are commonly modelled as a type with
// one value per call that implements Provider.
type Provider interface {
	Endpoint() Endpoint
}

// Endpoint implements Provider.
func (e Endpoint) Endpoint() Endpoint { return e }

// QueryItem is one query pair. A nil Value renders the name alone.
type QueryItem struct {
	Name  string
	Value *string
}

// Query returns a name=value item.
func Query(name, value string) QueryItem {
	return QueryItem{Name: name, Value: &value}
}

// Flag returns an item rendered without "=".
func Flag(name string) QueryItem {
	return QueryItem{Name: name}
}
