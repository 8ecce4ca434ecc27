package httpclient

import (
	"time"

	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/security"
	"github.com/kbukum/apikit/validation"
)

const (
	defaultRequestTimeout  = 60 * time.Second
	defaultResourceTimeout = 300 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
	defaultMaxIdleConns    = 100
	defaultMaxIdlePerHost  = 10
)

// Config configures an Adapter.
type Config struct {
	// Name identifies the transport in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`

	// RequestTimeout bounds the wait for response headers. Defaults to 60s.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout" validate:"gte=0"`

	// ResourceTimeout bounds a whole Send exchange. Defaults to 300s.
	ResourceTimeout time.Duration `yaml:"resource_timeout" mapstructure:"resource_timeout" validate:"gte=0"`

	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout" validate:"gte=0"`

	// DisableHTTP2 keeps the transport on HTTP/1.1.
	DisableHTTP2 bool `yaml:"disable_http2" mapstructure:"disable_http2"`
	// HTTP2ReadIdleTimeout enables HTTP/2 health-check pings after this
	// much idle time on a connection. Zero disables pings.
	HTTP2ReadIdleTimeout time.Duration `yaml:"http2_read_idle_timeout" mapstructure:"http2_read_idle_timeout" validate:"gte=0"`

	// UserAgent is sent when the request has none. Defaults to
	// version.UserAgent().
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are set on every request that does not already carry them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Breaker, RateLimit and Bulkhead are disabled when nil.
	Breaker   *resilience.BreakerConfig  `yaml:"breaker" mapstructure:"breaker"`
	RateLimit *resilience.LimiterConfig  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Bulkhead  *resilience.BulkheadConfig `yaml:"bulkhead" mapstructure:"bulkhead"`
}

// DefaultConfig returns the configuration NewDefault uses.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills in zero-value fields. Negative values are kept so
// Validate can reject them.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.ResourceTimeout == 0 {
		c.ResourceTimeout = defaultResourceTimeout
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.MaxIdleConnsPerHost == 0 {
		c.MaxIdleConnsPerHost = defaultMaxIdlePerHost
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = defaultIdleConnTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.TLS.Validate()
}
