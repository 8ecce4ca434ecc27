package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/apikit/validation"
)

const (
	defaultEndpoint       = "localhost:4318"
	defaultEnvironment    = "development"
	defaultMetricInterval = 15 * time.Second
)

// Config configures OTLP tracing and metrics export.
type Config struct {
	// Enabled turns exporting on. When false the global no-op providers stay
	// in place and instrumentation costs nothing.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`

	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	// Insecure allows plain HTTP export (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// MetricInterval is the metric export interval.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval" validate:"gte=0"`
}

// DefaultConfig returns development defaults for serviceName. Exporting is
// disabled until Enabled is set.
func DefaultConfig(serviceName string) Config {
	c := Config{ServiceName: serviceName, Insecure: true, SampleRate: 1.0}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills in zero-value fields. SampleRate is left alone since
// zero is a meaningful rate.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.Environment == "" {
		c.Environment = defaultEnvironment
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = defaultMetricInterval
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("observability config: %w", err)
	}
	return nil
}
