package config

import (
	"fmt"

	"github.com/kbukum/apikit/apiclient"
	"github.com/kbukum/apikit/auth"
	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/observability"
	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/validation"
	"github.com/kbukum/apikit/version"
)

// Config is satisfied by any struct embedding ServiceConfig that also
// defines ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *ServiceConfig
	ApplyDefaults()
	Validate() error
}

// ClientConfig configures a process that calls HTTP APIs through apikit.
type ClientConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Transport     httpclient.Config    `yaml:"transport" mapstructure:"transport"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// Auth enables JWT request signing when set.
	Auth *auth.Config `yaml:"auth" mapstructure:"auth"`
	// Retry enables BackoffRetrier when set.
	Retry *resilience.Backoff `yaml:"retry" mapstructure:"retry"`

	// MaxAttempts bounds attempts per call (default 3).
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

var _ Config = (*ClientConfig)(nil)

// ApplyDefaults fills unset fields.
func (c *ClientConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	c.Transport.ApplyDefaults()

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = version.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()

	if c.Auth != nil {
		c.Auth.ApplyDefaults()
	}
	if c.Retry != nil {
		// Merge cannot fail for two values of the same struct type.
		_ = Merge(c.Retry, resilience.DefaultBackoff())
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = apiclient.DefaultMaxAttempts
	}
}

// Validate checks every section.
func (c *ClientConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("config.transport: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	if c.Auth != nil {
		if err := c.Auth.Validate(); err != nil {
			return fmt.Errorf("config.auth: %w", err)
		}
	}
	if c.Retry != nil {
		if err := validation.Validate(c.Retry); err != nil {
			return fmt.Errorf("config.retry: %w", err)
		}
	}
	return nil
}

// ClientOptions translates the configuration into apiclient options. The
// caller supplies the transport.
func (c *ClientConfig) ClientOptions() ([]apiclient.Option, error) {
	opts := []apiclient.Option{apiclient.WithMaxAttempts(c.MaxAttempts)}

	var adapter apiclient.Adapter
	if c.Auth != nil {
		signer, err := auth.NewJWTAdapter(*c.Auth)
		if err != nil {
			return nil, err
		}
		adapter = signer
	}
	var retrier apiclient.Retrier
	if c.Retry != nil {
		retrier = apiclient.NewBackoffRetrier(*c.Retry)
	}
	if adapter != nil || retrier != nil {
		opts = append(opts, apiclient.WithInterceptor(apiclient.Combine(adapter, retrier)))
	}
	return opts, nil
}

// Load reads configuration for serviceName into a new T, then applies
// defaults and validates it.
func Load[T any, PT interface {
	*T
	Config
}](serviceName string, opts ...LoaderOption) (*T, error) {
	cfg := new(T)
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	pt := PT(cfg)
	if pt.GetServiceConfig().Name == "" {
		pt.GetServiceConfig().Name = serviceName
	}
	pt.ApplyDefaults()
	if err := pt.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
