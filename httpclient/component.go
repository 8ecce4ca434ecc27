package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/apikit/component"
	"github.com/kbukum/apikit/resilience"
)

// Component wraps an Adapter with lifecycle management so a process can
// register its transport next to its other resources.
type Component struct {
	config  Config
	opts    []Option
	adapter *Adapter
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a transport component. The adapter is built in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string { return c.config.Name }

// Start builds the adapter.
func (c *Component) Start(_ context.Context) error {
	a, err := New(c.config, c.opts...)
	if err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	c.adapter = a
	return nil
}

// Stop releases idle connections.
func (c *Component) Stop(ctx context.Context) error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.Close(ctx)
}

// Health reports unhealthy before Start and degraded while the breaker
// rejects requests.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.adapter == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.adapter.BreakerState() != resilience.StateClosed:
		h.Status = component.StatusDegraded
		h.Message = "circuit breaker " + c.adapter.BreakerState().String()
	}
	return h
}

// Describe returns a one-line summary.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("request_timeout=%s resource_timeout=%s http2=%t",
		c.config.RequestTimeout, c.config.ResourceTimeout, !c.config.DisableHTTP2)
	return component.Description{Name: c.Name(), Type: "http-transport", Details: details}
}

// Transport returns the adapter. Valid after Start.
func (c *Component) Transport() *Adapter { return c.adapter }
