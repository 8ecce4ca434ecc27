package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/apikit/component"
)

// Component owns the tracer and meter providers for a process.
type Component struct {
	config Config
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the telemetry component. Providers are built in
// Start when cfg.Enabled is set.
func NewComponent(cfg Config) *Component {
	cfg.ApplyDefaults()
	return &Component{config: cfg}
}

// Name returns the component name.
func (c *Component) Name() string { return "observability" }

// Start installs the global tracer and meter providers.
func (c *Component) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}
	if err := c.config.Validate(); err != nil {
		return err
	}
	tp, err := InitTracer(ctx, &c.config)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	mp, err := InitMeter(ctx, &c.config)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("observability: %w", err)
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down both providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
		c.tp = nil
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
		c.mp = nil
	}
	return errors.Join(errs...)
}

// Health reports degraded while exporting is disabled.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case !c.config.Enabled:
		h.Status = component.StatusDegraded
		h.Message = "exporting disabled"
	case c.tp == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe returns a one-line summary.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.config.Enabled {
		details = fmt.Sprintf("endpoint=%s sample_rate=%.2f", c.config.Endpoint, c.config.SampleRate)
	}
	return component.Description{Name: c.Name(), Type: "telemetry", Details: details}
}
