// Package observability provides OpenTelemetry tracing and metrics for
// apikit clients.
//
// Tracing and metrics export:
//
//	cfg := observability.DefaultConfig("my-service")
//	cfg.Enabled = true
//	tel := observability.NewComponent(cfg)
//	if err := tel.Start(ctx); err != nil { ... }
//	defer tel.Stop(ctx)
//
// Client instruments:
//
//	m, err := observability.NewClientMetrics(observability.Meter(observability.InstrumentationName))
//	m.RequestStarted(ctx, "GET")
//	m.RequestFinished(ctx, "GET", observability.OutcomeOK, elapsed)
package observability
