// Package component defines lifecycle interfaces for the long-lived pieces
// an apikit process owns: transports, telemetry exporters.
//
// A Registry starts components in registration order and stops them in
// reverse, which is what cmd/apiprobe uses to bring up observability
// before the transport and tear them down after.
package component
