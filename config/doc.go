// Package config loads service configuration from a YAML file, a .env file
// and the environment.
//
// Files are resolved per service name (./cmd/<name>/config.yml,
// ./config/config.yml, ./config.yml and the matching .env locations).
// Environment variables override file values: with prefix APIPROBE,
// APIPROBE_TRANSPORT_REQUEST_TIMEOUT=5s sets transport.request_timeout.
//
// # Usage
//
//	cfg, err := config.Load[config.ClientConfig]("apiprobe", config.WithEnvPrefix("APIPROBE"))
package config
