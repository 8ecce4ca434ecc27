// Package security builds client TLS settings for apikit transports.
//
// TLSConfig is plain configuration data (YAML/env friendly); Build turns it
// into a *tls.Config for httpclient.Adapter and rest.Transport.
//
//	cfg := security.TLSConfig{CAFile: "/etc/ssl/internal-ca.pem", MinVersion: "1.3"}
//	tlsConfig, err := cfg.Build()
package security
