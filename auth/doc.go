// Package auth provides request adapters that attach credentials.
//
// JWTAdapter signs a fresh HMAC token for each attempt:
//
//	signer, err := auth.NewJWTAdapter(auth.Config{Secret: secret, Issuer: "billing"})
//	client, err := apiclient.New(transport, apiclient.WithInterceptor(apiclient.Combine(signer, nil)))
package auth
