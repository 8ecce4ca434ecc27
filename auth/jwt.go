package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/apikit/apiclient"
	"github.com/kbukum/apikit/corehttp"
)

// JWTAdapter signs a short-lived token for every attempt and sends it as
// a bearer credential, replacing any Authorization header the endpoint set.
type JWTAdapter struct {
	cfg Config
	now func() time.Time
}

var _ apiclient.Adapter = (*JWTAdapter)(nil)

// NewJWTAdapter creates an adapter from cfg.
func NewJWTAdapter(cfg Config) (*JWTAdapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &JWTAdapter{cfg: cfg, now: time.Now}, nil
}

// Adapt implements apiclient.Adapter. The token ID is the call's request
// ID so every attempt of one call carries the same jti.
func (a *JWTAdapter) Adapt(_ context.Context, req *http.Request, state apiclient.AdapterState) (*http.Request, error) {
	token, err := a.Sign(state.RequestID.String())
	if err != nil {
		return nil, err
	}
	req.Header[corehttp.HeaderAuthorization.String()] = []string{corehttp.BearerAuth(token).Value()}
	return req, nil
}

// Sign returns a signed token with id as its jti.
func (a *JWTAdapter) Sign(id string) (string, error) {
	now := a.now()
	claims := gojwt.RegisteredClaims{
		ID:        id,
		Issuer:    a.cfg.Issuer,
		Subject:   a.cfg.Subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(a.cfg.TTL)),
	}
	if len(a.cfg.Audience) > 0 {
		claims.Audience = a.cfg.Audience
	}
	signed, err := gojwt.NewWithClaims(a.cfg.signingMethod(), claims).SignedString([]byte(a.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token signed with the same configuration. Servers and
// tests use it to check what the adapter produced.
func (a *JWTAdapter) Verify(token string) (*gojwt.RegisteredClaims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{a.cfg.signingMethod().Alg()}),
		gojwt.WithTimeFunc(a.now),
	}
	if a.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(a.cfg.Issuer))
	}
	if len(a.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(a.cfg.Audience[0]))
	}

	claims := &gojwt.RegisteredClaims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (interface{}, error) {
		return []byte(a.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("jwt: invalid token")
	}
	return claims, nil
}
