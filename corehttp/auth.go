package corehttp

// AuthType identifies an authorization scheme.
type AuthType int

const (
	AuthBasic AuthType = iota
	AuthBearer
	AuthDigest
	AuthAWS
)

// String returns the scheme prefix written in the Authorization header.
func (t AuthType) String() string {
	switch t {
	case AuthBasic:
		return "Basic"
	case AuthBearer:
		return "Bearer"
	case AuthDigest:
		return "Digest"
	case AuthAWS:
		return "AWS4-HMAC-SHA256"
	default:
		return ""
	}
}

// Authorization is a pre-computed credential rendered into the
// Authorization header as "<scheme> <token>".
type Authorization struct {
	Type  AuthType
	Token string
}

// BasicAuth returns a Basic authorization carrying an already encoded token.
func BasicAuth(token string) *Authorization {
	return &Authorization{Type: AuthBasic, Token: token}
}

// BearerAuth returns a Bearer authorization.
func BearerAuth(token string) *Authorization {
	return &Authorization{Type: AuthBearer, Token: token}
}

// DigestAuth returns a Digest authorization.
func DigestAuth(token string) *Authorization {
	return &Authorization{Type: AuthDigest, Token: token}
}

// AWSAuth returns an AWS SigV4 authorization carrying the signature
// parameters as token.
func AWSAuth(token string) *Authorization {
	return &Authorization{Type: AuthAWS, Token: token}
}

// Value renders the header value.
func (a Authorization) Value() string {
	return a.Type.String() + " " + a.Token
}
