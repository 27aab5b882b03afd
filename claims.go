package conduit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenIssuer is the fixed issuer claim stamped on every session token.
	TokenIssuer = "conduit-v1"
	// TokenAudience is the fixed audience claim; same value as the issuer.
	TokenAudience = "conduit-v1"
	// TokenTTL is the validity window of a session token. expiresAt is
	// always issuedAt + TokenTTL.
	TokenTTL = time.Hour
)

// Claims is the signed payload of a session token. The subject carries the
// username; issuer and audience are fixed constants. The server keeps no
// session state, the token is the whole session.
type Claims struct {
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
