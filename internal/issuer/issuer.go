// Package issuer mints signed JWTs from stored signing keys and token
// profiles.
package issuer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jwtkit/jwtkit/internal/keyutil"
	"github.com/jwtkit/jwtkit/internal/models"
)

// reservedClaims may not be set by profiles or token requests. They are
// always derived from the issuer configuration, the profile TTL and the
// request subject.
var reservedClaims = map[string]bool{
	"iss": true,
	"sub": true,
	"aud": true,
	"exp": true,
	"nbf": true,
	"iat": true,
	"jti": true,
}

// IsReservedClaim reports whether name is a registered claim managed by
// the issuer itself.
func IsReservedClaim(name string) bool {
	return reservedClaims[name]
}

// IssuedToken is the result of minting a token.
type IssuedToken struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	KeyID     string    `json:"key_id"`
	TokenID   string    `json:"jti"`
}

// Issuer mints tokens on behalf of a configured "iss" identity.
type Issuer struct {
	issuer string
	now    func() time.Time
}

// New creates an Issuer that stamps the given issuer identity into
// every token.
func New(issuer string) *Issuer {
	return &Issuer{issuer: issuer, now: time.Now}
}

// Issue mints a token signed with key, applying the profile's TTL,
// audiences and static claims. Extra claims from the request are merged
// on top of the profile claims, so request-specific values win.
// Reserved claims are rejected from both sources.
func (i *Issuer) Issue(key *models.Key, profile *models.Profile, subject string, extra map[string]any) (*IssuedToken, error) {
	method := jwt.GetSigningMethod(string(key.Algorithm))
	if method == nil {
		return nil, fmt.Errorf("unsupported signing algorithm %q", key.Algorithm)
	}

	priv, err := keyutil.ParsePrivateKeyPEM(key.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("loading private key %q: %w", key.Name, err)
	}

	tokenID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generating token ID: %w", err)
	}

	now := i.now()
	expiresAt := now.Add(profile.TTL())

	claims := jwt.MapClaims{
		"iss": i.issuer,
		"sub": subject,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": expiresAt.Unix(),
		"jti": tokenID,
	}

	switch len(profile.Audiences) {
	case 0:
		// no audience restriction
	case 1:
		claims["aud"] = profile.Audiences[0]
	default:
		claims["aud"] = profile.Audiences
	}

	for name, value := range profile.Claims {
		if IsReservedClaim(name) {
			return nil, fmt.Errorf("profile claim %q is reserved", name)
		}
		claims[name] = value
	}
	for name, value := range extra {
		if IsReservedClaim(name) {
			return nil, fmt.Errorf("claim %q is reserved", name)
		}
		claims[name] = value
	}

	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = key.KeyID

	signed, err := token.SignedString(priv)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &IssuedToken{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		KeyID:     key.KeyID,
		TokenID:   tokenID,
	}, nil
}
