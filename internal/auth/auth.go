package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

type contextKey string

const callerKey contextKey = "caller"

// AuthConfig carries API key authentication settings.
type AuthConfig struct {
	// KeyDigests holds SHA-256 hex digests of accepted API keys. Raw
	// keys are never configured, stored or logged.
	KeyDigests []string

	// Disabled turns the check off entirely.
	// This should ONLY be enabled for local development and testing.
	Disabled bool
}

// HashKey returns the SHA-256 hex digest of an API key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Middleware returns HTTP middleware that checks the X-API-Key header
// against the configured digests and places a short caller fingerprint
// (the first 8 hex characters of the digest) into the request context
// for logging.
func Middleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Disabled {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				http.Error(w, `{"error":"missing X-API-Key header"}`, http.StatusUnauthorized)
				return
			}

			digest := HashKey(key)
			if !digestAccepted(digest, cfg.KeyDigests) {
				http.Error(w, `{"error":"invalid API key"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, digest[:8])
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// digestAccepted compares against every configured digest in constant
// time, without early exit.
func digestAccepted(digest string, accepted []string) bool {
	ok := false
	for _, d := range accepted {
		if subtle.ConstantTimeCompare([]byte(digest), []byte(d)) == 1 {
			ok = true
		}
	}
	return ok
}

// CallerFromContext retrieves the caller fingerprint stored by
// Middleware, or the empty string when the request was not
// authenticated.
func CallerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(callerKey).(string); ok {
		return v
	}
	return ""
}
