// Package metric defines the Prometheus instrumentation for the
// service. Counters are registered on the default registry and exposed
// through the health server's /metrics endpoint.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokensIssued counts minted tokens per profile.
	TokensIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jwtkit_tokens_issued_total",
		Help: "Tokens minted, by profile.",
	}, []string{"profile"})

	// TokenInspections counts inspect requests by outcome (ok, malformed,
	// bad_segment).
	TokenInspections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jwtkit_token_inspections_total",
		Help: "Token inspection requests, by outcome.",
	}, []string{"outcome"})

	// KeyRotations counts rotations per signing key.
	KeyRotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jwtkit_key_rotations_total",
		Help: "Signing key rotations, by key name.",
	}, []string{"key"})

	// HTTPRequests counts API requests by status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jwtkit_http_requests_total",
		Help: "HTTP requests served, by status code.",
	}, []string{"code"})
)
