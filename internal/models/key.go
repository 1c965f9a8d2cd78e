// Signing key model definitions and methods

package models

import (
	"fmt"
	"time"
)

type Algorithm string

const (
	AlgorithmRS256 Algorithm = "RS256"
	AlgorithmRS384 Algorithm = "RS384"
	AlgorithmRS512 Algorithm = "RS512"
)

// Algorithms lists the supported signing algorithms.
var Algorithms = []string{string(AlgorithmRS256), string(AlgorithmRS384), string(AlgorithmRS512)}

// DefaultKeySize is the RSA modulus size used when a request does not
// specify one.
const DefaultKeySize = 2048

// KeySizes lists the accepted RSA modulus sizes in bits.
var KeySizes = []int{2048, 3072, 4096}

// Key is a named RSA signing key. PrivateKeyPEM is excluded from JSON
// serialisation so key material can never leak through an API response.
// RotatedAt is nil until the first rotation.
type Key struct {
	Name          string     `json:"name"`
	KeyID         string     `json:"key_id"`
	Algorithm     Algorithm  `json:"algorithm"`
	PrivateKeyPEM string     `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	RotatedAt     *time.Time `json:"rotated_at,omitempty"`
	Version       int        `json:"version"`
}

// NextKeyID returns the key ID for the given key version. IDs embed the
// version so rotated keys stay distinguishable in JWKS documents and
// token headers.
func NextKeyID(name string, version int) string {
	return fmt.Sprintf("%s-v%d", name, version)
}
