// Package jwk builds RFC 7517 JSON Web Key documents for the public
// halves of signing keys. Publishing keys lets consumers verify
// signatures; nothing in this service does.
package jwk

import (
	"crypto/rsa"
	"math/big"

	"github.com/jwtkit/jwtkit/internal/base64url"
)

// JWK is a single JSON Web Key. Only the RSA public members consumers
// need for signature verification are populated.
type JWK struct {
	KeyType   string `json:"kty"`
	Use       string `json:"use"`
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid"`
	Modulus   string `json:"n"`
	Exponent  string `json:"e"`
}

// Set is a JWKS document.
type Set struct {
	Keys []JWK `json:"keys"`
}

// NewSet returns a Set that serialises with an empty keys array rather
// than null when no keys exist.
func NewSet(keys ...JWK) Set {
	if keys == nil {
		keys = []JWK{}
	}
	return Set{Keys: keys}
}

// FromRSAPublicKey converts an RSA public key into its JWK form with
// base64url (unpadded) integer encoding.
func FromRSAPublicKey(kid, alg string, pub *rsa.PublicKey) JWK {
	return JWK{
		KeyType:   "RSA",
		Use:       "sig",
		Algorithm: alg,
		KeyID:     kid,
		Modulus:   base64url.Encode(pub.N.Bytes()),
		Exponent:  base64url.Encode(big.NewInt(int64(pub.E)).Bytes()),
	}
}
