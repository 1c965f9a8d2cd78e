package jwk

import (
	"crypto/rsa"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
)

func TestFromRSAPublicKey(t *testing.T) {
	pub := &rsa.PublicKey{N: big.NewInt(0xDEADBEEF), E: 65537}

	got := FromRSAPublicKey("api-v1", "RS256", pub)

	if got.KeyType != "RSA" {
		t.Errorf("KeyType = %q, want RSA", got.KeyType)
	}
	if got.Use != "sig" {
		t.Errorf("Use = %q, want sig", got.Use)
	}
	if got.Algorithm != "RS256" {
		t.Errorf("Algorithm = %q, want RS256", got.Algorithm)
	}
	if got.KeyID != "api-v1" {
		t.Errorf("KeyID = %q, want api-v1", got.KeyID)
	}
	if got.Modulus != "3q2-7w" {
		t.Errorf("Modulus = %q, want 3q2-7w", got.Modulus)
	}
	// 65537 is 0x010001, which is AQAB in base64url.
	if got.Exponent != "AQAB" {
		t.Errorf("Exponent = %q, want AQAB", got.Exponent)
	}
}

func TestSet_JSONShape(t *testing.T) {
	pub := &rsa.PublicKey{N: big.NewInt(0xDEADBEEF), E: 65537}
	set := NewSet(FromRSAPublicKey("api-v1", "RS256", pub))

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal set: %v", err)
	}

	for _, member := range []string{`"keys"`, `"kty"`, `"use"`, `"alg"`, `"kid"`, `"n"`, `"e"`} {
		if !strings.Contains(string(data), member) {
			t.Errorf("serialised set missing %s member: %s", member, data)
		}
	}
	if strings.Contains(string(data), "padding") || strings.Contains(string(data), "=") {
		t.Errorf("JWK integers must be unpadded base64url: %s", data)
	}
}

func TestNewSet_Empty(t *testing.T) {
	data, err := json.Marshal(NewSet())
	if err != nil {
		t.Fatalf("marshal empty set: %v", err)
	}
	if string(data) != `{"keys":[]}` {
		t.Errorf("empty set = %s, want {\"keys\":[]}", data)
	}
}
