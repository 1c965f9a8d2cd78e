package base64url

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// toStd translates the base64url alphabet (RFC 4648 section 5) to the
// standard base64 alphabet.
var toStd = strings.NewReplacer("-", "+", "_", "/")

// DecodeError reports input that could not be decoded as base64url.
// Input holds the original string as the caller supplied it, before
// padding and alphabet translation.
type DecodeError struct {
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid base64url data %q: %v", e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode converts a base64url string, with '=' padding optionally omitted,
// into raw bytes. It restores the padding, translates '-' and '_' to the
// standard alphabet and decodes with padding required. The bytes carry no
// guarantee of being valid text or JSON.
func Decode(s string) ([]byte, error) {
	padded := s + strings.Repeat("=", (4-len(s)%4)%4)
	b, err := base64.StdEncoding.DecodeString(toStd.Replace(padded))
	if err != nil {
		return nil, &DecodeError{Input: s, Err: err}
	}
	return b, nil
}

// Encode returns the base64url encoding of b with padding stripped, the
// form JWT segments use.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
