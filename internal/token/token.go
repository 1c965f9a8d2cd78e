// Package token parses compact JWTs for display. It never verifies
// signatures and never interprets claims; a successful parse says
// nothing about whether a token should be trusted.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jwtkit/jwtkit/internal/base64url"
)

// Segment names used in error reporting.
const (
	SegmentHeader  = "header"
	SegmentPayload = "payload"
)

// ErrMalformed reports input that does not split into the three
// dot-separated segments every compact JWT carries.
var ErrMalformed = errors.New("invalid token format: expected 3 parts separated by dots")

// SegmentError names the segment that failed to decode or parse and
// wraps the underlying cause.
type SegmentError struct {
	Segment string
	Err     error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("decoding %s segment: %v", e.Segment, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// Token is a decoded JWT held for display. Header and Payload are the
// decoded segment bytes, each checked to be a single well-formed JSON
// value, with the source's key order and number literals intact.
// Signature is the raw third segment, left undecoded: without a
// verification key its bytes are meaningless.
type Token struct {
	Header    json.RawMessage
	Payload   json.RawMessage
	Signature string
}

// Parse splits a compact JWT into its segments, decodes the first two
// as base64url and checks they parse as JSON. Surrounding whitespace is
// trimmed first, so piped input with a trailing newline parses the same
// as the bare token. Parsing is fail-fast: the first bad segment wins
// and no partial result is returned.
func Parse(s string) (*Token, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w, got %d", ErrMalformed, len(parts))
	}

	header, err := decodeSegment(SegmentHeader, parts[0])
	if err != nil {
		return nil, err
	}
	payload, err := decodeSegment(SegmentPayload, parts[1])
	if err != nil {
		return nil, err
	}

	return &Token{Header: header, Payload: payload, Signature: parts[2]}, nil
}

func decodeSegment(name, seg string) (json.RawMessage, error) {
	b, err := base64url.Decode(seg)
	if err != nil {
		return nil, &SegmentError{Segment: name, Err: err}
	}

	// json.Unmarshal rejects trailing data, so exactly one JSON value is
	// accepted per segment.
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, &SegmentError{Segment: name, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return json.RawMessage(b), nil
}
