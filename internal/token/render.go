package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 80)

// Render writes the token as three labeled blocks in fixed order:
// header and payload as 2-space-indented JSON, then the signature as
// its raw base64url text.
func (t *Token) Render(w io.Writer) error {
	header, err := indent(t.Header)
	if err != nil {
		return &SegmentError{Segment: SegmentHeader, Err: err}
	}
	payload, err := indent(t.Payload)
	if err != nil {
		return &SegmentError{Segment: SegmentPayload, Err: err}
	}

	if err := writeBlock(w, "JWT HEADER:", header); err != nil {
		return err
	}
	if err := writeBlock(w, "JWT PAYLOAD:", payload); err != nil {
		return err
	}
	return writeBlock(w, "JWT SIGNATURE (base64url encoded):", []byte(t.Signature))
}

// indent re-indents the decoded segment bytes instead of round-tripping
// them through a map, keeping the source's key order and number
// formatting on display.
func indent(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBlock(w io.Writer, label string, body []byte) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n\n", rule, label, rule, body)
	return err
}
