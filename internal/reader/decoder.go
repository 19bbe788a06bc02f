// internal/reader/decoder.go
package reader

import "strings"

// Decoder extracts a clean alphanumeric card identifier from a raw frame.
// Malformed input is never an error; noise decodes to the empty string.
type Decoder struct {
	MinLength int
}

// Decode decodes a raw frame into a card id. The frame is treated as
// text with invalid bytes dropped, trimmed, and rejected when shorter
// than MinLength; control and punctuation characters are then stripped
// and the cleaned id must still reach MinLength.
func (d Decoder) Decode(frame []byte) string {
	if len(frame) == 0 {
		return ""
	}

	text := strings.TrimSpace(string(frame))
	if len(text) < d.MinLength {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}

	clean := b.String()
	if len(clean) < d.MinLength {
		return ""
	}
	return clean
}
