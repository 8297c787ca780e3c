package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidCursor indicates the cursor could not be decoded.
var ErrInvalidCursor = errors.New("invalid cursor format")

// Cursor is an opaque position: the resource type plus the last seen identifier.
type Cursor struct {
	Type  string
	Value string
}

// Encode returns a URL-safe Base64 representation.
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Type + ":" + c.Value))
}

// Accepts reports whether the cursor is empty or was issued for cursorType.
func (c Cursor) Accepts(cursorType string) bool {
	return c.Type == "" || c.Type == cursorType
}

// DecodeCursor parses a cursor produced by Encode. The empty string decodes to the zero Cursor.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	typ, value, ok := strings.Cut(string(b), ":")
	if !ok {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Type: typ, Value: value}, nil
}
