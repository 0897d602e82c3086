package contract

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeBase64URL encodes raw bytes as base64url without padding, the wire
// form for every binary field crossing the contract boundary.
func EncodeBase64URL(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeBase64URL decodes a base64url string. Trailing padding is tolerated
// on input; any character outside [A-Za-z0-9_-] is an error. Error messages
// never echo the offending value.
func DecodeBase64URL(s string) ([]byte, error) {
	trimmed := strings.TrimRight(s, "=")
	for i := 0; i < len(trimmed); i++ {
		if !isBase64URLByte(trimmed[i]) {
			return nil, fmt.Errorf("invalid base64url character at position %d", i)
		}
	}
	raw, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid base64url: %w", err)
	}
	return raw, nil
}

func isBase64URLByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z',
		c >= 'a' && c <= 'z',
		c >= '0' && c <= '9',
		c == '-', c == '_':
		return true
	}
	return false
}
