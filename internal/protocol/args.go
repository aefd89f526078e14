package protocol

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// DecodePayload converts a hex string such as "01" or "0a10ff" into bytes.
// An empty string yields an empty payload. Odd-length or non-hex input is
// rejected, as is anything longer than MaxPayload once decoded.
func DecodePayload(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("matrixgui: hex payload must have even length, got %d digits", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("matrixgui: invalid hex payload %q: %w", s, err)
	}
	if len(b) > MaxPayload {
		return nil, ErrPayloadTooLong
	}
	return b, nil
}

// ParseByte parses a single byte value from a flag argument. Both
// 0x-prefixed hex ("0x10") and plain decimal ("16") are accepted.
func ParseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("matrixgui: invalid byte value %q: %w", s, err)
	}
	if v > 0xFF {
		return 0, fmt.Errorf("matrixgui: value %#x out of byte range", v)
	}
	return byte(v), nil
}
