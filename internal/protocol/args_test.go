package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"single byte", "01", []byte{0x01}, false},
		{"multi byte", "0a10ff", []byte{0x0A, 0x10, 0xFF}, false},
		{"uppercase", "AB", []byte{0xAB}, false},
		{"odd length", "010", nil, true},
		{"non hex", "zz", nil, true},
		{"embedded space", "01 02", nil, true},
		{"max length", strings.Repeat("ab", MaxPayload), bytes.Repeat([]byte{0xAB}, MaxPayload), false},
		{"over max length", strings.Repeat("ab", MaxPayload+1), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePayload(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodePayload(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && !bytes.Equal(got, tt.want) {
				t.Errorf("DecodePayload(%q) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodePayload_TooLongError(t *testing.T) {
	_, err := DecodePayload(strings.Repeat("00", MaxPayload+1))
	if !errors.Is(err, ErrPayloadTooLong) {
		t.Errorf("error = %v, want ErrPayloadTooLong", err)
	}
}

func TestParseByte(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    byte
		wantErr bool
	}{
		{"hex prefixed", "0x10", 0x10, false},
		{"hex upper", "0xFF", 0xFF, false},
		{"decimal", "16", 16, false},
		{"zero", "0", 0, false},
		{"max", "255", 255, false},
		{"out of range decimal", "256", 0, true},
		{"out of range hex", "0x100", 0, true},
		{"negative", "-1", 0, true},
		{"garbage", "zz", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseByte(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseByte(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseByte(%q) = %#x, want %#x", tt.in, got, tt.want)
			}
		})
	}
}
