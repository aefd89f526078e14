package protocol

import (
	"errors"
	"testing"
)

// ackBytes builds a wire ACK through the shared envelope encoder.
func ackBytes(t *testing.T, event, subevent, seq byte, payload []byte) []byte {
	t.Helper()
	raw, err := Frame{Event: event, SubEvent: subevent, Sequence: seq, Payload: payload}.Encode()
	if err != nil {
		t.Fatalf("encode ack fixture: %v", err)
	}
	return raw
}

func TestParseAck(t *testing.T) {
	raw := ackBytes(t, 0x10, 0x01, 3, []byte{0x00, 0x10, 0x01})

	ack, err := ParseAck(raw)
	if err != nil {
		t.Fatalf("ParseAck() error = %v", err)
	}

	if ack.Event != 0x10 || ack.SubEvent != 0x01 || ack.Sequence != 3 {
		t.Errorf("envelope = %#x/%#x/%d, want 0x10/0x01/3", ack.Event, ack.SubEvent, ack.Sequence)
	}
	if status, ok := ack.Status(); !ok || status != 0 {
		t.Errorf("Status() = %d,%v, want 0,true", status, ok)
	}
	if !ack.OK() {
		t.Error("OK() = false, want true")
	}
	if ref, ok := ack.RefEvent(); !ok || ref != 0x10 {
		t.Errorf("RefEvent() = %#x,%v, want 0x10,true", ref, ok)
	}
	if ref, ok := ack.RefSubEvent(); !ok || ref != 0x01 {
		t.Errorf("RefSubEvent() = %#x,%v, want 0x01,true", ref, ok)
	}
}

func TestParseAck_StatusOnly(t *testing.T) {
	raw := ackBytes(t, 0x11, 0x00, 1, []byte{0x02})

	ack, err := ParseAck(raw)
	if err != nil {
		t.Fatalf("ParseAck() error = %v", err)
	}
	if ack.OK() {
		t.Error("OK() = true for non-zero status")
	}
	if _, ok := ack.RefEvent(); ok {
		t.Error("RefEvent() present for single-byte payload")
	}
}

func TestParseAck_TrailingBytesTolerated(t *testing.T) {
	raw := ackBytes(t, 0x10, 0x01, 1, []byte{0x00, 0x10})
	raw = append(raw, 0xDE, 0xAD)

	if _, err := ParseAck(raw); err != nil {
		t.Errorf("ParseAck() with trailing bytes error = %v, want nil", err)
	}
}

func TestParseAck_Invalid(t *testing.T) {
	valid := ackBytes(t, 0x10, 0x01, 1, []byte{0x00, 0x10})

	corrupt := func(mutate func(b []byte)) []byte {
		b := append([]byte(nil), valid...)
		mutate(b)
		return b
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"too short", valid[:8], ErrAckTooShort},
		{"bad header", corrupt(func(b []byte) { b[0] = 0xBB }), ErrBadHeader},
		{"bad version", corrupt(func(b []byte) { b[2] = 0x02 }), ErrVersionMismatch},
		{"declared length beyond frame", corrupt(func(b []byte) { b[6] = 0x20 }), ErrLengthMismatch},
		{"flipped payload bit", corrupt(func(b []byte) { b[7] ^= 0x01 }), ErrChecksumMismatch},
		{"flipped checksum", corrupt(func(b []byte) { b[len(b)-1] ^= 0xFF }), ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAck(tt.data); !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseAck() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
