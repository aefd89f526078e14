package protocol

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestFrameEncode(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  []byte
	}{
		{
			name:  "set effect with one payload byte",
			frame: Frame{Event: 0x10, SubEvent: 0x01, Sequence: 1, Payload: []byte{0x01}},
			want:  []byte{0xAA, 0x55, 0x01, 0x10, 0x01, 0x01, 0x01, 0x01, 0xEE},
		},
		{
			name:  "empty payload",
			frame: Frame{Event: 0x10, SubEvent: 0xFF, Sequence: 2},
			want:  []byte{0xAA, 0x55, 0x01, 0x10, 0xFF, 0x02, 0x00, 0x13},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.frame.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestFrameEncode_ChecksumCoversEverything(t *testing.T) {
	f := Frame{Event: 0x10, SubEvent: 0x0A, Sequence: 7, Payload: []byte{10, 180}}
	raw, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := Checksum(raw[:len(raw)-1]); got != raw[len(raw)-1] {
		t.Errorf("checksum byte = %#x, want %#x", raw[len(raw)-1], got)
	}
}

func TestFrameEncode_PayloadTooLong(t *testing.T) {
	f := Frame{Event: 0x10, Payload: make([]byte, MaxPayload+1)}
	if _, err := f.Encode(); !errors.Is(err, ErrPayloadTooLong) {
		t.Errorf("Encode() error = %v, want ErrPayloadTooLong", err)
	}
}

func TestFrameEncode_MaxPayload(t *testing.T) {
	f := Frame{Event: 0x10, Payload: make([]byte, MaxPayload)}
	raw, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(raw) != 2+5+MaxPayload+1 {
		t.Errorf("frame length = %d, want %d", len(raw), 2+5+MaxPayload+1)
	}
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{"empty", nil, 0x00},
		{"single byte", []byte{0xAA}, 0xAA},
		{"self cancelling", []byte{0x55, 0x55}, 0x00},
		{"mixed", []byte{0xAA, 0x55, 0x01}, 0xFE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum(%x) = %#x, want %#x", tt.data, got, tt.want)
			}
		})
	}
}

func TestTimeSyncFrame(t *testing.T) {
	ts := time.Unix(0x01020304, 0)
	f := TimeSyncFrame(ts, 9)

	if f.Event != EventTimeSync || f.SubEvent != SubEventTimeSync {
		t.Errorf("event/subevent = %#x/%#x, want %#x/%#x", f.Event, f.SubEvent, EventTimeSync, SubEventTimeSync)
	}
	if f.Sequence != 9 {
		t.Errorf("sequence = %d, want 9", f.Sequence)
	}
	// Little-endian unix seconds.
	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(f.Payload, want) {
		t.Errorf("payload = %x, want %x", f.Payload, want)
	}
}
