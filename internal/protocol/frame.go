package protocol

import (
	"encoding/binary"
	"time"
)

// Envelope constants shared by commands and ACKs.
const (
	// FrameHeader is the two-byte magic at the start of every frame (big-endian).
	FrameHeader = 0xAA55

	// Version is the protocol version carried in byte 2.
	Version = 0x01

	// MaxPayload is the maximum payload length in bytes.
	MaxPayload = 32

	// envelopeLen is the fixed part of a frame: header(2) + version + event +
	// subevent + seq + len. The payload and checksum follow.
	envelopeLen = 7
)

// GATT identifiers of the matrix command service.
const (
	ServiceUUID     = "0000ff00-0000-1000-8000-00805f9b34fb"
	CommandCharUUID = "0000ff01-0000-1000-8000-00805f9b34fb"
)

// DefaultDeviceName is the name the matrix advertises over BLE.
const DefaultDeviceName = "HOSHI-MATRIX"

// Event codes understood by the matrix firmware.
const (
	// EventSetEffect selects an effect; the subevent carries the effect code.
	EventSetEffect byte = 0x10

	// EventTimeSync carries the host clock as a little-endian uint32 of unix seconds.
	EventTimeSync byte = 0x11

	// SubEventClear (under EventSetEffect) blanks the matrix.
	SubEventClear byte = 0xFF

	// SubEventTimeSync is the only subevent of EventTimeSync.
	SubEventTimeSync byte = 0x00
)

// Frame is a single outbound command. It is constructed per user action,
// encoded, written once and discarded.
type Frame struct {
	Event    byte
	SubEvent byte
	Sequence byte
	Payload  []byte
}

// Encode assembles the wire representation of the frame, including the
// trailing XOR checksum.
func (f Frame) Encode() ([]byte, error) {
	if len(f.Payload) > MaxPayload {
		return nil, ErrPayloadTooLong
	}

	buf := make([]byte, 0, envelopeLen+len(f.Payload)+1)
	buf = append(buf, byte(FrameHeader>>8), byte(FrameHeader&0xFF))
	buf = append(buf, Version, f.Event, f.SubEvent, f.Sequence, byte(len(f.Payload)))
	buf = append(buf, f.Payload...)
	buf = append(buf, Checksum(buf))
	return buf, nil
}

// Checksum returns the XOR of all bytes in data.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// TimeSyncFrame builds the frame that synchronizes the device clock to ts.
func TimeSyncFrame(ts time.Time, sequence byte) Frame {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(ts.Unix()))
	return Frame{
		Event:    EventTimeSync,
		SubEvent: SubEventTimeSync,
		Sequence: sequence,
		Payload:  payload,
	}
}
