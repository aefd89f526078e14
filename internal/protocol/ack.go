package protocol

// minAckLen is the shortest valid ACK: envelope + one payload byte + checksum.
const minAckLen = 9

// Ack is a parsed acknowledgement notification. The payload layout is
// [status, refEvent, refSubEvent], each field optional from index 1 on.
type Ack struct {
	Event    byte
	SubEvent byte
	Sequence byte
	Payload  []byte
}

// Status returns the status byte and whether it was present.
// Status zero means the command succeeded.
func (a Ack) Status() (byte, bool) {
	if len(a.Payload) == 0 {
		return 0, false
	}
	return a.Payload[0], true
}

// RefEvent returns the event code the ACK refers to, if present.
func (a Ack) RefEvent() (byte, bool) {
	if len(a.Payload) < 2 {
		return 0, false
	}
	return a.Payload[1], true
}

// RefSubEvent returns the subevent code the ACK refers to, if present.
func (a Ack) RefSubEvent() (byte, bool) {
	if len(a.Payload) < 3 {
		return 0, false
	}
	return a.Payload[2], true
}

// OK reports whether the ACK carries a success status.
func (a Ack) OK() bool {
	s, present := a.Status()
	return present && s == 0
}

// ParseAck validates and decodes an ACK notification. Bytes after the
// checksum are tolerated; some stacks pad notification buffers.
func ParseAck(data []byte) (Ack, error) {
	if len(data) < minAckLen {
		return Ack{}, ErrAckTooShort
	}
	if int(data[0])<<8|int(data[1]) != FrameHeader {
		return Ack{}, ErrBadHeader
	}
	if data[2] != Version {
		return Ack{}, ErrVersionMismatch
	}

	payloadLen := int(data[6])
	checksumAt := envelopeLen + payloadLen
	if checksumAt >= len(data) {
		return Ack{}, ErrLengthMismatch
	}
	if Checksum(data[:checksumAt]) != data[checksumAt] {
		return Ack{}, ErrChecksumMismatch
	}

	payload := make([]byte, payloadLen)
	copy(payload, data[envelopeLen:checksumAt])

	return Ack{
		Event:    data[3],
		SubEvent: data[4],
		Sequence: data[5],
		Payload:  payload,
	}, nil
}
