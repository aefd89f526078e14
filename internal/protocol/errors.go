package protocol

import "errors"

// Protocol errors are returned by frame encoding, ACK parsing and argument
// decoding. They can be checked with errors.Is.
var (
	// ErrPayloadTooLong is returned when a payload exceeds MaxPayload bytes.
	ErrPayloadTooLong = errors.New("matrixgui: payload too long")

	// ErrAckTooShort is returned when an ACK frame is below the minimum length.
	ErrAckTooShort = errors.New("matrixgui: ack frame too short")

	// ErrBadHeader is returned when a frame does not start with 0xAA55.
	ErrBadHeader = errors.New("matrixgui: invalid frame header")

	// ErrVersionMismatch is returned when a frame carries an unknown protocol version.
	ErrVersionMismatch = errors.New("matrixgui: protocol version mismatch")

	// ErrLengthMismatch is returned when the declared payload length exceeds the frame.
	ErrLengthMismatch = errors.New("matrixgui: frame length mismatch")

	// ErrChecksumMismatch is returned when the frame checksum does not verify.
	ErrChecksumMismatch = errors.New("matrixgui: checksum mismatch")

	// ErrUnknownEffect is returned when an effect code has no catalog entry.
	ErrUnknownEffect = errors.New("matrixgui: unknown effect")
)
