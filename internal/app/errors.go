package app

import "errors"

// Controller errors. These are returned by the public API and can be
// checked with errors.Is.
var (
	// ErrNotConnected is returned when a command is issued without a connection.
	ErrNotConnected = errors.New("matrixgui: not connected")

	// ErrAlreadyConnected is returned when Connect() is called on a live session.
	ErrAlreadyConnected = errors.New("matrixgui: already connected")
)
