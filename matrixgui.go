// Package matrixgui drives WS2812 LED matrices over BLE.
//
// Example usage:
//
//	logger := log.NewZerologAdapter()
//	ctrl := matrixgui.NewController(matrixgui.NewBLETransport(logger), logger)
//	if err := ctrl.Connect(ctx, matrixgui.Target{Name: matrixgui.DefaultDeviceName}); err != nil {
//	    return err
//	}
//	defer ctrl.Disconnect()
//	ack, err := ctrl.ApplyEffect(ctx, 0x02, []byte{0x08, 0x05})
package matrixgui

import (
	"time"

	"github.com/EmbeddedEvery/matrix-gui/internal/adapters/ble"
	"github.com/EmbeddedEvery/matrix-gui/internal/app"
	"github.com/EmbeddedEvery/matrix-gui/internal/ports"
	"github.com/EmbeddedEvery/matrix-gui/internal/protocol"
	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

// Frame is one outbound protocol frame.
type Frame = protocol.Frame

// Ack is the device's acknowledgement of a frame.
type Ack = protocol.Ack

// Effect describes one firmware effect and its parameter schema.
type Effect = protocol.Effect

// Target selects the device to connect to, by name or by address.
type Target = ports.Target

// Controller manages one BLE connection and frame sequencing.
type Controller = app.Controller

// Option configures a Controller.
type Option = app.Option

// DefaultDeviceName is the name the stock firmware advertises.
const DefaultDeviceName = protocol.DefaultDeviceName

// NewController creates a controller over the given transport.
func NewController(transport ports.Transport, logger log.Logger, opts ...Option) *Controller {
	return app.New(transport, logger, opts...)
}

// NewBLETransport returns the bluetooth transport used by the shipped
// commands.
func NewBLETransport(logger log.Logger) ports.Transport {
	return ble.New(logger)
}

// Effects lists the effect catalog the firmware understands.
func Effects() []Effect {
	return protocol.Effects()
}

// WithAckWait sets how long each send waits for an ACK.
func WithAckWait(d time.Duration) Option {
	return app.WithAckWait(d)
}
