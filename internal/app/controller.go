package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EmbeddedEvery/matrix-gui/internal/ports"
	"github.com/EmbeddedEvery/matrix-gui/internal/protocol"
	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

// DefaultAckWait is how long a send waits for an ACK notification.
const DefaultAckWait = 2 * time.Second

// ackBuffer bounds pending ACK notifications; the device sends at most one
// per command, anything beyond that is noise.
const ackBuffer = 8

// Option configures a Controller.
type Option func(*Controller)

// WithAckWait sets the per-send ACK wait duration.
func WithAckWait(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.ackWait = d
		}
	}
}

// WithClock overrides the time source used for timesync frames.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithStateListener registers a callback for connection state changes.
func WithStateListener(l StateListener) Option {
	return func(c *Controller) { c.stateListener = l }
}

// WithAckListener registers a callback invoked for every ACK notification,
// including those no send is waiting for.
func WithAckListener(f func(protocol.Ack)) Option {
	return func(c *Controller) { c.ackListener = f }
}

// Controller holds the session state for one BLE connection to the matrix:
// the open link, the outbound sequence counter and incoming ACKs. It is
// safe for concurrent use.
type Controller struct {
	transport     ports.Transport
	logger        log.Logger
	ackWait       time.Duration
	now           func() time.Time
	stateListener StateListener
	ackListener   func(protocol.Ack)

	lc *Lifecycle

	mu     sync.Mutex
	link   ports.DeviceLink
	device ports.ScanResult
	seq    byte
	acks   chan protocol.Ack
}

// New creates a controller over the given transport.
func New(transport ports.Transport, logger log.Logger, opts ...Option) *Controller {
	c := &Controller{
		transport: transport,
		logger:    logger,
		ackWait:   DefaultAckWait,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lc = NewLifecycle(logger, c.stateListener)
	return c
}

// State returns the current connection state.
func (c *Controller) State() State {
	return c.lc.State()
}

// Device returns the connected device, if any.
func (c *Controller) Device() (ports.ScanResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device, c.link != nil
}

// Connect scans for the target device and opens the command characteristic.
// Exactly one connection attempt is made; failures are returned, not retried.
func (c *Controller) Connect(ctx context.Context, target ports.Target) error {
	if err := c.lc.TransitionTo(StateConnecting, "connect "+target.String()); err != nil {
		return err
	}

	device, link, err := c.transport.Connect(ctx, target)
	if err != nil {
		_ = c.lc.TransitionTo(StateDisconnected, "connect failed")
		return fmt.Errorf("connect %s: %w", target, err)
	}

	if err := link.Subscribe(c.handleNotify); err != nil {
		_ = link.Close()
		_ = c.lc.TransitionTo(StateDisconnected, "subscribe failed")
		return fmt.Errorf("subscribe to acks: %w", err)
	}

	c.mu.Lock()
	c.link = link
	c.device = device
	c.acks = make(chan protocol.Ack, ackBuffer)
	c.mu.Unlock()

	return c.lc.TransitionTo(StateConnected, "connected to "+device.Address)
}

// Disconnect closes the current connection.
func (c *Controller) Disconnect() error {
	if !c.lc.CanDisconnect() {
		return ErrNotConnected
	}
	_ = c.lc.TransitionTo(StateDisconnecting, "disconnect requested")

	c.mu.Lock()
	link := c.link
	c.link = nil
	c.device = ports.ScanResult{}
	c.acks = nil
	c.mu.Unlock()

	var err error
	if link != nil {
		err = link.Close()
	}
	_ = c.lc.TransitionTo(StateDisconnected, "disconnected")
	return err
}

// Send builds a frame with the next sequence number and writes it.
// Returns the ACK if one arrives within the ACK wait window, nil otherwise.
func (c *Controller) Send(ctx context.Context, event, subevent byte, payload []byte) (*protocol.Ack, error) {
	return c.SendFrame(ctx, protocol.Frame{
		Event:    event,
		SubEvent: subevent,
		Sequence: c.nextSequence(),
		Payload:  payload,
	})
}

// SendFrame writes one fully specified frame. Exactly one characteristic
// write is performed per call.
func (c *Controller) SendFrame(ctx context.Context, f protocol.Frame) (*protocol.Ack, error) {
	c.mu.Lock()
	link, acks := c.link, c.acks
	c.mu.Unlock()

	if link == nil || c.lc.State() != StateConnected {
		return nil, ErrNotConnected
	}

	raw, err := f.Encode()
	if err != nil {
		return nil, err
	}

	// Drop stale notifications so the wait below only sees responses to
	// this frame.
drain:
	for {
		select {
		case <-acks:
		default:
			break drain
		}
	}

	c.logger.Debug("writing frame",
		log.Hex("event", f.Event),
		log.Hex("subevent", f.SubEvent),
		log.Int("seq", int(f.Sequence)),
		log.Int("bytes", len(raw)),
	)

	if err := link.Write(ctx, raw); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	timer := time.NewTimer(c.ackWait)
	defer timer.Stop()

	select {
	case ack := <-acks:
		return &ack, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		c.logger.Warn("no ack received", log.Duration("waited", c.ackWait))
		return nil, nil
	}
}

// SyncTime sends a timesync frame carrying the current host time.
func (c *Controller) SyncTime(ctx context.Context) (*protocol.Ack, error) {
	return c.SendFrame(ctx, protocol.TimeSyncFrame(c.now(), c.nextSequence()))
}

// ApplyEffect sends a set-effect command for the given effect code.
func (c *Controller) ApplyEffect(ctx context.Context, code byte, payload []byte) (*protocol.Ack, error) {
	return c.Send(ctx, protocol.EventSetEffect, code, payload)
}

// Clear blanks the matrix.
func (c *Controller) Clear(ctx context.Context) (*protocol.Ack, error) {
	return c.Send(ctx, protocol.EventSetEffect, protocol.SubEventClear, nil)
}

// nextSequence advances the session sequence counter, wrapping at 0xFF.
func (c *Controller) nextSequence() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// handleNotify parses incoming notifications and routes valid ACKs to the
// pending send and the ACK listener.
func (c *Controller) handleNotify(data []byte) {
	ack, err := protocol.ParseAck(data)
	if err != nil {
		c.logger.Warn("discarding malformed notification",
			log.Int("bytes", len(data)),
			log.Err(err),
		)
		return
	}

	if c.ackListener != nil {
		c.ackListener(ack)
	}

	c.mu.Lock()
	acks := c.acks
	c.mu.Unlock()
	if acks == nil {
		return
	}
	select {
	case acks <- ack:
	default:
		c.logger.Warn("dropping ack, buffer full")
	}
}
