package app

import (
	"sync"

	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

// State represents the connection state of a controller session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// StateListener is called when the connection state changes.
type StateListener func(previous, current State, reason string)

// Lifecycle manages the connection state machine for a controller session.
type Lifecycle struct {
	mu       sync.RWMutex
	state    State
	logger   log.Logger
	listener StateListener
}

// NewLifecycle creates a lifecycle manager in the Disconnected state.
func NewLifecycle(logger log.Logger, listener StateListener) *Lifecycle {
	return &Lifecycle{
		state:    StateDisconnected,
		logger:   logger,
		listener: listener,
	}
}

// State returns the current connection state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Returns an error if the transition is not valid.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	switch oldState {
	case StateDisconnected:
		if newState != StateConnecting {
			l.mu.Unlock()
			return ErrNotConnected
		}
	case StateConnecting:
		// Disconnecting is allowed for an early abort during connect.
		if newState != StateConnected && newState != StateDisconnected && newState != StateDisconnecting {
			l.mu.Unlock()
			return ErrAlreadyConnected
		}
	case StateConnected:
		if newState != StateDisconnecting && newState != StateDisconnected {
			l.mu.Unlock()
			return ErrAlreadyConnected
		}
	case StateDisconnecting:
		if newState != StateDisconnected {
			l.mu.Unlock()
			return ErrAlreadyConnected
		}
	}

	l.state = newState
	l.mu.Unlock()

	// Notify outside of the lock.
	if l.listener != nil {
		l.listener(oldState, newState, reason)
	}

	l.logger.Info("state transition",
		log.String("from", oldState.String()),
		log.String("to", newState.String()),
		log.String("reason", reason),
	)

	return nil
}

// CanConnect returns true if Connect() can be called.
func (l *Lifecycle) CanConnect() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateDisconnected
}

// CanDisconnect returns true if Disconnect() can be called.
func (l *Lifecycle) CanDisconnect() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateConnected || l.state == StateConnecting
}
