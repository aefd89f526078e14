package app

import (
	"sync"
	"testing"

	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

// recordingListener tracks state change events for testing.
type recordingListener struct {
	mu     sync.Mutex
	events []stateChange
}

type stateChange struct {
	previous State
	current  State
	reason   string
}

func (r *recordingListener) listen(previous, current State, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, stateChange{previous, current, reason})
}

func (r *recordingListener) Events() []stateChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]stateChange{}, r.events...)
}

func TestNewLifecycle(t *testing.T) {
	l := NewLifecycle(log.NewNoopLogger(), nil)

	if l.State() != StateDisconnected {
		t.Errorf("initial state = %v, want StateDisconnected", l.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateDisconnected, "disconnected"},
		{StateConnecting, "connecting"},
		{StateConnected, "connected"},
		{StateDisconnecting, "disconnecting"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_TransitionTo_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"disconnected to connecting", StateDisconnected, StateConnecting},
		{"connecting to connected", StateConnecting, StateConnected},
		{"connecting to disconnected", StateConnecting, StateDisconnected},
		{"connecting to disconnecting", StateConnecting, StateDisconnecting},
		{"connected to disconnecting", StateConnected, StateDisconnecting},
		{"connected to disconnected", StateConnected, StateDisconnected},
		{"disconnecting to disconnected", StateDisconnecting, StateDisconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(log.NewNoopLogger(), nil)
			l.state = tt.from

			if err := l.TransitionTo(tt.to, "test"); err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if l.State() != tt.to {
				t.Errorf("state = %v after transition, want %v", l.State(), tt.to)
			}
		})
	}
}

func TestLifecycle_TransitionTo_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr error
	}{
		{"disconnected to connected", StateDisconnected, StateConnected, ErrNotConnected},
		{"disconnected to disconnecting", StateDisconnected, StateDisconnecting, ErrNotConnected},
		{"connecting to connecting", StateConnecting, StateConnecting, ErrAlreadyConnected},
		{"connected to connecting", StateConnected, StateConnecting, ErrAlreadyConnected},
		{"connected to connected", StateConnected, StateConnected, ErrAlreadyConnected},
		{"disconnecting to connecting", StateDisconnecting, StateConnecting, ErrAlreadyConnected},
		{"disconnecting to connected", StateDisconnecting, StateConnected, ErrAlreadyConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(log.NewNoopLogger(), nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")
			if err != tt.wantErr {
				t.Errorf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}
			// State should not change on invalid transition.
			if l.State() != tt.from {
				t.Errorf("state changed to %v on invalid transition, want %v", l.State(), tt.from)
			}
		})
	}
}

func TestLifecycle_TransitionTo_NotifiesListener(t *testing.T) {
	rec := &recordingListener{}
	l := NewLifecycle(log.NewNoopLogger(), rec.listen)

	_ = l.TransitionTo(StateConnecting, "connect test")
	_ = l.TransitionTo(StateConnected, "connected test")

	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].previous != StateDisconnected || events[0].current != StateConnecting {
		t.Errorf("event 0: got %v->%v, want Disconnected->Connecting", events[0].previous, events[0].current)
	}
	if events[1].previous != StateConnecting || events[1].current != StateConnected {
		t.Errorf("event 1: got %v->%v, want Connecting->Connected", events[1].previous, events[1].current)
	}
}

func TestLifecycle_CanConnect(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateDisconnected, true},
		{StateConnecting, false},
		{StateConnected, false},
		{StateDisconnecting, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(log.NewNoopLogger(), nil)
			l.state = tt.state

			if got := l.CanConnect(); got != tt.want {
				t.Errorf("CanConnect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifecycle_CanDisconnect(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateDisconnected, false},
		{StateConnecting, true},
		{StateConnected, true},
		{StateDisconnecting, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(log.NewNoopLogger(), nil)
			l.state = tt.state

			if got := l.CanDisconnect(); got != tt.want {
				t.Errorf("CanDisconnect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifecycle_Concurrency(t *testing.T) {
	l := NewLifecycle(log.NewNoopLogger(), nil)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.State()
				_ = l.CanConnect()
				_ = l.CanDisconnect()
			}
		}()
	}

	// Concurrent transitions; some fail, which is expected.
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.TransitionTo(StateConnecting, "test")
			_ = l.TransitionTo(StateConnected, "test")
		}()
	}

	wg.Wait()
}
