package ports

import (
	"context"
	"strings"
)

// ScanResult describes one advertisement seen during a scan.
type ScanResult struct {
	// Name is the advertised local name, possibly empty.
	Name string

	// Address is the device address in the platform's string form
	// (a MAC on Linux/Windows, a UUID on macOS).
	Address string

	// RSSI is the received signal strength in dBm.
	RSSI int16
}

// Target selects the device to connect to, by advertised name or by
// address. Exactly one of the fields should be set; when both are set a
// device must match either.
type Target struct {
	Name    string
	Address string
}

// Matches reports whether a scan result satisfies this target.
// Name and address comparison is case-insensitive.
func (t Target) Matches(r ScanResult) bool {
	if t.Name != "" && strings.EqualFold(r.Name, t.Name) {
		return true
	}
	if t.Address != "" && strings.EqualFold(r.Address, t.Address) {
		return true
	}
	return false
}

// String returns the human-readable identity of the target for log output.
func (t Target) String() string {
	switch {
	case t.Name != "" && t.Address != "":
		return t.Name + " (" + t.Address + ")"
	case t.Name != "":
		return t.Name
	default:
		return t.Address
	}
}

// NotifyHandler receives raw notification frames from the device.
// The slice is owned by the handler and safe to retain.
type NotifyHandler func(data []byte)

// DeviceLink is one open connection to the matrix command characteristic.
type DeviceLink interface {
	// Write sends one assembled frame to the command characteristic.
	Write(ctx context.Context, frame []byte) error

	// Subscribe starts delivering ACK notifications to handler.
	// At most one subscription per link.
	Subscribe(handler NotifyHandler) error

	// Close tears down the connection. Safe to call once.
	Close() error
}

// Transport discovers devices and opens connections. Implementations are
// expected to honor context cancellation on both operations and to perform
// no retries; each call maps to a single BLE attempt.
type Transport interface {
	// Scan streams advertisements to found until ctx is done.
	// Returns ctx.Err() on cancellation.
	Scan(ctx context.Context, found func(ScanResult)) error

	// Connect scans for a device matching target, connects to it and
	// resolves the command characteristic. The returned ScanResult
	// identifies the device that was actually connected.
	Connect(ctx context.Context, target Target) (ScanResult, DeviceLink, error)
}
