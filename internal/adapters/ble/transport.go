// Package ble implements ports.Transport over tinygo.org/x/bluetooth.
package ble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/EmbeddedEvery/matrix-gui/internal/ports"
	"github.com/EmbeddedEvery/matrix-gui/internal/protocol"
	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

var (
	// ErrDeviceNotFound is returned when no advertisement matched the target.
	ErrDeviceNotFound = errors.New("matrixgui: device not found")

	// ErrServiceNotFound is returned when the device lacks the matrix service.
	ErrServiceNotFound = errors.New("matrixgui: matrix service not found on device")

	// ErrCharacteristicNotFound is returned when the command characteristic is missing.
	ErrCharacteristicNotFound = errors.New("matrixgui: command characteristic not found on device")
)

// Transport implements ports.Transport using the host's default BLE adapter.
type Transport struct {
	adapter *bluetooth.Adapter
	logger  log.Logger

	enableOnce sync.Once
	enableErr  error
}

// New creates a transport over the platform default adapter.
func New(logger log.Logger) *Transport {
	return &Transport{
		adapter: bluetooth.DefaultAdapter,
		logger:  logger,
	}
}

// enable powers the adapter once per process. On Linux this is where a
// missing bluetooth permission (dbus policy, capabilities) surfaces.
func (t *Transport) enable() error {
	t.enableOnce.Do(func() {
		if err := t.adapter.Enable(); err != nil {
			t.enableErr = fmt.Errorf("enable bluetooth adapter: %w", err)
		}
	})
	return t.enableErr
}

// Scan streams advertisements to found until ctx is done.
func (t *Transport) Scan(ctx context.Context, found func(ports.ScanResult)) error {
	if err := t.enable(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- t.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			found(toScanResult(result))
		})
	}()

	select {
	case <-ctx.Done():
		_ = t.adapter.StopScan()
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		return nil
	}
}

// Connect scans for a device matching target, connects and resolves the
// command characteristic of the matrix service.
func (t *Transport) Connect(ctx context.Context, target ports.Target) (ports.ScanResult, ports.DeviceLink, error) {
	if err := t.enable(); err != nil {
		return ports.ScanResult{}, nil, err
	}

	t.logger.Info("scanning for device", log.String("target", target.String()))

	// Matching by scan result covers both name and address targets without
	// constructing a platform-specific bluetooth.Address.
	foundCh := make(chan bluetooth.ScanResult, 1)
	scanDone := make(chan error, 1)
	go func() {
		scanDone <- t.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !target.Matches(toScanResult(result)) {
				return
			}
			select {
			case foundCh <- result:
				_ = adapter.StopScan()
			default:
			}
		})
	}()

	var result bluetooth.ScanResult
	select {
	case result = <-foundCh:
	case err := <-scanDone:
		if err != nil {
			return ports.ScanResult{}, nil, fmt.Errorf("scan: %w", err)
		}
		// Scan ended without a match.
		select {
		case result = <-foundCh:
		default:
			return ports.ScanResult{}, nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, target)
		}
	case <-ctx.Done():
		_ = t.adapter.StopScan()
		<-scanDone
		return ports.ScanResult{}, nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, target)
	}

	t.logger.Info("connecting",
		log.String("name", result.LocalName()),
		log.String("address", result.Address.String()),
		log.Int("rssi", int(result.RSSI)),
	)

	device, err := t.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return ports.ScanResult{}, nil, fmt.Errorf("connect: %w", err)
	}

	char, err := t.resolveCommandCharacteristic(device)
	if err != nil {
		_ = device.Disconnect()
		return ports.ScanResult{}, nil, err
	}

	return toScanResult(result), &link{device: device, char: char}, nil
}

// resolveCommandCharacteristic discovers the matrix service and its command
// characteristic on a freshly connected device.
func (t *Transport) resolveCommandCharacteristic(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var zero bluetooth.DeviceCharacteristic

	serviceUUID, err := bluetooth.ParseUUID(protocol.ServiceUUID)
	if err != nil {
		return zero, fmt.Errorf("parse service uuid: %w", err)
	}
	charUUID, err := bluetooth.ParseUUID(protocol.CommandCharUUID)
	if err != nil {
		return zero, fmt.Errorf("parse characteristic uuid: %w", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		return zero, fmt.Errorf("discover services: %w", err)
	}
	if len(services) == 0 {
		return zero, ErrServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{charUUID})
	if err != nil {
		return zero, fmt.Errorf("discover characteristics: %w", err)
	}
	if len(chars) == 0 {
		return zero, ErrCharacteristicNotFound
	}

	return chars[0], nil
}

func toScanResult(r bluetooth.ScanResult) ports.ScanResult {
	return ports.ScanResult{
		Name:    r.LocalName(),
		Address: r.Address.String(),
		RSSI:    r.RSSI,
	}
}

// link is one open connection to the command characteristic.
type link struct {
	device bluetooth.Device
	char   bluetooth.DeviceCharacteristic
}

// Write sends one frame via write-without-response, the mode the matrix
// firmware expects.
func (l *link) Write(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := l.char.WriteWithoutResponse(frame); err != nil {
		return fmt.Errorf("write characteristic: %w", err)
	}
	return nil
}

// Subscribe enables ACK notifications on the command characteristic.
func (l *link) Subscribe(handler ports.NotifyHandler) error {
	err := l.char.EnableNotifications(func(buf []byte) {
		// The stack reuses buf; hand the handler its own copy.
		data := make([]byte, len(buf))
		copy(data, buf)
		handler(data)
	})
	if err != nil {
		return fmt.Errorf("enable notifications: %w", err)
	}
	return nil
}

// Close disconnects from the device.
func (l *link) Close() error {
	return l.device.Disconnect()
}
