package gui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/EmbeddedEvery/matrix-gui/internal/ports"
	"github.com/EmbeddedEvery/matrix-gui/internal/protocol"
	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

// Payload types for RPC responses and broadcast events.

type statusPayload struct {
	State    string         `json:"state"`
	Scanning bool           `json:"scanning"`
	Device   *devicePayload `json:"device,omitempty"`
	Defaults configPayload  `json:"defaults"`
}

type devicePayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	RSSI    int16  `json:"rssi"`
}

type configPayload struct {
	DeviceName    string `json:"device_name"`
	DeviceAddress string `json:"device_address,omitempty"`
	ScanTimeout   string `json:"scan_timeout"`
}

type statePayload struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// ackPayload reports the outcome of one command. Received is false when the
// device never answered within the ACK wait window.
type ackPayload struct {
	Received    bool  `json:"received"`
	OK          bool  `json:"ok"`
	Status      *byte `json:"status,omitempty"`
	RefEvent    *byte `json:"ref_event,omitempty"`
	RefSubEvent *byte `json:"ref_subevent,omitempty"`
	Sequence    byte  `json:"sequence,omitempty"`
}

func newAckPayload(ack *protocol.Ack) ackPayload {
	if ack == nil {
		return ackPayload{}
	}
	p := ackPayload{
		Received: true,
		OK:       ack.OK(),
		Sequence: ack.Sequence,
	}
	if status, ok := ack.Status(); ok {
		p.Status = &status
	}
	if ev, ok := ack.RefEvent(); ok {
		p.RefEvent = &ev
	}
	if sub, ok := ack.RefSubEvent(); ok {
		p.RefSubEvent = &sub
	}
	return p
}

func (s *Server) handleStatusGet(_ context.Context, _ json.RawMessage) (any, error) {
	cfg := s.config()
	p := statusPayload{
		State:    s.ctrl.State().String(),
		Scanning: s.scanning(),
		Defaults: configPayload{
			DeviceName:    cfg.DeviceName,
			DeviceAddress: cfg.DeviceAddress,
			ScanTimeout:   cfg.ScanTimeout.String(),
		},
	}
	if dev, ok := s.ctrl.Device(); ok {
		p.Device = &devicePayload{Name: dev.Name, Address: dev.Address, RSSI: dev.RSSI}
	}
	return p, nil
}

func (s *Server) handleEffectsList(_ context.Context, _ json.RawMessage) (any, error) {
	return protocol.Effects(), nil
}

// handleScanStart launches a background scan bounded by the configured scan
// timeout. Discovered devices are broadcast as scan.result events, deduped
// by address.
func (s *Server) handleScanStart(_ context.Context, _ json.RawMessage) (any, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	if s.scanCancel != nil {
		return map[string]bool{"scanning": true}, nil
	}

	cfg := s.config()
	scanCtx, cancel := context.WithTimeout(context.Background(), cfg.ScanTimeout)
	s.scanCancel = cancel

	go func() {
		defer func() {
			cancel()
			s.scanMu.Lock()
			s.scanCancel = nil
			s.scanMu.Unlock()
			s.Broadcast("scan.stopped", struct{}{})
		}()

		var (
			mu   sync.Mutex
			seen = map[string]bool{}
		)
		err := s.transport.Scan(scanCtx, func(res ports.ScanResult) {
			key := strings.ToLower(res.Address)
			mu.Lock()
			dup := seen[key]
			seen[key] = true
			mu.Unlock()
			if dup {
				return
			}
			s.Broadcast("scan.result", devicePayload{
				Name:    res.Name,
				Address: res.Address,
				RSSI:    res.RSSI,
			})
		})
		if err != nil && scanCtx.Err() == nil {
			s.logger.Warn("scan failed", log.Err(err))
		}
	}()

	return map[string]bool{"scanning": true}, nil
}

func (s *Server) handleScanStop(_ context.Context, _ json.RawMessage) (any, error) {
	s.stopScan()
	return map[string]bool{"scanning": false}, nil
}

func (s *Server) scanning() bool {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.scanCancel != nil
}

func (s *Server) stopScan() {
	s.scanMu.Lock()
	cancel := s.scanCancel
	s.scanCancel = nil
	s.scanMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

type connectParams struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (s *Server) handleDeviceConnect(_ context.Context, payload json.RawMessage) (any, error) {
	var params connectParams
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &params); err != nil {
			return nil, fmt.Errorf("decode connect params: %w", err)
		}
	}

	cfg := s.config()
	target := ports.Target{Name: params.Name, Address: params.Address}
	if target.Name == "" && target.Address == "" {
		target = ports.Target{Name: cfg.DeviceName, Address: cfg.DeviceAddress}
	}

	// A running discovery scan would race with the connect scan.
	s.stopScan()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ScanTimeout)
	defer cancel()
	if err := s.ctrl.Connect(ctx, target); err != nil {
		return nil, err
	}
	return s.handleStatusGet(ctx, nil)
}

func (s *Server) handleDeviceDisconnect(ctx context.Context, _ json.RawMessage) (any, error) {
	if err := s.ctrl.Disconnect(); err != nil {
		return nil, err
	}
	return s.handleStatusGet(ctx, nil)
}

type applyParams struct {
	Code   byte           `json:"code"`
	Params map[string]int `json:"params"`
}

func (s *Server) handleEffectApply(_ context.Context, payload json.RawMessage) (any, error) {
	var params applyParams
	if err := json.Unmarshal(payload, &params); err != nil {
		return nil, fmt.Errorf("decode effect params: %w", err)
	}

	effect, ok := protocol.EffectByCode(params.Code)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", protocol.ErrUnknownEffect, params.Code)
	}
	body, err := effect.BuildPayload(params.Params)
	if err != nil {
		return nil, fmt.Errorf("effect %s: %w", effect.Name, err)
	}

	ctx, cancel := s.sendContext()
	defer cancel()
	ack, err := s.ctrl.ApplyEffect(ctx, effect.Code, body)
	if err != nil {
		return nil, err
	}
	return newAckPayload(ack), nil
}

func (s *Server) handleTimeSync(_ context.Context, _ json.RawMessage) (any, error) {
	ctx, cancel := s.sendContext()
	defer cancel()
	ack, err := s.ctrl.SyncTime(ctx)
	if err != nil {
		return nil, err
	}
	return newAckPayload(ack), nil
}

func (s *Server) handleMatrixClear(_ context.Context, _ json.RawMessage) (any, error) {
	ctx, cancel := s.sendContext()
	defer cancel()
	ack, err := s.ctrl.Clear(ctx)
	if err != nil {
		return nil, err
	}
	return newAckPayload(ack), nil
}

// sendContext bounds a command send independently of the request's
// WebSocket read context, which may be long-lived.
func (s *Server) sendContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.config().AckWait+time.Second)
}
