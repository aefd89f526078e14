package gui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/EmbeddedEvery/matrix-gui/internal/app"
	"github.com/EmbeddedEvery/matrix-gui/internal/cliconfig"
	"github.com/EmbeddedEvery/matrix-gui/internal/ports"
	"github.com/EmbeddedEvery/matrix-gui/internal/protocol"
	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

// ErrUnknownMethod is returned when a request names an unregistered RPC method.
var ErrUnknownMethod = errors.New("matrixgui: unknown rpc method")

// sendBuffer bounds the per-client outbound queue. A browser that stops
// reading loses events rather than stalling the rest of the server.
const sendBuffer = 64

// rpcHandler handles a single RPC method call.
type rpcHandler func(ctx context.Context, payload json.RawMessage) (any, error)

// clientConn tracks one WebSocket connection.
type clientConn struct {
	ws        *websocket.Conn
	sendCh    chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

// Server serves the control page over HTTP and exposes the matrix controller
// over a WebSocket RPC connection at /ws. It owns the controller so that
// state changes and ACK notifications can be forwarded to every connected
// page as events.
type Server struct {
	ctrl      *app.Controller
	transport ports.Transport
	logger    log.Logger
	addr      string

	cfgMu sync.RWMutex
	cfg   cliconfig.Config

	clients  sync.Map // connID (uint64) -> *clientConn
	nextID   atomic.Uint64
	handlers map[string]rpcHandler

	httpSrv *http.Server

	boundMu   sync.Mutex
	boundAddr string

	scanMu     sync.Mutex
	scanCancel context.CancelFunc
}

// NewServer creates the GUI server and its controller over the given
// transport.
func NewServer(transport ports.Transport, cfg cliconfig.Config, logger log.Logger) *Server {
	s := &Server{
		transport: transport,
		logger:    logger,
		addr:      cfg.ListenAddr,
		cfg:       cfg,
	}
	s.ctrl = app.New(transport, logger,
		app.WithAckWait(cfg.AckWait),
		app.WithStateListener(s.onStateChange),
		app.WithAckListener(s.onAck),
	)
	s.handlers = map[string]rpcHandler{
		"status.get":        s.handleStatusGet,
		"effects.list":      s.handleEffectsList,
		"scan.start":        s.handleScanStart,
		"scan.stop":         s.handleScanStop,
		"device.connect":    s.handleDeviceConnect,
		"device.disconnect": s.handleDeviceDisconnect,
		"effect.apply":      s.handleEffectApply,
		"time.sync":         s.handleTimeSync,
		"matrix.clear":      s.handleMatrixClear,
	}
	return s
}

// Controller exposes the server's controller, mainly for shutdown cleanup.
func (s *Server) Controller() *app.Controller { return s.ctrl }

// UpdateConfig applies a reloaded config file on top of the current config
// and notifies connected pages. Flag-set values keep their precedence via
// the changed map captured at startup.
func (s *Server) UpdateConfig(fc cliconfig.FileConfig, changed map[string]bool) {
	s.cfgMu.Lock()
	cfg := s.cfg
	if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
		s.cfgMu.Unlock()
		s.logger.Warn("ignoring invalid config reload", log.Err(err))
		return
	}
	s.cfg = cfg
	s.cfgMu.Unlock()

	s.logger.Info("config reloaded",
		log.String("device_name", cfg.DeviceName),
		log.Duration("scan_timeout", cfg.ScanTimeout),
	)
	s.Broadcast("config.updated", configPayload{
		DeviceName:    cfg.DeviceName,
		DeviceAddress: cfg.DeviceAddress,
		ScanTimeout:   cfg.ScanTimeout.String(),
	})
}

func (s *Server) config() cliconfig.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// Start begins serving. Blocks until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleUpgrade)

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("gui listen on %s: %w", s.addr, err)
	}
	s.boundMu.Lock()
	s.boundAddr = listener.Addr().String()
	s.boundMu.Unlock()

	s.httpSrv = &http.Server{Handler: mux}

	s.logger.Info("gui listening", log.String("addr", s.BoundAddr()))

	go func() {
		<-ctx.Done()
		_ = s.Stop(context.Background())
	}()

	if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("gui serve: %w", err)
	}
	return nil
}

// Stop closes all client connections and shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.stopScan()

	s.clients.Range(func(key, value any) bool {
		cc := value.(*clientConn)
		cc.closeOnce.Do(func() { close(cc.done) })
		_ = cc.ws.Close(websocket.StatusGoingAway, "server shutting down")
		s.clients.Delete(key)
		return true
	})

	if s.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
	return nil
}

// BoundAddr returns the address the server actually bound to. Empty before
// Start has bound the listener.
func (s *Server) BoundAddr() string {
	s.boundMu.Lock()
	defer s.boundMu.Unlock()
	return s.boundAddr
}

// Broadcast queues an event frame for every connected page. Slow clients
// drop events instead of blocking.
func (s *Server) Broadcast(method string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("dropping unmarshalable event", log.String("event", method), log.Err(err))
		return
	}
	frame := Frame{
		Type:    FrameTypeEvent,
		Method:  method,
		Payload: raw,
	}
	s.clients.Range(func(_, value any) bool {
		cc := value.(*clientConn)
		select {
		case cc.sendCh <- frame:
		default:
			s.logger.Warn("dropped event for slow client", log.String("event", method))
		}
		return true
	})
}

func (s *Server) onStateChange(prev, cur app.State, reason string) {
	s.Broadcast("state.changed", statePayload{
		From:   prev.String(),
		To:     cur.String(),
		Reason: reason,
	})
}

func (s *Server) onAck(ack protocol.Ack) {
	s.Broadcast("ack.received", newAckPayload(&ack))
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The page is served to a local browser only.
		OriginPatterns: []string{
			"localhost",
			"localhost:*",
			"127.0.0.1",
			"127.0.0.1:*",
			"[::1]",
			"[::1]:*",
		},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", log.Err(err))
		return
	}

	connID := s.nextID.Add(1)
	cc := &clientConn{
		ws:     ws,
		sendCh: make(chan Frame, sendBuffer),
		done:   make(chan struct{}),
	}
	s.clients.Store(connID, cc)
	s.logger.Debug("page connected", log.Int("conn_id", int(connID)))

	go s.writeLoop(cc)
	s.readLoop(r.Context(), cc)

	cc.closeOnce.Do(func() { close(cc.done) })
	s.clients.Delete(connID)
	_ = ws.Close(websocket.StatusNormalClosure, "")
	s.logger.Debug("page disconnected", log.Int("conn_id", int(connID)))
}

func (s *Server) readLoop(ctx context.Context, cc *clientConn) {
	for {
		select {
		case <-cc.done:
			return
		default:
		}

		var frame Frame
		if err := wsjson.Read(ctx, cc.ws, &frame); err != nil {
			return
		}
		if frame.Type != FrameTypeRequest {
			continue
		}
		go s.dispatchRPC(ctx, cc, frame)
	}
}

func (s *Server) writeLoop(cc *clientConn) {
	for {
		select {
		case <-cc.done:
			return
		case frame := <-cc.sendCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := wsjson.Write(ctx, cc.ws, frame)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (s *Server) dispatchRPC(ctx context.Context, cc *clientConn, req Frame) {
	handler, ok := s.handlers[req.Method]
	if !ok {
		s.sendResponse(cc, req.ID, nil, fmt.Errorf("%w: %s", ErrUnknownMethod, req.Method))
		return
	}

	result, err := handler(ctx, req.Payload)
	s.sendResponse(cc, req.ID, result, err)
}

func (s *Server) sendResponse(cc *clientConn, id uint64, result any, err error) {
	resp := Frame{
		Type: FrameTypeResponse,
		ID:   id,
	}
	if err != nil {
		resp.Error = err.Error()
	} else if result != nil {
		raw, merr := json.Marshal(result)
		if merr != nil {
			resp.Error = merr.Error()
		} else {
			resp.Payload = raw
		}
	}
	select {
	case cc.sendCh <- resp:
	default:
		s.logger.Warn("dropped rpc response for slow client", log.Int("frame_id", int(id)))
	}
}
