// Package server streams read-only simulation frames to debug clients over
// websocket. Rendering is entirely the client's business.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/curvemotion/internal/core/observability/log"
	"github.com/zeusync/curvemotion/internal/core/system"
)

const (
	clientBuffer = 16
	writeTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

type TelemetryServer struct {
	logger log.Log

	mu      sync.Mutex
	server  *http.Server
	clients map[*client]struct{}
	last    []byte
	dropped uint64
}

func NewTelemetryServer(logger log.Log) *TelemetryServer {
	if logger == nil {
		logger = log.Nop()
	}
	return &TelemetryServer{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Handler serves /ws (frame stream) and /snapshot (latest frame).
func (s *TelemetryServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	return mux
}

// Start listens on addr and serves in the background.
func (s *TelemetryServer) Start(_ context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.server = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("telemetry server stopped", log.Error(err))
		}
	}()
	s.logger.Info("telemetry server listening", log.String("addr", ln.Addr().String()))
	return nil
}

func (s *TelemetryServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	clients := s.clients
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	for c := range clients {
		c.close()
	}
	if srv == nil {
		return ErrServerNotRunning
	}
	return srv.Shutdown(ctx)
}

// Broadcast sends frame to every client. Slow clients lose frames rather than
// stalling the simulation.
func (s *TelemetryServer) Broadcast(frame system.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = data
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.dropped++
		}
	}
	return nil
}

func (s *TelemetryServer) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *TelemetryServer) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *TelemetryServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	data := s.last
	s.mu.Unlock()
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *TelemetryServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.last != nil {
		c.send <- s.last
	}
	s.mu.Unlock()
	s.logger.Debug("telemetry client connected", log.String("remote", conn.RemoteAddr().String()))

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop only watches for the client going away.
func (s *TelemetryServer) readLoop(c *client) {
	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			delete(s.clients, c)
			c.close()
		}
		s.mu.Unlock()
		s.logger.Debug("telemetry client disconnected", log.String("remote", c.conn.RemoteAddr().String()))
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *TelemetryServer) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
