package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/passmint/passmint/internal/engine"
	"github.com/passmint/passmint/internal/metrics"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating
	// the connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping
	// frames. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames. Analyze payloads top out at
	// 100 password characters plus the JSON envelope.
	maxMessageSize = 1024

	// sendBufSize is the per-session outgoing message buffer depth.
	sendBufSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins — callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub owns all open realtime sessions. Sessions are independent of one
// another; ordering is guaranteed only within a single session's message
// stream.
type Hub struct {
	engine   *engine.Engine
	interval time.Duration

	mu       sync.RWMutex
	sessions map[*session]struct{}
}

// session is one connected client.
type session struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub dispatching to eng. A positive interval enables the
// periodic analytics push to all sessions; zero disables it.
func New(eng *engine.Engine, interval time.Duration) *Hub {
	return &Hub{
		engine:   eng,
		interval: interval,
		sessions: make(map[*session]struct{}),
	}
}

// Run drives the analytics broadcast ticker. It blocks until ctx is
// cancelled, then closes all open sessions.
func (h *Hub) Run(ctx context.Context) {
	if h.interval <= 0 {
		<-ctx.Done()
		h.closeAll()
		return
	}

	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-t.C:
			h.broadcastAnalytics()
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the
// session until the remote end closes it or a transport fault occurs.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	s := &session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(s)
	defer h.unregister(s)

	slog.Debug("ws: session opened", "session", s.id, "remote", r.RemoteAddr)

	go s.writePump()
	h.readPump(s) // blocks until the connection closes

	slog.Debug("ws: session closed", "session", s.id)
}

// Count returns the number of currently open sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(s *session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	metrics.WSSessions.Inc()
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.send)
		metrics.WSSessions.Dec()
	}
	h.mu.Unlock()
}

// readPump reads inbound frames, dispatches each one and queues the
// reply. One bad message never tears the session down; a transport error
// ends the loop and the session is closed.
func (h *Hub) readPump(s *session) {
	defer s.conn.Close()
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ws: read failed", "session", s.id, "err", err)
			}
			return
		}

		if !h.trySend(s, h.dispatch(s, data)) {
			// Outgoing buffer full or the session was already removed.
			return
		}
	}
}

// trySend queues data on the session's outgoing buffer. It holds the
// hub lock so a send can never race the channel close in unregister or
// closeAll. Returns false if the session is gone or its buffer is full.
func (h *Hub) trySend(s *session, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.sessions[s]; !ok {
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// writePump drains the session's send channel and forwards messages to
// the connection. Also sends periodic ping frames. Runs in its own
// goroutine per session.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				// Channel was closed (hub shutdown or session removed).
				s.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) broadcastAnalytics() {
	data, err := json.Marshal(outbound{
		Type: typeAnalyticsUpdate,
		Data: h.engine.Analytics(),
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if !h.trySend(s, data) {
			// Session's outgoing buffer is full — disconnect it.
			h.unregister(s)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		close(s.send)
		delete(h.sessions, s)
		metrics.WSSessions.Dec()
	}
}
