// Package stream serves live session snapshots over websockets and accepts
// strokes from connected clients.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/world"
)

const (
	MessageSnapshot = "snapshot"
	MessageStroke   = "stroke"
	MessageRejected = "rejected"
	MessagePing     = "ping"
	MessagePong     = "pong"

	// pendingStrokes bounds strokes waiting for the next step.
	pendingStrokes = 32
	writeTimeout   = 2 * time.Second
)

var ErrQueueFull = errors.New("stream: stroke queue full")

// Message is the envelope for both directions. Clients send stroke and ping
// messages; the hub sends snapshot, rejected and pong.
type Message struct {
	Type     string          `json:"type"`
	Points   []world.Point   `json:"points,omitempty"`
	Time     float64         `json:"time,omitempty"`
	Outcome  string          `json:"outcome,omitempty"`
	Progress float64         `json:"progress,omitempty"`
	Snapshot *world.Snapshot `json:"snapshot,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// safeConn serializes writes; gorilla connections allow one writer at a time.
type safeConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *safeConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *safeConn) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.write(data)
}

type pendingStroke struct {
	from   *safeConn
	points []r2.Vec
}

// Hub broadcasts snapshots to every client. Strokes received from clients are
// queued and committed on the stepping goroutine in OnStep, so the session is
// only touched from one goroutine.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader
	interval time.Duration

	mu       sync.Mutex
	clients  map[*safeConn]struct{}
	lastSent time.Time

	strokes chan pendingStroke
}

type Option func(*Hub)

// WithInterval throttles broadcasts; zero sends on every step.
func WithInterval(d time.Duration) Option {
	return func(h *Hub) { h.interval = d }
}

func NewHub(logger *log.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		interval: 50 * time.Millisecond,
		clients:  make(map[*safeConn]struct{}),
		strokes:  make(chan pendingStroke, pendingStrokes),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &safeConn{conn: conn}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("client connected", "remote", conn.RemoteAddr())

	defer func() {
		h.remove(c)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		h.handle(c, data)
	}
}

func (h *Hub) handle(c *safeConn, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Debug("bad message", "err", err)
		return
	}

	switch msg.Type {
	case MessagePing:
		c.writeJSON(Message{Type: MessagePong})
	case MessageStroke:
		points := make([]r2.Vec, len(msg.Points))
		for i, p := range msg.Points {
			points[i] = p.Vec()
		}
		select {
		case h.strokes <- pendingStroke{from: c, points: points}:
		default:
			c.writeJSON(Message{Type: MessageRejected, Error: ErrQueueFull.Error()})
		}
	default:
		h.logger.Debug("unknown message type", "type", msg.Type)
	}
}

func (h *Hub) remove(c *safeConn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// OnStep commits queued strokes and broadcasts the scene.
func (h *Hub) OnStep(s *sim.Session) {
	h.commitPending(s)

	h.mu.Lock()
	due := h.interval == 0 || time.Since(h.lastSent) >= h.interval
	if due {
		h.lastSent = time.Now()
	}
	h.mu.Unlock()
	if !due {
		return
	}

	snap := s.World().Snapshot()
	h.Broadcast(Message{
		Type:     MessageSnapshot,
		Time:     s.Time(),
		Outcome:  s.Outcome().String(),
		Progress: s.Objective().Progress(),
		Snapshot: &snap,
	})
}

func (h *Hub) commitPending(s *sim.Session) {
	for {
		select {
		case p := <-h.strokes:
			if _, err := s.Commit(p.points); err != nil {
				p.from.writeJSON(Message{Type: MessageRejected, Error: err.Error()})
			}
		default:
			return
		}
	}
}

// Broadcast sends v to every client, dropping clients whose write fails.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("marshal broadcast", "err", err)
		return
	}

	h.mu.Lock()
	clients := make([]*safeConn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Debug("dropping client", "err", err)
			h.remove(c)
			c.conn.Close()
		}
	}
}

// Run steps the session in real time until ctx is done. The final scene keeps
// streaming after the level is decided.
func (h *Hub) Run(ctx context.Context, s *sim.Session) error {
	step := float64(world.FixedStep)
	ticker := time.NewTicker(time.Duration(step * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Step(world.FixedStep)
			h.OnStep(s)
		}
	}
}
