package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sudorandom/co2-atlas/pkg/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	ctrl *session.Controller
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// writePump owns all writes to the connection.
func (c *client) writePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("write failed", zap.String("client", c.id.String()), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// hub tracks connected clients. A client whose send buffer is full is
// dropped. Once closed, the hub accepts no new clients.
type hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	closed  bool
	active  sync.WaitGroup
	logger  *zap.Logger
}

func newHub(logger *zap.Logger) *hub {
	return &hub{clients: make(map[uuid.UUID]*client), logger: logger}
}

// add registers c. Every accepted client must be released once its
// connection handler returns.
func (h *hub) add(c *client) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return len(h.clients), false
	}
	h.clients[c.id] = c
	h.active.Add(1)
	return len(h.clients), true
}

func (h *hub) release() {
	h.active.Done()
}

// wait blocks until every accepted client has been released.
func (h *hub) wait() {
	h.active.Wait()
}

func (h *hub) remove(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		c.close()
	}
	return len(h.clients)
}

func (h *hub) get(id uuid.UUID) (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	return c, ok
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		c.close()
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// sendTo queues msg for one client. It reports false when the client is
// gone or was dropped for being slow.
func (h *hub) sendTo(c *client, msg []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		h.logger.Warn("dropping slow client", zap.String("client", c.id.String()))
		delete(h.clients, c.id)
		c.close()
		return false
	}
}
