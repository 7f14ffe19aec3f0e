// Package ws streams device state over WebSocket.
package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	coredevice "github.com/tamaos/tamaos/internal/device"
	"github.com/tamaos/tamaos/internal/logging"
	"github.com/tamaos/tamaos/internal/monitoring"
	"github.com/tamaos/tamaos/internal/shared/id"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the inbound WebSocket message envelope.
type Message struct {
	Type string   `json:"type"`
	Dt   *float64 `json:"dt,omitempty"`
}

// Handler manages WebSocket connections.
type Handler struct {
	dev     *coredevice.Device
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(dev *coredevice.Device, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	return &Handler{dev: dev, metrics: metrics, logger: logger}
}

// conn wraps a websocket connection with a write lock; the subscription
// goroutine and the read loop both send.
type conn struct {
	*websocket.Conn
	writeMu sync.Mutex
}

func (c *conn) sendJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.WriteJSON(v)
}

// HandleConnection handles WebSocket upgrade and the message loop.
func (h *Handler) HandleConnection(c *gin.Context) {
	raw, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	wc := &conn{Conn: raw}
	defer wc.Close()

	connID := id.NewConnID()
	h.metrics.WSConnections.Inc()
	defer h.metrics.WSConnections.Dec()

	var (
		unsubscribe func()
		subOnce     sync.Once
	)
	defer func() {
		if unsubscribe != nil {
			unsubscribe()
		}
	}()

	wc.sendJSON(gin.H{
		"type":    "system",
		"message": "Connected to TamaOS device stream",
		"conn_id": connID.String(),
	})

	for {
		var msg Message
		if err := wc.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("WebSocket read error",
					zap.String("conn_id", connID.String()), zap.Error(err))
			}
			return
		}
		h.metrics.WSMessages.WithLabelValues(msg.Type).Inc()

		switch msg.Type {
		case "tick":
			dt := 1.0
			if msg.Dt != nil {
				dt = *msg.Dt
			}
			snap := h.dev.Tick(dt)
			h.metrics.RecordTick(snap.Age)
			h.sendSnapshot(wc, snap)
		case "snapshot":
			h.sendSnapshot(wc, h.dev.Snapshot())
		case "subscribe":
			subOnce.Do(func() {
				ch, cancel := h.dev.Subscribe()
				unsubscribe = cancel
				go h.forward(wc, ch)
			})
			wc.sendJSON(gin.H{"type": "subscribed"})
		case "ping":
			wc.sendJSON(gin.H{"type": "pong"})
		default:
			wc.sendJSON(gin.H{"type": "error", "message": "unknown message type"})
		}
	}
}

// forward pushes subscribed snapshots until the channel closes or a write
// fails.
func (h *Handler) forward(wc *conn, ch <-chan coredevice.Snapshot) {
	for snap := range ch {
		if err := h.sendSnapshot(wc, snap); err != nil {
			return
		}
	}
}

func (h *Handler) sendSnapshot(wc *conn, snap coredevice.Snapshot) error {
	return wc.sendJSON(gin.H{
		"type":     "snapshot",
		"event_id": uuid.NewString(),
		"data":     snap,
	})
}
