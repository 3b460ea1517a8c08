package orderControllers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	clientQueue = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsClient struct {
	id      string
	storeID string
	conn    *websocket.Conn
	send    chan []byte
}

// Hub fans new orders out to the connected vendors whose store appears in them.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*wsClient]struct{})}
}

type orderEvent struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
}

// Publish never blocks. A client whose buffer is full is disconnected.
// The proof image is left out of the event.
func (h *Hub) Publish(order models.Order) {
	order.ProofImage = ""
	data, err := json.Marshal(orderEvent{Type: "order.created", Order: order})
	if err != nil {
		slog.Error("Failed to encode order event", "order_id", order.OrderID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if !order.HasStore(client.storeID) {
			continue
		}
		select {
		case client.send <- data:
		default:
			slog.Warn("Dropping slow websocket client", "client_id", client.id, "store_id", client.storeID)
			h.removeLocked(client)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *wsClient) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// GET /vendor/orders/ws
func OrderWebSocketHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID := c.GetString(middleware.StoreIDKey)
		if storeID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Vendor token required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Warn("Websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		client := &wsClient{
			id:      uuid.NewString(),
			storeID: storeID,
			conn:    conn,
			send:    make(chan []byte, clientQueue),
		}
		hub.add(client)
		slog.Info("Vendor connected to order feed", "client_id", client.id, "store_id", storeID)

		go writePump(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.remove(client)
		slog.Info("Vendor left order feed", "client_id", client.id, "store_id", storeID)
	}
}

func writePump(c *wsClient) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
