package notification

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// writeWait bounds a single push so a stalled socket cannot block the
// request path that created the notification.
const writeWait = 5 * time.Second

// Conn is the subset of a websocket connection the hub writes through.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
}

// socket pairs a connection with the mutex serializing its writes. The
// underlying websocket supports only one concurrent writer.
type socket struct {
	mu   sync.Mutex
	conn Conn
}

// Hub tracks websocket connections per recipient and pushes newly created
// notifications to them. Delivery is best-effort; a dead connection is
// dropped on the first failed write.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string][]*socket
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[string][]*socket),
		logger: logger,
	}
}

// Register adds a connection for the given recipient.
func (h *Hub) Register(recipientID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[recipientID] = append(h.conns[recipientID], &socket{conn: conn})
}

// Unregister removes a connection for the given recipient.
func (h *Hub) Unregister(recipientID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	active := h.conns[recipientID][:0]
	for _, s := range h.conns[recipientID] {
		if s.conn != conn {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		delete(h.conns, recipientID)
	} else {
		h.conns[recipientID] = active
	}
}

// Publish sends the notification to every open connection of its recipient.
// Writes to one connection are serialized through its mutex; concurrent
// events for the same recipient queue up instead of racing on the socket.
func (h *Hub) Publish(n *Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("failed to marshal notification for push", zap.Error(err))
		return
	}

	h.mu.RLock()
	sockets := append([]*socket{}, h.conns[n.RecipientID]...)
	h.mu.RUnlock()

	for _, s := range sockets {
		s.mu.Lock()
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := s.conn.WriteMessage(websocket.TextMessage, payload)
		s.mu.Unlock()

		if err != nil {
			h.logger.Warn("dropping dead notification socket",
				zap.String("recipient", n.RecipientID), zap.Error(err))
			h.Unregister(n.RecipientID, s.conn)
		}
	}
}
