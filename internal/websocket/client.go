package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. A connection starts anonymous and may
// gain a user identity through the authenticate event.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// Identity, zero until authenticated
	userID   uint
	username string

	// Question rooms this connection has joined
	questions map[uint]bool

	mu         sync.RWMutex
	sendClosed int32
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:        uuid.New().String(),
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		questions: make(map[uint]bool),
	}
}

// Serve upgrades the HTTP request and starts the read and write pumps.
func Serve(hub *Hub, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := newClient(hub, conn)
	select {
	case hub.register <- client:
	case <-hub.ctx.Done():
		conn.Close()
		return hub.ctx.Err()
	}

	go client.writePump()
	go client.readPump()
	return nil
}

func (c *Client) UserID() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

func (c *Client) Questions() map[uint]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[uint]bool, len(c.questions))
	for id := range c.questions {
		out[id] = true
	}
	return out
}

func (c *Client) setUser(userID uint, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.username = username
}

func (c *Client) addQuestion(questionID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions[questionID] = true
}

func (c *Client) removeQuestion(questionID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.questions, questionID)
}

// trySend queues a payload without blocking; a slow client misses the event.
func (c *Client) trySend(payload []byte) {
	if atomic.LoadInt32(&c.sendClosed) == 1 {
		return
	}
	select {
	case c.send <- payload:
	default:
		slog.Debug("Client send buffer full, dropping event", "clientID", c.id)
	}
}

func (c *Client) closeSend() {
	if atomic.CompareAndSwapInt32(&c.sendClosed, 0, 1) {
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "error", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			slog.Debug("Dropping malformed message", "clientID", c.id, "error", err)
			continue
		}
		if !msg.Type.IsClientEvent() {
			slog.Debug("Dropping unknown event", "clientID", c.id, "type", msg.Type)
			continue
		}

		if !c.hub.enqueue(&clientMessage{client: c, message: &msg}) {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
