package websocket

import (
	"context"
	"log/slog"
	"sync"

	"qa-service/internal/models"
)

// TokenVerifier resolves a bearer token presented over the socket to a
// non-banned user.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

// Presence records which users currently hold at least one connection.
type Presence interface {
	SetUserOnline(ctx context.Context, userID uint) error
	SetUserOffline(ctx context.Context, userID uint) error
}

type clientMessage struct {
	client  *Client
	message *Message
}

// Hub tracks connections and their room memberships. Rooms come in two
// kinds: a per-user room keyed by user id, joined implicitly on
// authentication, and a per-question room joined and left explicitly.
// Delivery is best effort; a client whose send buffer is full is skipped.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Client lookup by authenticated user ID
	userClients map[uint]map[*Client]bool

	// Per-question room subscriptions
	questionClients map[uint]map[*Client]bool

	register      chan *Client
	unregister    chan *Client
	handleMessage chan *clientMessage

	verifier TokenVerifier
	presence Presence

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex
}

func NewHub(verifier TokenVerifier, presence Presence) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:         make(map[*Client]bool),
		userClients:     make(map[uint]map[*Client]bool),
		questionClients: make(map[uint]map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		handleMessage:   make(chan *clientMessage),
		verifier:        verifier,
		presence:        presence,
		ctx:             ctx,
		cancel:          cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.handleMessage:
			h.dispatch(msg.client, msg.message)

		case <-h.ctx.Done():
			slog.Info("WebSocket hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// enqueue hands a client message to the run loop. Once the hub has shut down
// the loop no longer drains the channel, so give up instead of blocking the
// caller's read goroutine forever. Reports whether the message was handed off.
func (h *Hub) enqueue(msg *clientMessage) bool {
	select {
	case h.handleMessage <- msg:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	slog.Debug("Client registered", "clientID", client.id)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)

	userID := client.UserID()
	lastForUser := false
	if userID != 0 {
		if set := h.userClients[userID]; set != nil {
			delete(set, client)
			if len(set) == 0 {
				delete(h.userClients, userID)
				lastForUser = true
			}
		}
	}

	for questionID := range client.Questions() {
		if set := h.questionClients[questionID]; set != nil {
			delete(set, client)
			if len(set) == 0 {
				delete(h.questionClients, questionID)
			}
		}
	}
	h.mu.Unlock()

	client.closeSend()

	if lastForUser && h.presence != nil {
		if err := h.presence.SetUserOffline(h.ctx, userID); err != nil {
			slog.Error("Failed to set user offline", "userID", userID, "error", err)
		}
	}

	slog.Debug("Client unregistered", "clientID", client.id, "userID", userID)
}

// bindUser associates an authenticated identity with a connection and joins
// its personal room.
func (h *Hub) bindUser(client *Client, user *models.User) {
	client.setUser(user.ID, user.Username)

	h.mu.Lock()
	if h.userClients[user.ID] == nil {
		h.userClients[user.ID] = make(map[*Client]bool)
	}
	h.userClients[user.ID][client] = true
	h.mu.Unlock()

	if h.presence != nil {
		if err := h.presence.SetUserOnline(h.ctx, user.ID); err != nil {
			slog.Error("Failed to set user online", "userID", user.ID, "error", err)
		}
	}

	slog.Debug("Client authenticated", "clientID", client.id, "userID", user.ID)
}

func (h *Hub) joinQuestion(client *Client, questionID uint) {
	client.addQuestion(questionID)

	h.mu.Lock()
	if h.questionClients[questionID] == nil {
		h.questionClients[questionID] = make(map[*Client]bool)
	}
	h.questionClients[questionID][client] = true
	h.mu.Unlock()

	slog.Debug("Client joined question room", "clientID", client.id, "questionID", questionID)
}

func (h *Hub) leaveQuestion(client *Client, questionID uint) {
	client.removeQuestion(questionID)

	h.mu.Lock()
	if set := h.questionClients[questionID]; set != nil {
		delete(set, client)
		if len(set) == 0 {
			delete(h.questionClients, questionID)
		}
	}
	h.mu.Unlock()

	slog.Debug("Client left question room", "clientID", client.id, "questionID", questionID)
}

// ToUser pushes an event to every connection of one user.
func (h *Hub) ToUser(userID uint, event string, data interface{}) {
	payload, err := Encode(MessageType(event), data)
	if err != nil {
		slog.Error("Failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.userClients[userID] {
		client.trySend(payload)
	}
}

// ToQuestion pushes an event to every connection in a question room.
func (h *Hub) ToQuestion(questionID uint, event string, data interface{}) {
	h.toQuestion(questionID, nil, MessageType(event), data)
}

func (h *Hub) toQuestion(questionID uint, except *Client, event MessageType, data interface{}) {
	payload, err := Encode(event, data)
	if err != nil {
		slog.Error("Failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.questionClients[questionID] {
		if client == except {
			continue
		}
		client.trySend(payload)
	}
}
