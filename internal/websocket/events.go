package websocket

import (
	"log/slog"
)

// dispatch handles a single inbound client event. Runs on the hub goroutine.
func (h *Hub) dispatch(client *Client, msg *Message) {
	switch msg.Type {
	case MessageTypeAuthenticate:
		h.handleAuthenticate(client, msg)

	case MessageTypeJoinQuestion:
		questionID, err := msg.QuestionID()
		if err != nil {
			return
		}
		h.joinQuestion(client, questionID)

	case MessageTypeLeaveQuestion:
		questionID, err := msg.QuestionID()
		if err != nil {
			return
		}
		h.leaveQuestion(client, questionID)

	case MessageTypeTyping:
		h.handleTyping(client, msg, MessageTypeUserTyping)

	case MessageTypeStopTyping:
		h.handleTyping(client, msg, MessageTypeUserStopTyping)
	}
}

func (h *Hub) handleAuthenticate(client *Client, msg *Message) {
	token, err := msg.Token()
	if err != nil {
		client.trySendEvent(MessageTypeAuthError, map[string]interface{}{
			"message": "No token provided",
		})
		return
	}

	user, err := h.verifier.VerifyToken(h.ctx, token)
	if err != nil {
		slog.Debug("Socket authentication failed", "clientID", client.id, "error", err)
		client.trySendEvent(MessageTypeAuthError, map[string]interface{}{
			"message": "Authentication failed",
		})
		return
	}

	h.bindUser(client, user)
	client.trySendEvent(MessageTypeAuthenticated, map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
	})
}

// handleTyping relays a typing indicator to everyone else in the question
// room. Requires an authenticated username to attribute the indicator.
func (h *Hub) handleTyping(client *Client, msg *Message, out MessageType) {
	username := client.Username()
	if username == "" {
		return
	}
	questionID, err := msg.QuestionID()
	if err != nil {
		return
	}

	h.toQuestion(questionID, client, out, map[string]interface{}{
		"username":   username,
		"questionId": questionID,
	})
}

func (c *Client) trySendEvent(mt MessageType, data interface{}) {
	payload, err := Encode(mt, data)
	if err != nil {
		slog.Error("Failed to encode event", "event", mt, "error", err)
		return
	}
	c.trySend(payload)
}
