package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies a websocket event on either direction of the wire
type MessageType string

// Client to server events
const (
	MessageTypeAuthenticate  MessageType = "authenticate"
	MessageTypeJoinQuestion  MessageType = "join_question"
	MessageTypeLeaveQuestion MessageType = "leave_question"
	MessageTypeTyping        MessageType = "typing"
	MessageTypeStopTyping    MessageType = "stop_typing"
)

// Server to client events
const (
	MessageTypeAuthenticated   MessageType = "authenticated"
	MessageTypeAuthError       MessageType = "auth_error"
	MessageTypeNewNotification MessageType = "new_notification"
	MessageTypeNewAnswer       MessageType = "new_answer"
	MessageTypeVoteUpdated     MessageType = "vote_updated"
	MessageTypeAnswerAccepted  MessageType = "answer_accepted"
	MessageTypeUserTyping      MessageType = "user_typing"
	MessageTypeUserStopTyping  MessageType = "user_stop_typing"
)

func (mt MessageType) String() string {
	return string(mt)
}

// IsClientEvent reports whether the type may be sent by a client.
func (mt MessageType) IsClientEvent() bool {
	switch mt {
	case MessageTypeAuthenticate, MessageTypeJoinQuestion, MessageTypeLeaveQuestion,
		MessageTypeTyping, MessageTypeStopTyping:
		return true
	default:
		return false
	}
}

// Message is the wire envelope for both directions.
type Message struct {
	Type      MessageType            `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp,omitempty"`
}

// Encode marshals a server event with the current timestamp.
func Encode(mt MessageType, data interface{}) ([]byte, error) {
	payload := struct {
		Type      MessageType `json:"type"`
		Data      interface{} `json:"data,omitempty"`
		Timestamp int64       `json:"timestamp"`
	}{
		Type:      mt,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	return json.Marshal(payload)
}

// QuestionID extracts the questionId field common to room events.
func (m *Message) QuestionID() (uint, error) {
	raw, ok := m.Data["questionId"]
	if !ok {
		return 0, fmt.Errorf("questionId is required")
	}
	id, ok := raw.(float64)
	if !ok || id <= 0 {
		return 0, fmt.Errorf("questionId must be a positive number")
	}
	return uint(id), nil
}

// Token extracts the token field of an authenticate event.
func (m *Message) Token() (string, error) {
	raw, ok := m.Data["token"]
	if !ok {
		return "", fmt.Errorf("token is required")
	}
	token, ok := raw.(string)
	if !ok || token == "" {
		return "", fmt.Errorf("token must be a non-empty string")
	}
	return token, nil
}
