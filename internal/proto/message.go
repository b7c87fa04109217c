package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeJoin       = "join"
	InboundTypeMessage    = "message"
	InboundTypeTyping     = "typing"
	InboundTypeStopTyping = "stopTyping"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventUserJoined    = "userJoined"
	EventUserLeft      = "userLeft"
	EventRosterChanged = "rosterChanged"
	EventChatMessage   = "chatMessage"
	EventTypingChanged = "typingChanged"
	EventSystemMessage = "systemMessage"

	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
)

// JoinData requests to join the room under a display name.
type JoinData struct {
	DisplayName string `json:"displayName"`
}

// MessageData is a chat message from the client.
type MessageData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventUser is the payload of userJoined and userLeft.
type EventUser struct {
	DisplayName string `json:"displayName"`
}

// EventRoster lists current participants in join order.
type EventRoster struct {
	Names []string `json:"names"`
}

// EventChat is a chat message echoed to every connection, sender included.
type EventChat struct {
	ID         string    `json:"id"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventTyping is an advisory typing signal.
type EventTyping struct {
	DisplayName string `json:"displayName"`
	IsTyping    bool   `json:"isTyping"`
}

// EventSystem is a server notice for a single connection.
type EventSystem struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
