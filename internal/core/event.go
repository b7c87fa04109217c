package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserJoined notifies other connections that a participant joined.
	EventUserJoined EventKind = iota
	// EventUserLeft notifies remaining connections that a participant left.
	EventUserLeft
	// EventRosterChanged delivers the full ordered list of participant names.
	EventRosterChanged
	// EventChatMessage carries a chat message to every connection.
	EventChatMessage
	// EventTypingChanged notifies other connections about a typing signal.
	EventTypingChanged
	// EventSystemMessage is a server notice addressed to one connection.
	EventSystemMessage
	// EventError notifies a client about a domain error.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventUserJoined:
		return "user_joined"
	case EventUserLeft:
		return "user_left"
	case EventRosterChanged:
		return "roster_changed"
	case EventChatMessage:
		return "chat_message"
	case EventTypingChanged:
		return "typing_changed"
	case EventSystemMessage:
		return "system_message"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is sent to clients to describe what happened in the room.
type Event struct {
	Kind    EventKind
	User    string
	Names   []string // EventRosterChanged
	Typing  bool     // EventTypingChanged
	Message Message  // EventChatMessage
	Text    string   // EventSystemMessage
	At      time.Time
	Error   *CoreError
}
