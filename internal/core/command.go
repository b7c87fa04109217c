package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin binds the client to a display name in the room.
	CommandJoin CommandKind = iota
	// CommandSendMessage delivers a chat message to every connection.
	CommandSendMessage
	// CommandTyping marks the participant as typing.
	CommandTyping
	// CommandStopTyping clears the participant's typing flag.
	CommandStopTyping
)

func (k CommandKind) String() string {
	switch k {
	case CommandJoin:
		return "join"
	case CommandSendMessage:
		return "message"
	case CommandTyping:
		return "typing"
	case CommandStopTyping:
		return "stop_typing"
	default:
		return "unknown"
	}
}

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	// Name is the requested display name for CommandJoin.
	Name string
	// Text is the raw message body for CommandSendMessage.
	Text string
}
