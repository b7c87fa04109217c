package core

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultClientBuffer is the Events/Commands buffer size used when none is given.
const DefaultClientBuffer = 16

// Client is one transport connection as seen by the core layer.
// The transport writes to Commands and reads from Events; the hub closes
// Events once it has processed the client's disconnect.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	closeOnce sync.Once
}

// NewClient constructs a client with initialized channels. An empty id gets a
// random UUID and a non-positive buffer falls back to DefaultClientBuffer.
func NewClient(id string, buffer int) *Client {
	if id == "" {
		id = uuid.NewString()
	}
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
	}
}

// closeCommands marks the end of the client's input. Safe to call more than once.
func (c *Client) closeCommands() {
	c.closeOnce.Do(func() {
		close(c.Commands)
	})
}
