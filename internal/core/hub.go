package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// MaxMessageRunes is the longest accepted chat message, in code points.
	MaxMessageRunes = 1000
	// MaxNameRunes is the longest accepted display name, in code points.
	MaxNameRunes = 32

	welcomeFormat = "Welcome, %s!"
	inboxSize     = 64
)

// ErrHubStopped is returned by queries issued after Run has returned.
var ErrHubStopped = errors.New("hub stopped")

// Roster is a point-in-time view of the room.
type Roster struct {
	Names    []string
	Capacity int
}

type requestKind int

const (
	requestRegister requestKind = iota
	requestCommand
	requestDisconnect
	requestRoster
)

type request struct {
	kind   requestKind
	client *Client
	cmd    *Command
	reply  chan<- Roster
}

// Hub serializes every room mutation through a single run loop.
// Connections talk to it only through their Client channels.
type Hub struct {
	inbox chan request
	done  chan struct{}

	// owned by Run
	clients map[*Client]struct{}
	room    *Room
	last    time.Time

	now func() time.Time
	log *zerolog.Logger
}

// Option customizes a Hub.
type Option func(*Hub)

// WithLogger sets the hub logger. Without it the hub is silent.
func WithLogger(logger *zerolog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.log = logger
		}
	}
}

// WithClock replaces the wall clock used for message and notice timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHub creates a hub with an empty room.
func NewHub(opts ...Option) *Hub {
	nop := zerolog.Nop()
	h := &Hub{
		inbox:   make(chan request, inboxSize),
		done:    make(chan struct{}),
		clients: make(map[*Client]struct{}),
		room:    NewRoom(),
		now:     time.Now,
		log:     &nop,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes requests until ctx is cancelled. It must be called once.
// On return every client still registered has its Events channel closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Int("clients", len(h.clients)).Msg("hub stopped")
			h.closeClients()
			return
		case req := <-h.inbox:
			h.handle(ctx, req)
		}
	}
}

// RegisterClient attaches a connection to the hub. The client starts in the
// unjoined state and receives roster broadcasts from now on.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.inbox <- request{kind: requestRegister, client: c}:
	case <-h.done:
	}
}

// UnregisterClient ends the client's input. Commands already queued are still
// processed, then the hub handles the disconnect and closes c.Events.
// The caller must not send on c.Commands afterwards.
func (h *Hub) UnregisterClient(c *Client) {
	c.closeCommands()
}

// Roster returns the current participant names as seen by the run loop.
func (h *Hub) Roster(ctx context.Context) (Roster, error) {
	reply := make(chan Roster, 1)
	select {
	case h.inbox <- request{kind: requestRoster, reply: reply}:
	case <-h.done:
		return Roster{}, ErrHubStopped
	case <-ctx.Done():
		return Roster{}, ctx.Err()
	}

	select {
	case roster := <-reply:
		return roster, nil
	case <-h.done:
		return Roster{}, ErrHubStopped
	case <-ctx.Done():
		return Roster{}, ctx.Err()
	}
}

// pump forwards a client's commands into the inbox, followed by its disconnect.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				h.submit(ctx, request{kind: requestDisconnect, client: c})
				return
			}
			if cmd == nil {
				continue
			}
			if !h.submit(ctx, request{kind: requestCommand, client: c, cmd: cmd}) {
				return
			}
		}
	}
}

func (h *Hub) submit(ctx context.Context, req request) bool {
	select {
	case h.inbox <- req:
		return true
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) handle(ctx context.Context, req request) {
	switch req.kind {
	case requestRegister:
		h.register(ctx, req.client)
	case requestCommand:
		if _, ok := h.clients[req.client]; !ok {
			return
		}
		h.dispatch(req.client, req.cmd)
	case requestDisconnect:
		h.disconnect(req.client)
	case requestRoster:
		req.reply <- Roster{Names: h.room.Names(), Capacity: RoomCapacity}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoin:
		h.join(c, cmd.Name)
	case CommandSendMessage:
		h.sendMessage(c, cmd.Text)
	case CommandTyping:
		h.setTyping(c, true)
	case CommandStopTyping:
		h.setTyping(c, false)
	default:
		h.reject(c, &CoreError{Code: ErrCodeBadRequest, Message: "unknown command"})
	}
}

func (h *Hub) register(ctx context.Context, c *Client) {
	if c == nil {
		return
	}
	if _, exists := h.clients[c]; exists {
		return
	}
	h.clients[c] = struct{}{}
	go h.pump(ctx, c)

	h.log.Debug().Str("client_id", c.ID).Int("clients", len(h.clients)).Msg("client registered")
}

func (h *Hub) join(c *Client, requested string) {
	current, rejoin := h.room.Participant(c.ID)
	if !rejoin && h.room.Full() {
		h.reject(c, coreError(ErrCodeRoomFull, ErrRoomFull))
		return
	}

	name := strings.TrimSpace(requested)
	if err := validateName(name); err != nil {
		h.reject(c, err)
		return
	}
	if h.room.NameTaken(name, c.ID) {
		h.reject(c, coreError(ErrCodeNameTaken, ErrNameTaken))
		return
	}

	at := h.stamp()
	if rejoin {
		current.Name = name
		current.Typing = false
	} else {
		h.room.Put(&Participant{ClientID: c.ID, Name: name, JoinedAt: at})
	}

	h.log.Info().Str("client_id", c.ID).Str("user", name).Bool("rejoin", rejoin).Msg("user joined")

	h.broadcast(&Event{Kind: EventUserJoined, User: name, At: at}, c)
	h.broadcastRoster(at)
	h.deliver(c, &Event{Kind: EventSystemMessage, Text: fmt.Sprintf(welcomeFormat, name), At: at})
}

func validateName(name string) *CoreError {
	if name == "" {
		return coreError(ErrCodeInvalidName, ErrNameRequired)
	}
	if utf8.RuneCountInString(name) > MaxNameRunes {
		return coreError(ErrCodeInvalidName, ErrNameTooLong)
	}
	return nil
}

func (h *Hub) sendMessage(c *Client, raw string) {
	p, ok := h.room.Participant(c.ID)
	if !ok {
		h.reject(c, coreError(ErrCodeNotJoined, ErrNotJoined))
		return
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}
	if utf8.RuneCountInString(text) > MaxMessageRunes {
		h.reject(c, coreError(ErrCodeMessageTooLong, ErrMessageTooLong))
		return
	}

	msg := Message{
		ID:        uuid.NewString(),
		From:      p.Name,
		Text:      text,
		CreatedAt: h.stamp(),
	}
	h.broadcast(&Event{Kind: EventChatMessage, User: p.Name, Message: msg, At: msg.CreatedAt}, nil)
}

func (h *Hub) setTyping(c *Client, typing bool) {
	p, ok := h.room.Participant(c.ID)
	if !ok {
		return
	}
	p.Typing = typing
	h.broadcast(&Event{Kind: EventTypingChanged, User: p.Name, Typing: typing, At: h.stamp()}, c)
}

func (h *Hub) disconnect(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Events)

	p, ok := h.room.Remove(c.ID)
	if !ok {
		h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
		return
	}

	h.log.Info().Str("client_id", c.ID).Str("user", p.Name).Msg("user left")

	at := h.stamp()
	h.broadcast(&Event{Kind: EventUserLeft, User: p.Name, At: at}, nil)
	h.broadcastRoster(at)
}

func (h *Hub) closeClients() {
	for c := range h.clients {
		delete(h.clients, c)
		close(c.Events)
	}
}

func (h *Hub) reject(c *Client, err *CoreError) {
	h.log.Debug().Str("client_id", c.ID).Str("code", err.Code).Msg("command rejected")
	h.deliver(c, &Event{Kind: EventError, Error: err, At: h.stamp()})
}

func (h *Hub) broadcastRoster(at time.Time) {
	h.broadcast(&Event{Kind: EventRosterChanged, Names: h.room.Names(), At: at}, nil)
}

// broadcast delivers event to every registered client except skip.
// Recipients share the event and must treat it as read-only.
func (h *Hub) broadcast(event *Event, skip *Client) {
	for client := range h.clients {
		if client == skip {
			continue
		}
		h.deliver(client, event)
	}
}

func (h *Hub) deliver(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
		h.log.Debug().Str("client_id", c.ID).Stringer("event", event.Kind).Msg("event dropped")
	}
}

// stamp returns a UTC timestamp that never goes backwards across calls.
func (h *Hub) stamp() time.Time {
	t := h.now().UTC()
	if t.Before(h.last) {
		t = h.last
	}
	h.last = t
	return t
}
