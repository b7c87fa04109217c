package core

import (
	"time"

	"github.com/samber/lo"
)

// RoomCapacity is the maximum number of participants in the room.
const RoomCapacity = 2

// Participant binds a client connection to its display name.
type Participant struct {
	ClientID string
	Name     string
	Typing   bool
	JoinedAt time.Time
}

// Room tracks current participants in join order.
// It is not safe for concurrent use; the hub run loop owns it.
type Room struct {
	participants map[string]*Participant
	order        []string
}

// NewRoom constructs an empty room.
func NewRoom() *Room {
	return &Room{
		participants: make(map[string]*Participant, RoomCapacity),
		order:        make([]string, 0, RoomCapacity),
	}
}

// Participant returns the participant bound to clientID.
func (r *Room) Participant(clientID string) (*Participant, bool) {
	p, ok := r.participants[clientID]
	return p, ok
}

// Len returns the number of participants.
func (r *Room) Len() int {
	return len(r.order)
}

// Full reports whether a client that is not yet a participant would be turned away.
func (r *Room) Full() bool {
	return len(r.order) >= RoomCapacity
}

// NameTaken reports whether a participant other than exceptID already uses name.
func (r *Room) NameTaken(name, exceptID string) bool {
	for _, id := range r.order {
		if id != exceptID && r.participants[id].Name == name {
			return true
		}
	}
	return false
}

// Put inserts p, or replaces the participant already bound to p.ClientID
// while keeping its position in the roster.
func (r *Room) Put(p *Participant) {
	if _, exists := r.participants[p.ClientID]; !exists {
		r.order = append(r.order, p.ClientID)
	}
	r.participants[p.ClientID] = p
}

// Remove deletes the participant bound to clientID. Returns it if present.
func (r *Room) Remove(clientID string) (*Participant, bool) {
	p, exists := r.participants[clientID]
	if !exists {
		return nil, false
	}
	delete(r.participants, clientID)
	r.order = lo.Without(r.order, clientID)
	return p, true
}

// Names returns participant display names in join order.
func (r *Room) Names() []string {
	return lo.Map(r.order, func(id string, _ int) string {
		return r.participants[id].Name
	})
}
