package core

import "time"

// Message is the domain model for a chat message. It is never mutated after
// the hub creates it.
type Message struct {
	ID        string
	From      string
	Text      string
	CreatedAt time.Time
}
