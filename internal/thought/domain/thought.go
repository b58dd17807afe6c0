package domain

import "time"

type ID string

// Thought is a short user-authored post. Username is a denormalized
// author stamp taken from the authenticated identity at creation, not a
// live reference.
type Thought struct {
	ID        ID
	Body      string
	Username  string
	CreatedAt time.Time
	Reactions []Reaction
}

// Reaction is owned exclusively by its parent Thought and is never
// independently addressable.
type Reaction struct {
	ID        string
	Body      string
	Username  string
	CreatedAt time.Time
}
