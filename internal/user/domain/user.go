package domain

import "time"

type ID string

// User is the store-resident account record. PasswordHash never leaves
// the repository/service boundary in any response shape.
type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Summary is the shape a user takes when embedded in another user's
// friend list.
type Summary struct {
	ID       ID
	Username string
	Email    string
}
