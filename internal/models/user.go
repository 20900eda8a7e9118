package models

import "time"

// User represents a registered account. Email doubles as the login name and
// is unique across all users.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Gender       string    `json:"gender"`
	Active       bool      `json:"active"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	PasswordSalt string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayName returns the name embedded in issued tokens.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
