package models

import "time"

// Event represents an entry in the activity log.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "post.created", "user.login"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	PostID    *string   `json:"postId,omitempty"` // Nullable for auth events
	CreatedAt time.Time `json:"createdAt"`
}
