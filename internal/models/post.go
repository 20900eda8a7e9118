package models

import "time"

// PostStatus enumerates the visibility states of an active post.
type PostStatus string

const (
	StatusDraft     PostStatus = "Draft"
	StatusPublished PostStatus = "Published"
	StatusArchived  PostStatus = "Archived"
)

// ValidStatus reports whether s is one of the three allowed post statuses.
func ValidStatus(s PostStatus) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Post is a short text post owned by a single user. A soft-deleted post is
// hidden from default reads but keeps all of its data so it can be restored.
type Post struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Status    PostStatus `json:"status"`
	IsDeleted bool       `json:"isDeleted"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
