package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvalmar/postdeck-be/internal/models"
	"github.com/nvalmar/postdeck-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// PostServiceProvider defines the interface for post lifecycle management.
type PostServiceProvider interface {
	Create(ownerID, title, content string, status *models.PostStatus, tags []string) (models.Post, error)
	Edit(ownerID, postID, title, content string, status *models.PostStatus, tags []string) (models.Post, error)
	SoftDelete(ownerID, postID string) error
	Restore(ownerID, postID string) error
	Get(postID string, includeDeleted bool) (models.Post, error)
	ListAll(includeDeleted bool) ([]models.Post, error)
	ListByOwner(ownerID string, includeDeleted bool) ([]models.Post, error)
	Search(term string, status *models.PostStatus, includeDeleted bool) ([]models.Post, error)
}

// PostService implements the ownership-scoped post state machine. Every
// mutation is gated on the caller owning the post; failures on that gate
// are merged into ErrNotFoundOrForbidden.
type PostService struct {
	db       *sql.DB
	activity ActivityServiceProvider
	feed     *websocket.Hub
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, activity ActivityServiceProvider, feed *websocket.Hub) *PostService {
	return &PostService{db: db, activity: activity, feed: feed}
}

const postColumns = "id, user_id, title, content, status, is_deleted, tags_json, created_at, updated_at"

// Create inserts a new post owned by ownerID. Status defaults to Draft,
// the soft-delete flag starts false, and both timestamps are set to now.
func (s *PostService) Create(ownerID, title, content string, status *models.PostStatus, tags []string) (models.Post, error) {
	if strings.TrimSpace(title) == "" {
		return models.Post{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	st := models.StatusDraft
	if status != nil {
		st = *status
	}
	if !models.ValidStatus(st) {
		return models.Post{}, ErrInvalidStatus
	}

	tagsJSON, err := encodeTags(tags)
	if err != nil {
		return models.Post{}, err
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		Status:    st,
		Tags:      normalizeTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	stmt, err := s.db.Prepare(`INSERT INTO posts (id, user_id, title, content, status, is_deleted, tags_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`)
	if err != nil {
		return models.Post{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(post.ID, post.UserID, post.Title, post.Content, string(post.Status), tagsJSON, post.CreatedAt, post.UpdatedAt); err != nil {
		return models.Post{}, err
	}

	s.notify("post.created", post)
	return post, nil
}

// Edit updates title, content, status, and tags of a post. It succeeds only
// when the post exists, belongs to ownerID, and is not soft-deleted. A nil
// status keeps the stored status; it is never reset to Draft implicitly.
func (s *PostService) Edit(ownerID, postID, title, content string, status *models.PostStatus, tags []string) (models.Post, error) {
	if strings.TrimSpace(title) == "" {
		return models.Post{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	current, err := s.ownedActivePost(ownerID, postID)
	if err != nil {
		return models.Post{}, err
	}

	st := current.Status
	if status != nil {
		st = *status
	}
	if !models.ValidStatus(st) {
		return models.Post{}, ErrInvalidStatus
	}

	tagsJSON, err := encodeTags(tags)
	if err != nil {
		return models.Post{}, err
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(`UPDATE posts SET title = ?, content = ?, status = ?, tags_json = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		title, content, string(st), tagsJSON, now, postID, ownerID)
	if err != nil {
		return models.Post{}, err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return models.Post{}, err
	} else if affected == 0 {
		return models.Post{}, ErrNotFoundOrForbidden
	}

	post := current
	post.Title = title
	post.Content = content
	post.Status = st
	post.Tags = normalizeTags(tags)
	post.UpdatedAt = now

	s.notify("post.updated", post)
	return post, nil
}

// SoftDelete hides a post without removing its data. Only the owner may
// delete, and only while the post is active.
func (s *PostService) SoftDelete(ownerID, postID string) error {
	res, err := s.db.Exec(`UPDATE posts SET is_deleted = 1, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		time.Now().UTC(), postID, ownerID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return ErrNotFoundOrForbidden
	}

	s.notify("post.deleted", map[string]string{"id": postID})
	return nil
}

// Restore clears the soft-delete flag of a post the caller owns. The status
// the post had before deletion is untouched.
func (s *PostService) Restore(ownerID, postID string) error {
	res, err := s.db.Exec(`UPDATE posts SET is_deleted = 0, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_deleted = 1`,
		time.Now().UTC(), postID, ownerID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return ErrNotFoundOrForbidden
	}

	s.notify("post.restored", map[string]string{"id": postID})
	return nil
}

// Get retrieves a single post by id. Soft-deleted posts are only visible
// when includeDeleted is set.
func (s *PostService) Get(postID string, includeDeleted bool) (models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE id = ?"
	if !includeDeleted {
		query += " AND is_deleted = 0"
	}
	post, err := scanPost(s.db.QueryRow(query, postID))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, ErrNotFoundOrForbidden
		}
		return models.Post{}, err
	}
	return post, nil
}

// ListAll returns every post. No ordering is guaranteed.
func (s *PostService) ListAll(includeDeleted bool) ([]models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts"
	if !includeDeleted {
		query += " WHERE is_deleted = 0"
	}
	return s.queryPosts(query)
}

// ListByOwner returns the posts of one owner, most recent first.
func (s *PostService) ListByOwner(ownerID string, includeDeleted bool) ([]models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE user_id = ?"
	if !includeDeleted {
		query += " AND is_deleted = 0"
	}
	query += " ORDER BY created_at DESC"
	return s.queryPosts(query, ownerID)
}

// Search matches term as a case-insensitive substring of title or content,
// optionally restricted to one status, most recent first.
func (s *PostService) Search(term string, status *models.PostStatus, includeDeleted bool) ([]models.Post, error) {
	where := []string{"(lower(title) LIKE ? OR lower(content) LIKE ?)"}
	pattern := "%" + strings.ToLower(term) + "%"
	args := []interface{}{pattern, pattern}

	if !includeDeleted {
		where = append(where, "is_deleted = 0")
	}
	if status != nil {
		if !models.ValidStatus(*status) {
			return nil, ErrInvalidStatus
		}
		where = append(where, "status = ?")
		args = append(args, string(*status))
	}

	query := "SELECT " + postColumns + " FROM posts WHERE " + strings.Join(where, " AND ") +
		" ORDER BY created_at DESC"
	return s.queryPosts(query, args...)
}

// ownedActivePost loads a post only if it is owned by ownerID and not
// soft-deleted; anything else collapses into ErrNotFoundOrForbidden.
func (s *PostService) ownedActivePost(ownerID, postID string) (models.Post, error) {
	row := s.db.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = ? AND user_id = ? AND is_deleted = 0",
		postID, ownerID)
	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, ErrNotFoundOrForbidden
		}
		return models.Post{}, err
	}
	return post, nil
}

func (s *PostService) queryPosts(query string, args ...interface{}) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// notify fans a lifecycle event out to the websocket feed and the activity
// log. Neither failure aborts the request that triggered it.
func (s *PostService) notify(action string, payload interface{}) {
	if s.feed != nil {
		s.feed.Publish(action, payload)
	}
	if s.activity != nil {
		var postID *string
		switch p := payload.(type) {
		case models.Post:
			postID = &p.ID
		case map[string]string:
			if id, ok := p["id"]; ok {
				postID = &id
			}
		}
		if err := s.activity.Record(action, "info", "Post lifecycle: "+action, postID); err != nil {
			log.Warn().Err(err).Str("action", action).Msg("Failed to record post event")
		}
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var post models.Post
	var status string
	var tagsJSON string
	err := row.Scan(&post.ID, &post.UserID, &post.Title, &post.Content, &status,
		&post.IsDeleted, &tagsJSON, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return models.Post{}, err
	}
	post.Status = models.PostStatus(status)
	if err := json.Unmarshal([]byte(tagsJSON), &post.Tags); err != nil {
		return models.Post{}, fmt.Errorf("decode tags for post %s: %w", post.ID, err)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post, nil
}

// encodeTags serializes the tag sequence as a JSON array. An empty or nil
// slice becomes "[]", which stays distinct from a single empty-string tag.
func encodeTags(tags []string) (string, error) {
	b, err := json.Marshal(normalizeTags(tags))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
