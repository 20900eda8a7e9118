package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/nvalmar/postdeck-be/internal/models"
)

// ActivityServiceProvider defines the interface for the activity log.
type ActivityServiceProvider interface {
	Record(eventType, level, message string, postID *string) error
	GetRecent(limit int) ([]models.Event, error)
}

// ActivityService persists auth and post lifecycle events.
type ActivityService struct {
	db *sql.DB
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record appends an event to the activity log.
func (s *ActivityService) Record(eventType, level, message string, postID *string) error {
	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, post_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(uuid.New().String(), eventType, level, message, postID)
	return err
}

// GetRecent retrieves the most recent events, newest first.
func (s *ActivityService) GetRecent(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, post_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.PostID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
