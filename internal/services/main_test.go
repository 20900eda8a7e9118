package services

import (
	"database/sql"
	"testing"

	"github.com/nvalmar/postdeck-be/internal/database"
	"github.com/nvalmar/postdeck-be/internal/models"
	"github.com/stretchr/testify/require"
)

// newTestDB opens an in-memory database with the full schema applied. The
// pool is pinned to one connection so every query sees the same memory db.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func registerTestUser(t *testing.T, users *UserService, email string) models.User {
	t.Helper()

	user, err := users.Register("Test", "User", email, "other", "Secret123")
	require.NoError(t, err)
	return user
}
