package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"tasktrack/internal/database"
	"tasktrack/internal/models"
)

// newTestDB opens an in-memory database with the real schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// registerUser creates a user through the real registration path.
func registerUser(t *testing.T, users *UserService, username, password string) models.User {
	t.Helper()

	user, err := users.Register(username, password)
	require.NoError(t, err)
	return user
}
