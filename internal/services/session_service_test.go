package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/auth"
)

func newSessionService(t *testing.T) (*SessionService, *UserService, *sql.DB) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db, NewEventService(db))
	sessions := NewSessionService(db, users, []byte("test-secret"), time.Hour)
	return sessions, users, db
}

func TestLoginAndUserFromToken(t *testing.T) {
	sessions, users, _ := newSessionService(t)
	registerUser(t, users, "alice", "pw123")

	token, user, err := sessions.Login("alice", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)

	resolved, err := sessions.UserFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	sessions, users, _ := newSessionService(t)
	registerUser(t, users, "alice", "pw123")

	_, _, err := sessions.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = sessions.Login("nobody", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserFromToken_Rejections(t *testing.T) {
	sessions, users, _ := newSessionService(t)
	registerUser(t, users, "alice", "pw123")

	_, err := sessions.UserFromToken("")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = sessions.UserFromToken("garbage.token.value")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogout_RevokesSession(t *testing.T) {
	sessions, users, _ := newSessionService(t)
	registerUser(t, users, "alice", "pw123")

	token, _, err := sessions.Login("alice", "pw123")
	require.NoError(t, err)

	require.NoError(t, sessions.Logout(token))

	// The JWT is still well-formed and unexpired, but the session is gone.
	_, err = sessions.UserFromToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogout_Idempotent(t *testing.T) {
	sessions, users, _ := newSessionService(t)
	registerUser(t, users, "alice", "pw123")

	token, _, err := sessions.Login("alice", "pw123")
	require.NoError(t, err)

	require.NoError(t, sessions.Logout(token))
	require.NoError(t, sessions.Logout(token), "terminating twice must not error")
	require.NoError(t, sessions.Logout("not-even-a-token"))
}

func TestConcurrentSessions(t *testing.T) {
	sessions, users, _ := newSessionService(t)
	registerUser(t, users, "alice", "pw123")

	first, _, err := sessions.Login("alice", "pw123")
	require.NoError(t, err)
	second, _, err := sessions.Login("alice", "pw123")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, sessions.Logout(first))

	// Logging out one session leaves the other intact.
	_, err = sessions.UserFromToken(first)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = sessions.UserFromToken(second)
	assert.NoError(t, err)
}

func TestUserFromToken_ExpiredSessionRow(t *testing.T) {
	sessions, users, db := newSessionService(t)
	registerUser(t, users, "alice", "pw123")

	token, _, err := sessions.Login("alice", "pw123")
	require.NoError(t, err)

	_, err = db.Exec("UPDATE sessions SET expires_at = ?", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = sessions.UserFromToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPurgeExpired(t *testing.T) {
	sessions, users, db := newSessionService(t)
	registerUser(t, users, "alice", "pw123")

	expired, _, err := sessions.Login("alice", "pw123")
	require.NoError(t, err)
	live, _, err := sessions.Login("alice", "pw123")
	require.NoError(t, err)

	// Age out only the first session.
	claims, err := auth.ParseToken(expired, []byte("test-secret"))
	require.NoError(t, err)
	_, err = db.Exec("UPDATE sessions SET expires_at = ? WHERE id = ?", time.Now().Add(-time.Minute), claims.ID)
	require.NoError(t, err)

	purged, err := sessions.PurgeExpired(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = sessions.UserFromToken(expired)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = sessions.UserFromToken(live)
	assert.NoError(t, err)
}
