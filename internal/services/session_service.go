package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tasktrack/internal/auth"
	"tasktrack/internal/models"
)

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	Login(username, password string) (string, models.User, error)
	UserFromToken(tokenStr string) (models.User, error)
	Logout(tokenStr string) error
	PurgeExpired(now time.Time) (int64, error)
}

// SessionService issues and validates authenticated sessions. A session is a
// signed JWT whose token ID points at a server-side row, so logout revokes
// the token even before its signature expires.
type SessionService struct {
	db      *sql.DB
	userSvc UserServiceProvider
	secret  []byte
	ttl     time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *sql.DB, userSvc UserServiceProvider, secret []byte, ttl time.Duration) *SessionService {
	return &SessionService{
		db:      db,
		userSvc: userSvc,
		secret:  secret,
		ttl:     ttl,
	}
}

// Login verifies credentials and issues a new session token. A user may hold
// any number of concurrent sessions.
func (s *SessionService) Login(username, password string) (string, models.User, error) {
	user, err := s.userSvc.Authenticate(username, password)
	if err != nil {
		return "", models.User{}, err
	}

	sessionID := uuid.New().String()
	expiresAt := time.Now().Add(s.ttl)

	stmt, err := s.db.Prepare("INSERT INTO sessions(id, user_id, expires_at) VALUES(?, ?, ?)")
	if err != nil {
		return "", models.User{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(sessionID, user.ID, expiresAt); err != nil {
		return "", models.User{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	token, err := auth.GenerateToken(user, sessionID, s.secret, s.ttl)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// UserFromToken resolves a token to the user it authenticates. It fails with
// ErrUnauthenticated when the token is missing, malformed, expired, revoked
// by logout, or no longer maps to an existing user.
func (s *SessionService) UserFromToken(tokenStr string) (models.User, error) {
	if tokenStr == "" {
		return models.User{}, ErrUnauthenticated
	}

	claims, err := auth.ParseToken(tokenStr, s.secret)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}

	var userID string
	var expiresAt time.Time
	row := s.db.QueryRow("SELECT user_id, expires_at FROM sessions WHERE id = ?", claims.ID)
	if err := row.Scan(&userID, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUnauthenticated
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if time.Now().After(expiresAt) || userID != claims.UserID {
		return models.User{}, ErrUnauthenticated
	}

	user, err := s.userSvc.GetUserByID(userID)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}
	return user, nil
}

// Logout invalidates the session behind a token. Terminating an already
// terminated or garbage token is not an error.
func (s *SessionService) Logout(tokenStr string) error {
	claims, err := auth.ParseToken(tokenStr, s.secret)
	if err != nil {
		return nil
	}

	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", claims.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// PurgeExpired removes session rows whose expiry has passed and reports how
// many were deleted.
func (s *SessionService) PurgeExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at < ?", now)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return res.RowsAffected()
}
