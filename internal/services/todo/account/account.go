package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/todo.space/internal/platform/id"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// User is a registered account with a bcrypt password hash.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the public identity of u.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Session is a server-side login session.
type Session struct {
	ID        string
	UserID    string
	UserAgent string
	IPAddress string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NeedsRefresh reports whether the session was last extended at least
// updateAge ago. A non-positive updateAge refreshes on every use.
func (s Session) NeedsRefresh(now time.Time, updateAge time.Duration) bool {
	return now.Sub(s.UpdatedAt) >= updateAge
}

// NewUser builds a user record from validated sign-up input.
func NewUser(input SignUpInput, passwordHash string, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if strings.TrimSpace(passwordHash) == "" {
		return User{}, fmt.Errorf("password hash is required")
	}
	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}
	createdAt := now().UTC().Truncate(time.Millisecond)
	return User{
		ID:           userID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// NewSession opens a session for userID that expires after ttl.
func NewSession(userID string, client ClientInfo, ttl time.Duration, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if strings.TrimSpace(userID) == "" {
		return Session{}, fmt.Errorf("user id is required")
	}
	if ttl <= 0 {
		return Session{}, fmt.Errorf("session ttl must be positive")
	}
	sessionID, err := idGenerator()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}
	createdAt := now().UTC().Truncate(time.Millisecond)
	return Session{
		ID:        sessionID,
		UserID:    userID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}, nil
}

// ClientInfo records where a session was opened from.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
