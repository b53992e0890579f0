package storage

import (
	"context"
	"time"

	"github.com/louisbranch/todo.space/internal/platform/errors"
	"github.com/louisbranch/todo.space/internal/services/todo/account"
	"github.com/louisbranch/todo.space/internal/services/todo/item"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// ErrEmailTaken indicates a user already registered the email address.
var ErrEmailTaken = errors.New(errors.CodeEmailTaken, "email already registered")

// ItemStore persists to-do items.
type ItemStore interface {
	// ListItems returns userID's items ordered by creation time, then id.
	ListItems(ctx context.Context, userID string) ([]item.Item, error)
	// CreateItem inserts it and returns the row as stored.
	CreateItem(ctx context.Context, it item.Item) (item.Item, error)
	// UpdateItem applies patch to an owned item and returns the stored row.
	UpdateItem(ctx context.Context, userID string, itemID string, patch item.Patch, now time.Time) (item.Item, error)
	DeleteItem(ctx context.Context, userID string, itemID string) error
}

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u account.User) error
	GetUser(ctx context.Context, userID string) (account.User, error)
	GetUserByEmail(ctx context.Context, email string) (account.User, error)
}

// SessionStore persists login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session account.Session) error
	GetSession(ctx context.Context, sessionID string) (account.Session, error)
	// ExtendSession moves a session's expiry and records the refresh time.
	ExtendSession(ctx context.Context, sessionID string, updatedAt time.Time, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sessionID string) error
	// DeleteExpiredSessions removes sessions expired at now and returns the count.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Pinger reports storage liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
