package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/todo.space/internal/services/todo/account"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

const sessionColumns = `id, user_id, user_agent, ip_address, created_at, updated_at, expires_at`

// CreateUser inserts a user. A duplicate email is storage.ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, u account.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
	)
	if isUniqueViolation(err, "users.email") {
		return storage.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser fetches a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (account.User, error) {
	if err := s.ready(ctx); err != nil {
		return account.User{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return account.User{}, fmt.Errorf("user id is required")
	}
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
}

// GetUserByEmail fetches a user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	if err := s.ready(ctx); err != nil {
		return account.User{}, err
	}
	if strings.TrimSpace(email) == "" {
		return account.User{}, fmt.Errorf("email is required")
	}
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (s *Store) getUser(ctx context.Context, query string, arg string) (account.User, error) {
	var (
		u         account.User
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return account.User{}, storage.ErrNotFound
	}
	if err != nil {
		return account.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

// CreateSession inserts a login session.
func (s *Store) CreateSession(ctx context.Context, session account.Session) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(session.UserID) == "" {
		return fmt.Errorf("user id is required")
	}

	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.UserAgent,
		session.IPAddress,
		toMillis(session.CreatedAt),
		toMillis(session.UpdatedAt),
		toMillis(session.ExpiresAt),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession fetches a session by ID, expired or not.
func (s *Store) GetSession(ctx context.Context, sessionID string) (account.Session, error) {
	if err := s.ready(ctx); err != nil {
		return account.Session{}, err
	}
	if strings.TrimSpace(sessionID) == "" {
		return account.Session{}, storage.ErrNotFound
	}

	var (
		session   account.Session
		createdAt int64
		updatedAt int64
		expiresAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`,
		sessionID,
	).Scan(&session.ID, &session.UserID, &session.UserAgent, &session.IPAddress, &createdAt, &updatedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return account.Session{}, storage.ErrNotFound
	}
	if err != nil {
		return account.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = fromMillis(createdAt)
	session.UpdatedAt = fromMillis(updatedAt)
	session.ExpiresAt = fromMillis(expiresAt)
	return session, nil
}

// ExtendSession moves a session's expiry forward.
func (s *Store) ExtendSession(ctx context.Context, sessionID string, updatedAt time.Time, expiresAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ?, expires_at = ? WHERE id = ?`,
		toMillis(updatedAt),
		toMillis(expiresAt),
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("extend session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("extend session rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions whose expiry is at or before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions rows affected: %w", err)
	}
	return affected, nil
}
