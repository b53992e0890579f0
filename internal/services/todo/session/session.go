package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/todo.space/internal/platform/errors"
	"github.com/louisbranch/todo.space/internal/platform/id"
	"github.com/louisbranch/todo.space/internal/services/todo/account"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/sessioncookie"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultTTL is how long a session lives without use.
	DefaultTTL = 7 * 24 * time.Hour
	// DefaultUpdateAge is how often an active session's expiry is extended.
	DefaultUpdateAge = 24 * time.Hour
	// MinSecretBytes is the minimum signing secret length.
	MinSecretBytes = 32

	tokenIssuer = "todo.space"
)

// ErrInvalidCredentials indicates an unknown email or a wrong password.
var ErrInvalidCredentials = apperrors.New(apperrors.CodeInvalidCredentials, "Invalid email or password")

// Config configures a Manager.
type Config struct {
	Secret    []byte
	TTL       time.Duration
	UpdateAge time.Duration
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
	Now      func() time.Time
	NewID    func() (string, error)
}

// Result is an authenticated session with its owner and client token.
type Result struct {
	Token   string
	Session account.Session
	User    account.User
	// Refreshed is true when this lookup extended the session expiry.
	Refreshed bool
}

// Manager signs users up and in and resolves their sessions.
type Manager struct {
	users     storage.UserStore
	sessions  storage.SessionStore
	secret    []byte
	ttl       time.Duration
	updateAge time.Duration
	hashCost  int
	now       func() time.Time
	newID     func() (string, error)

	dummyOnce sync.Once
	dummyHash []byte
}

// NewManager builds a Manager over user and session storage.
func NewManager(users storage.UserStore, sessions storage.SessionStore, cfg Config) (*Manager, error) {
	if users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if len(cfg.Secret) < MinSecretBytes {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretBytes)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.UpdateAge < 0 {
		cfg.UpdateAge = 0
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	if cfg.HashCost < bcrypt.MinCost || cfg.HashCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cfg.HashCost)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Manager{
		users:     users,
		sessions:  sessions,
		secret:    secret,
		ttl:       cfg.TTL,
		updateAge: cfg.UpdateAge,
		hashCost:  cfg.HashCost,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}, nil
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// SignUp registers a user and opens their first session.
//
// A taken email returns storage.ErrEmailTaken.
func (m *Manager) SignUp(ctx context.Context, input account.SignUpInput, client account.ClientInfo) (Result, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), m.hashCost)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := account.NewUser(input, string(hash), m.now, m.newID)
	if err != nil {
		return Result{}, err
	}
	if err := m.users.CreateUser(ctx, user); err != nil {
		return Result{}, err
	}
	return m.open(ctx, user, client)
}

// SignIn verifies credentials and opens a session.
func (m *Manager) SignIn(ctx context.Context, input account.SignInInput, client account.ClientInfo) (Result, error) {
	user, err := m.users.GetUserByEmail(ctx, account.NormalizeEmail(input.Email))
	if stderrors.Is(err, storage.ErrNotFound) {
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(m.placeholderHash(), []byte(input.Password))
		return Result{}, ErrInvalidCredentials
	}
	if err != nil {
		return Result{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return Result{}, ErrInvalidCredentials
	}
	return m.open(ctx, user, client)
}

// SignOut revokes the session named by token. Unknown tokens are ignored.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	claims, ok := m.parse(token)
	if !ok {
		return nil
	}
	if err := m.sessions.DeleteSession(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Lookup resolves token to a live session, extending it when due.
//
// ok is false for malformed, forged, revoked, or expired tokens.
func (m *Manager) Lookup(ctx context.Context, token string) (Result, bool, error) {
	claims, ok := m.parse(token)
	if !ok {
		return Result{}, false, nil
	}
	sess, err := m.sessions.GetSession(ctx, claims.ID)
	if stderrors.Is(err, storage.ErrNotFound) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("get session: %w", err)
	}
	if sess.UserID != claims.Subject {
		return Result{}, false, nil
	}

	now := m.now().UTC().Truncate(time.Millisecond)
	if sess.Expired(now) {
		if err := m.sessions.DeleteSession(ctx, sess.ID); err != nil {
			return Result{}, false, fmt.Errorf("delete expired session: %w", err)
		}
		return Result{}, false, nil
	}

	user, err := m.users.GetUser(ctx, sess.UserID)
	if stderrors.Is(err, storage.ErrNotFound) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("get session user: %w", err)
	}

	result := Result{Token: token, Session: sess, User: user}
	if sess.NeedsRefresh(now, m.updateAge) {
		expiresAt := now.Add(m.ttl)
		if err := m.sessions.ExtendSession(ctx, sess.ID, now, expiresAt); err != nil {
			return Result{}, false, fmt.Errorf("extend session: %w", err)
		}
		result.Session.UpdatedAt = now
		result.Session.ExpiresAt = expiresAt
		result.Refreshed = true
	}
	return result, true, nil
}

// ResolveSession resolves the caller identity from a raw header set.
func (m *Manager) ResolveSession(ctx context.Context, header http.Header) (account.Identity, bool, error) {
	token, ok := TokenFromHeader(header)
	if !ok {
		return account.Identity{}, false, nil
	}
	result, ok, err := m.Lookup(ctx, token)
	if err != nil || !ok {
		return account.Identity{}, false, err
	}
	return result.User.Identity(), true, nil
}

// PruneExpired deletes expired sessions and returns how many were removed.
func (m *Manager) PruneExpired(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpiredSessions(ctx, m.now().UTC())
}

// TokenFromHeader extracts the session token from the session cookie or an
// Authorization bearer header, in that order.
func TokenFromHeader(header http.Header) (string, bool) {
	if token, ok := sessioncookie.FromHeader(header); ok {
		return token, true
	}
	if header == nil {
		return "", false
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (m *Manager) open(ctx context.Context, user account.User, client account.ClientInfo) (Result, error) {
	sess, err := account.NewSession(user.ID, client, m.ttl, m.now, m.newID)
	if err != nil {
		return Result{}, err
	}
	if err := m.sessions.CreateSession(ctx, sess); err != nil {
		return Result{}, fmt.Errorf("create session: %w", err)
	}
	token, err := m.sign(sess)
	if err != nil {
		return Result{}, err
	}
	return Result{Token: token, Session: sess, User: user}, nil
}

func (m *Manager) sign(sess account.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   tokenIssuer,
		Subject:  sess.UserID,
		ID:       sess.ID,
		IssuedAt: jwt.NewNumericDate(sess.CreatedAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}

func (m *Manager) placeholderHash() []byte {
	m.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), m.hashCost)
		if err == nil {
			m.dummyHash = hash
		}
	})
	return m.dummyHash
}
