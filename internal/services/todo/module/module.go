// Package module defines the contract between the root composer and the
// feature modules that mount routes under it.
package module

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/todo.space/internal/services/todo/account"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/authn"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/requestmeta"
	"github.com/louisbranch/todo.space/internal/services/todo/session"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
)

// Module is one mountable feature area.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}

// Mount is a module's root prefix and handler.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Accounts is the account surface used by the auth module.
type Accounts interface {
	SignUp(ctx context.Context, input account.SignUpInput, client account.ClientInfo) (session.Result, error)
	SignIn(ctx context.Context, input account.SignInInput, client account.ClientInfo) (session.Result, error)
	SignOut(ctx context.Context, token string) error
	Lookup(ctx context.Context, token string) (session.Result, bool, error)
	TTL() time.Duration
}

// Dependencies carries shared collaborators for modules.
type Dependencies struct {
	Items        storage.ItemStore
	Accounts     Accounts
	Resolver     authn.Resolver
	Health       storage.Pinger
	Logger       *log.Logger
	Now          func() time.Time
	NewID        func() (string, error)
	SchemePolicy requestmeta.SchemePolicy
	// StaticAssets reports whether client assets are served under /static/.
	StaticAssets bool
}

// LoggerOrDefault returns the configured logger or the standard logger.
func (d Dependencies) LoggerOrDefault() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}

// NowOrDefault returns the configured clock or time.Now.
func (d Dependencies) NowOrDefault() func() time.Time {
	if d.Now == nil {
		return time.Now
	}
	return d.Now
}
