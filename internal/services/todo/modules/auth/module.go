// Package auth serves email sign-up, sign-in, sign-out and session lookup.
package auth

import (
	"fmt"
	"net/http"

	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
)

// Module provides the account session routes.
type Module struct{}

// New returns an auth module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Mount wires auth route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Accounts == nil {
		return module.Mount{}, fmt.Errorf("accounts are required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps))
	return module.Mount{Prefix: routepath.AuthPrefix, Handler: httpx.SameOriginWrites(deps.SchemePolicy)(mux)}, nil
}
