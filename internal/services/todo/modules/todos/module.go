// Package todos serves the session-gated to-do item API.
package todos

import (
	"fmt"
	"net/http"

	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
)

// Module provides the authenticated to-do routes.
type Module struct{}

// New returns a todos module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "todos" }

// Mount wires to-do route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Items == nil {
		return module.Mount{}, fmt.Errorf("item store is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps), deps)
	return module.Mount{Prefix: routepath.TodosAPIPrefix, Handler: mux}, nil
}
