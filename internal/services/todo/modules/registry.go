// Package modules lists the feature modules mounted by the todo server.
package modules

import (
	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/modules/auth"
	"github.com/louisbranch/todo.space/internal/services/todo/modules/health"
	"github.com/louisbranch/todo.space/internal/services/todo/modules/shell"
	"github.com/louisbranch/todo.space/internal/services/todo/modules/todos"
)

// DefaultPublicModules returns modules served without origin checks.
func DefaultPublicModules() []module.Module {
	return []module.Module{
		shell.New(),
		health.New(),
	}
}

// DefaultProtectedModules returns API modules that reject cross-origin
// writes.
func DefaultProtectedModules() []module.Module {
	return []module.Module{
		auth.New(),
		todos.New(),
	}
}
