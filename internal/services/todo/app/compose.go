// Package app composes feature modules into the root HTTP handler.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
)

// ComposeInput lists the modules of each route group.
type ComposeInput struct {
	Dependencies     module.Dependencies
	PublicModules    []module.Module
	ProtectedModules []module.Module
}

// Composer mounts module groups on one root mux.
type Composer struct{}

// group is a set of modules sharing a mount rule.
type group struct {
	name    string
	modules []module.Module
	// check validates a normalized prefix for this group.
	check func(prefix string) error
}

// Compose mounts public modules as they are. Protected modules must sit
// under /api/ and apply their own session and origin checks. Any /api/
// path no module claims gets a JSON 404.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	m := &mounter{mux: http.NewServeMux(), owners: map[string]string{}}
	groups := []group{
		{name: "public", modules: input.PublicModules},
		{
			name:    "protected",
			modules: input.ProtectedModules,
			check:   requireAPIPrefix,
		},
	}
	for _, g := range groups {
		for _, feature := range g.modules {
			if feature == nil {
				return nil, fmt.Errorf("%s group: nil module", g.name)
			}
			if err := m.mount(feature, input.Dependencies, g); err != nil {
				return nil, err
			}
		}
	}
	if _, claimed := m.owners[routepath.APIPrefix]; !claimed {
		m.mux.Handle(routepath.APIPrefix, httpx.NotFound(""))
	}
	return m.mux, nil
}

type mounter struct {
	mux *http.ServeMux
	// owners maps a mounted prefix to the id of the module holding it.
	owners map[string]string
}

func (m *mounter) mount(feature module.Module, deps module.Dependencies, g group) error {
	id := feature.ID()
	mnt, err := feature.Mount(deps)
	if err != nil {
		return fmt.Errorf("mount module %q: %w", id, err)
	}
	if mnt.Handler == nil {
		return fmt.Errorf("mount module %q: nil handler", id)
	}
	prefix, ok := canonicalPrefix(mnt.Prefix)
	if !ok {
		return fmt.Errorf("mount module %q: empty prefix", id)
	}
	if g.check != nil {
		if err := g.check(prefix); err != nil {
			return fmt.Errorf("mount module %q: %w", id, err)
		}
	}
	if owner, taken := m.owners[prefix]; taken {
		return fmt.Errorf("mount module %q: prefix %s already mounted by %q", id, prefix, owner)
	}
	m.owners[prefix] = id

	h := mnt.Handler
	m.mux.Handle(prefix, h)
	// Without the bare pattern the mux would redirect /api/todos to /api/todos/.
	if prefix != "/" {
		m.mux.Handle(strings.TrimSuffix(prefix, "/"), h)
	}
	return nil
}

// canonicalPrefix returns prefix with exactly one leading and one trailing
// slash.
func canonicalPrefix(prefix string) (string, bool) {
	trimmed := strings.Trim(strings.TrimSpace(prefix), "/")
	if trimmed == "" {
		return "/", strings.TrimSpace(prefix) != ""
	}
	return "/" + trimmed + "/", true
}

func requireAPIPrefix(prefix string) error {
	if prefix == routepath.APIPrefix || !strings.HasPrefix(prefix, routepath.APIPrefix) {
		return errors.New("protected prefix " + prefix + " must sit below " + routepath.APIPrefix)
	}
	return nil
}
