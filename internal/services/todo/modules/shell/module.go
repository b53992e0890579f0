// Package shell serves the HTML page shell for client-side routes.
package shell

import (
	"log"
	"net/http"

	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/i18n"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
	"github.com/louisbranch/todo.space/internal/services/todo/templates"
)

// Pages lists the client routes that render the shell.
var Pages = []string{routepath.Root, routepath.Login, routepath.Register, routepath.Todos}

// Module provides the page shell routes.
type Module struct{}

// New returns a shell module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "shell" }

// Mount wires page shell handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{logger: deps.LoggerOrDefault()}
	if deps.StaticAssets {
		h.assets = &templates.ShellAssets{
			Stylesheet: routepath.StaticPrefix + "app.css",
			Script:     routepath.StaticPrefix + "app.js",
		}
	}
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	for _, page := range Pages {
		pattern := page
		if page == routepath.Root {
			pattern = "/{$}"
		}
		mux.HandleFunc(http.MethodGet+" "+pattern, h.handlePage)
		mux.HandleFunc(pattern, methodNotAllowed)
	}
	mux.HandleFunc(routepath.Root, http.NotFound)
}

type handlers struct {
	logger *log.Logger
	assets *templates.ShellAssets
}

func (h handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	printer, lang := i18n.ResolveLocalizer(r)
	page := templates.ShellPage{
		Lang:     lang,
		Title:    printer.Sprintf("shell.title"),
		Route:    r.URL.Path,
		NoScript: printer.Sprintf("shell.noscript"),
		Loading:  printer.Sprintf("shell.loading"),
		Assets:   h.assets,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", lang)
	w.WriteHeader(http.StatusOK)
	if err := templates.Shell(page).Render(httpx.RequestContext(r), w); err != nil {
		h.logger.Printf("render shell failed path=%s request_id=%s err=%v", r.URL.Path, httpx.RequestIDOf(r), err)
	}
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
