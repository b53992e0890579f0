// Package health serves the deploy readiness probe.
package health

import (
	"context"
	"log"
	"net/http"
	"time"

	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
)

// pingTimeout bounds one storage ping.
const pingTimeout = 2 * time.Second

// Module provides the health route.
type Module struct{}

// New returns a health module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "health" }

// Mount wires the health handler.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handler{pinger: deps.Health, logger: deps.LoggerOrDefault()}
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.Handle(routepath.Health, httpx.MethodNotAllowed(http.MethodGet))
	mux.Handle(routepath.Health+"/", httpx.NotFound(""))
	return module.Mount{Prefix: routepath.Health, Handler: mux}, nil
}

type handler struct {
	pinger storage.Pinger
	logger *log.Logger
}

func (h handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Printf("health ping failed request_id=%s err=%v", httpx.RequestIDOf(r), err)
			_ = httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
