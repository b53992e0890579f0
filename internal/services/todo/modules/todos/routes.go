package todos

import (
	"net/http"

	"github.com/louisbranch/todo.space/internal/services/todo/account"
	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/authn"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
)

// registerRoutes mounts every route behind authn.Require, so an anonymous
// request gets 401 before any 403, 404 or 405.
func registerRoutes(mux *http.ServeMux, h handlers, deps module.Dependencies) {
	if mux == nil {
		return
	}
	logger := deps.LoggerOrDefault()
	sameOrigin := httpx.SameOriginWrites(deps.SchemePolicy)
	guard := func(next authn.HandlerFunc) http.Handler {
		return authn.Require(deps.Resolver, logger, authn.Then(sameOrigin, next))
	}
	itemPath := routepath.TodosAPIPrefix + "{id}"

	mux.Handle(http.MethodGet+" "+routepath.TodosAPI, guard(h.handleList))
	mux.Handle(http.MethodPost+" "+routepath.TodosAPI, guard(h.handleCreate))
	mux.Handle(http.MethodPut+" "+itemPath, guard(h.handleUpdate))
	mux.Handle(http.MethodDelete+" "+itemPath, guard(h.handleDelete))

	mux.Handle(routepath.TodosAPI, guard(withoutIdentity(httpx.MethodNotAllowed(http.MethodGet, http.MethodPost))))
	mux.Handle(itemPath, guard(withoutIdentity(httpx.MethodNotAllowed(http.MethodPut, http.MethodDelete))))
	mux.Handle(routepath.TodosAPIPrefix, guard(withoutIdentity(httpx.NotFound(""))))
}

func withoutIdentity(next http.Handler) authn.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ account.Identity) {
		next.ServeHTTP(w, r)
	}
}
