package auth

import (
	"net/http"

	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodPost+" "+routepath.SignUpEmail, h.handleSignUp)
	mux.HandleFunc(http.MethodPost+" "+routepath.SignInEmail, h.handleSignIn)
	mux.HandleFunc(http.MethodPost+" "+routepath.SignOut, h.handleSignOut)
	mux.HandleFunc(http.MethodGet+" "+routepath.GetSession, h.handleGetSession)

	mux.Handle(routepath.SignUpEmail, httpx.MethodNotAllowed(http.MethodPost))
	mux.Handle(routepath.SignInEmail, httpx.MethodNotAllowed(http.MethodPost))
	mux.Handle(routepath.SignOut, httpx.MethodNotAllowed(http.MethodPost))
	mux.Handle(routepath.GetSession, httpx.MethodNotAllowed(http.MethodGet))
	mux.Handle(routepath.AuthPrefix, httpx.NotFound(""))
}
