// Package authn gates handlers behind a resolved session identity.
//
// The resolved identity is passed to the handler as an argument rather than
// stored in the request context.
package authn

import (
	"context"
	"log"
	"net/http"

	domainerrors "github.com/louisbranch/todo.space/internal/platform/errors"
	"github.com/louisbranch/todo.space/internal/services/todo/account"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
)

var errNoSession = domainerrors.New(domainerrors.CodeUnauthenticated, "no session")

// Resolver resolves the session identity for a raw request header set.
//
// ok is false when the request carries no valid session.
type Resolver interface {
	ResolveSession(ctx context.Context, header http.Header) (identity account.Identity, ok bool, err error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, header http.Header) (account.Identity, bool, error)

// ResolveSession calls f.
func (f ResolverFunc) ResolveSession(ctx context.Context, header http.Header) (account.Identity, bool, error) {
	return f(ctx, header)
}

// HandlerFunc handles a request for an authenticated identity.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, identity account.Identity)

// Require wraps next so it only runs for requests with a session.
//
// Requests without one receive 401 and next is never called. Resolver faults
// are logged and also answered with 401.
func Require(resolver Resolver, logger *log.Logger, next HandlerFunc) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil || next == nil {
			httpx.WriteError(w, errNoSession)
			return
		}
		identity, ok, err := resolver.ResolveSession(r.Context(), r.Header)
		if err != nil {
			logger.Printf("session resolve failed method=%s path=%s request_id=%s err=%v", r.Method, r.URL.Path, httpx.RequestIDOf(r), err)
			httpx.WriteError(w, errNoSession)
			return
		}
		if !ok || identity.ID == "" {
			httpx.WriteError(w, errNoSession)
			return
		}
		next(w, r, identity)
	})
}

// Then runs mw around next once the identity is known.
func Then(mw httpx.Middleware, next HandlerFunc) HandlerFunc {
	if mw == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, identity account.Identity) {
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next(w, r, identity)
		})).ServeHTTP(w, r)
	}
}
