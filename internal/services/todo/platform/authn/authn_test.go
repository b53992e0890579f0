package authn

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/todo.space/internal/services/todo/account"
)

func TestRequireRejectsMissingSession(t *testing.T) {
	t.Parallel()

	called := false
	resolver := ResolverFunc(func(context.Context, http.Header) (account.Identity, bool, error) {
		return account.Identity{}, false, nil
	})
	h := Require(resolver, nil, func(http.ResponseWriter, *http.Request, account.Identity) {
		called = true
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"Unauthorized"}` {
		t.Fatalf("body = %q", rr.Body.String())
	}
	if called {
		t.Fatal("expected handler not to run")
	}
}

func TestRequirePassesIdentity(t *testing.T) {
	t.Parallel()

	var got account.Identity
	var seenHeader string
	resolver := ResolverFunc(func(_ context.Context, header http.Header) (account.Identity, bool, error) {
		seenHeader = header.Get("Cookie")
		return account.Identity{ID: "user-1", Email: "a@example.com", Name: "A"}, true, nil
	})
	h := Require(resolver, nil, func(w http.ResponseWriter, _ *http.Request, identity account.Identity) {
		got = identity
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Cookie", "todo_session=abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got.ID != "user-1" {
		t.Fatalf("identity = %+v", got)
	}
	if seenHeader != "todo_session=abc" {
		t.Fatalf("resolver saw cookie %q", seenHeader)
	}
}

func TestRequireLogsResolverFault(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	resolver := ResolverFunc(func(context.Context, http.Header) (account.Identity, bool, error) {
		return account.Identity{}, false, errors.New("database is locked")
	})
	h := Require(resolver, log.New(&logs, "", 0), func(http.ResponseWriter, *http.Request, account.Identity) {
		t.Fatal("handler must not run")
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/todos", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(logs.String(), "database is locked") {
		t.Fatalf("expected fault to be logged, got %q", logs.String())
	}
}

func TestRequireNilResolver(t *testing.T) {
	t.Parallel()

	h := Require(nil, nil, func(http.ResponseWriter, *http.Request, account.Identity) {
		t.Fatal("handler must not run")
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestThenRunsAfterIdentity(t *testing.T) {
	t.Parallel()

	forbid := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}
	withUser := func(ok bool) Resolver {
		return ResolverFunc(func(context.Context, http.Header) (account.Identity, bool, error) {
			if !ok {
				return account.Identity{}, false, nil
			}
			return account.Identity{ID: "user-1"}, true, nil
		})
	}
	next := func(w http.ResponseWriter, _ *http.Request, _ account.Identity) {
		w.WriteHeader(http.StatusNoContent)
	}

	tests := []struct {
		name       string
		resolver   Resolver
		mw         func(http.Handler) http.Handler
		wantStatus int
	}{
		{name: "anonymous skips middleware", resolver: withUser(false), mw: forbid, wantStatus: http.StatusUnauthorized},
		{name: "signed in hits middleware", resolver: withUser(true), mw: forbid, wantStatus: http.StatusForbidden},
		{name: "nil middleware", resolver: withUser(true), wantStatus: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := Require(tc.resolver, nil, Then(tc.mw, next))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/todos", nil))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}
