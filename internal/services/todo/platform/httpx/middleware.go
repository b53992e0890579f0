// Package httpx provides HTTP middleware and JSON response helpers.
package httpx

import (
	"log"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/louisbranch/todo.space/internal/platform/id"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/requestmeta"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen caps inbound ids; longer ones are replaced.
const maxRequestIDLen = 128

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps handler so the first middleware runs first. Nil entries are
// skipped.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	for i := len(middleware) - 1; i >= 0; i-- {
		if mw := middleware[i]; mw != nil {
			handler = mw(handler)
		}
	}
	return handler
}

var fallbackIDs atomic.Uint64

func newRequestID() string {
	if v, err := id.NewID(); err == nil {
		return "req-" + v
	}
	return "req-seq-" + strconv.FormatUint(fallbackIDs.Add(1), 10)
}

// RequestID keeps a sane inbound X-Request-ID or assigns a fresh one, and
// echoes it on the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if rid == "" || len(rid) > maxRequestIDLen {
				rid = newRequestID()
			}
			r.Header.Set(RequestIDHeader, rid)
			w.Header().Set(RequestIDHeader, rid)
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDOf returns the request id, or "-" when absent.
func RequestIDOf(r *http.Request) string {
	if r != nil {
		if rid := strings.TrimSpace(r.Header.Get(RequestIDHeader)); rid != "" {
			return rid
		}
	}
	return "-"
}

// RecoverPanic logs a handler panic with its stack and answers 500.
// http.ErrAbortHandler is re-raised for net/http to handle.
func RecoverPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				log.Printf("panic recovered method=%s path=%s request_id=%s panic=%v stack=%s",
					r.Method, r.URL.Path, RequestIDOf(r), v, strings.TrimSpace(string(debug.Stack())))
				_ = WriteJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SameOriginWrites answers 403 to a write whose Origin names another host.
// Requests without an Origin header pass.
func SameOriginWrites(policy requestmeta.SchemePolicy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isWrite(r.Method) && requestmeta.CrossOriginWithPolicy(r, policy) {
				_ = WriteJSONError(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
