// Package observability provides request logging middleware.
package observability

import (
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
)

// RequestLogger writes one key=value line per request. Successful requests
// to a quiet path (health probes) are not logged.
func RequestLogger(logger *log.Logger, quiet ...string) httpx.Middleware {
	if logger == nil {
		logger = log.Default()
	}
	silent := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		silent[p] = true
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := httpx.NewStatusRecorder(w)
			next.ServeHTTP(rec, r)
			if silent[r.URL.Path] && rec.Status < http.StatusBadRequest {
				return
			}
			logger.Printf("%s method=%s path=%s status=%d bytes=%d latency=%s request_id=%s",
				event(rec.Status), r.Method, r.URL.Path, rec.Status, rec.Bytes,
				time.Since(start).Round(time.Microsecond), httpx.RequestIDOf(r))
		})
	}
}

func event(status int) string {
	if status >= http.StatusInternalServerError {
		return "http request failed"
	}
	return "http request"
}
