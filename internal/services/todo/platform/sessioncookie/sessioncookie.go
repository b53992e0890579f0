// Package sessioncookie reads and writes the browser session cookie.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/todo.space/internal/services/todo/platform/requestmeta"
)

// Name is the session cookie name.
const Name = "todo_session"

// Read returns the session token from r's cookies.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	return FromHeader(r.Header)
}

// FromHeader returns the session token from the Cookie lines of header.
// A blank value counts as absent.
func FromHeader(header http.Header) (string, bool) {
	if len(header) == 0 {
		return "", false
	}
	c, err := (&http.Request{Header: header}).Cookie(Name)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(c.Value)
	return token, token != ""
}

// Write stores token for ttl. Secure follows the request scheme under policy.
func Write(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration, policy requestmeta.SchemePolicy) {
	c := base(r, policy)
	c.Value = strings.TrimSpace(token)
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, c)
}

// Clear tells the browser to drop the cookie.
func Clear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	c := base(r, policy)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func base(r *http.Request, policy requestmeta.SchemePolicy) *http.Cookie {
	return &http.Cookie{
		Name:     Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, policy),
		SameSite: http.SameSiteLaxMode,
	}
}
