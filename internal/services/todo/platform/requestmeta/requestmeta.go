// Package requestmeta derives scheme, client address and origin facts from
// an incoming request.
package requestmeta

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy says which proxy headers to believe. With TrustForwardedProto
// unset, X-Forwarded-Proto and X-Forwarded-For are ignored.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// IsHTTPS reports whether r arrived over HTTPS, ignoring proxy headers.
func IsHTTPS(r *http.Request) bool {
	return IsHTTPSWithPolicy(r, SchemePolicy{})
}

// IsHTTPSWithPolicy reports whether r counts as HTTPS under policy.
func IsHTTPSWithPolicy(r *http.Request, policy SchemePolicy) bool {
	return r != nil && scheme(r, policy) == "https"
}

// ClientIP returns the caller address without its port. The first
// X-Forwarded-For hop is used when the policy trusts the proxy.
func ClientIP(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		hop, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		if ip := net.ParseIP(strings.TrimSpace(hop)); ip != nil {
			return ip.String()
		}
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// CrossOriginWithPolicy reports whether r carries an Origin header naming
// another scheme, host or port than r itself. A request without Origin is
// not cross-origin; an unparseable or opaque Origin is.
func CrossOriginWithPolicy(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	header := strings.TrimSpace(r.Header.Get("Origin"))
	if header == "" {
		return false
	}
	from, ok := parseOrigin(header)
	if !ok {
		return true
	}
	self := requestOrigin(r, policy)
	return self.host == "" || from != self
}

// origin is a (scheme, host, port) tuple with the port always filled in.
type origin struct {
	scheme, host, port string
}

func parseOrigin(raw string) (origin, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return origin{}, false
	}
	o := origin{scheme: strings.ToLower(u.Scheme), host: strings.ToLower(u.Hostname()), port: u.Port()}
	o.port = portOrDefault(o.port, o.scheme)
	return o, o.port != ""
}

func requestOrigin(r *http.Request, policy SchemePolicy) origin {
	o := origin{scheme: scheme(r, policy)}
	o.host, o.port = splitHost(r.Host)
	if o.host == "" && r.URL != nil {
		o.host, o.port = splitHost(r.URL.Host)
	}
	o.port = portOrDefault(o.port, o.scheme)
	return o
}

func splitHost(raw string) (host, port string) {
	u, err := url.Parse("//" + strings.TrimSpace(raw))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(u.Hostname()), u.Port()
}

func portOrDefault(port, scheme string) string {
	if port != "" {
		return port
	}
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}

// scheme resolves "http" or "https" in order: trusted X-Forwarded-Proto,
// absolute request URL, TLS state.
func scheme(r *http.Request, policy SchemePolicy) string {
	if policy.TrustForwardedProto {
		switch p := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); p {
		case "http", "https":
			return p
		}
	}
	if r.URL != nil {
		switch s := strings.ToLower(r.URL.Scheme); s {
		case "http", "https":
			return s
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
