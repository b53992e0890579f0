// Package i18n provides request language helpers for todo handlers.
package i18n

import (
	"net/http"
	"strings"

	"github.com/louisbranch/todo.space/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer exposes translated formatting used by handlers and templates.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

var matcher = language.NewMatcher(catalog.Default().Tags())

// ResolveTag picks the best catalog locale for the request's Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	supported := catalog.Default().Tags()
	if r == nil {
		return supported[0]
	}
	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return supported[0]
	}
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return supported[0]
	}
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveLocalizer resolves a printer and language string for a request.
func ResolveLocalizer(r *http.Request) (*message.Printer, string) {
	tag := ResolveTag(r)
	return Printer(tag), tag.String()
}

// LocalizeFields translates field message keys.
func LocalizeFields(loc Localizer, fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for field, key := range fields {
		if loc == nil {
			out[field] = key
			continue
		}
		out[field] = loc.Sprintf(key)
	}
	return out
}
