// Package templates renders the HTML page shell hydrated by the client UI.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ShellAssets names the client bundle files under the static prefix.
type ShellAssets struct {
	Stylesheet string
	Script     string
}

// ShellPage is the data rendered into the page shell.
type ShellPage struct {
	Lang     string
	Title    string
	Route    string
	NoScript string
	Loading  string
	Assets   *ShellAssets
}

// Shell renders the full HTML document for a client-side route.
func Shell(page ShellPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := strings.TrimSpace(page.Lang)
		if lang == "" {
			lang = "en-US"
		}
		var b strings.Builder
		b.WriteString("<!doctype html>\n<html lang=\"")
		b.WriteString(templ.EscapeString(lang))
		b.WriteString("\">\n<head>\n<meta charset=\"utf-8\">\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>")
		b.WriteString(templ.EscapeString(page.Title))
		b.WriteString("</title>\n")
		if page.Assets != nil && page.Assets.Stylesheet != "" {
			b.WriteString("<link rel=\"stylesheet\" href=\"")
			b.WriteString(templ.EscapeString(page.Assets.Stylesheet))
			b.WriteString("\">\n")
		}
		b.WriteString("</head>\n<body>\n<noscript>")
		b.WriteString(templ.EscapeString(page.NoScript))
		b.WriteString("</noscript>\n<div id=\"root\" data-route=\"")
		b.WriteString(templ.EscapeString(page.Route))
		b.WriteString("\">")
		b.WriteString(templ.EscapeString(page.Loading))
		b.WriteString("</div>\n")
		if page.Assets != nil && page.Assets.Script != "" {
			b.WriteString("<script type=\"module\" src=\"")
			b.WriteString(templ.EscapeString(page.Assets.Script))
			b.WriteString("\"></script>\n")
		}
		b.WriteString("</body>\n</html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
