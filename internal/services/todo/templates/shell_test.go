package templates

import (
	"context"
	"strings"
	"testing"
)

func TestShellEscapesAndRendersRoot(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	err := Shell(ShellPage{
		Lang:  "ja-JP",
		Title: "<TodoList>",
		Route: "/todos",
		Assets: &ShellAssets{
			Stylesheet: "/static/app.css",
			Script:     "/static/app.js",
		},
	}).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := b.String()
	for _, want := range []string{
		`<html lang="ja-JP">`,
		"<title>&lt;TodoList&gt;</title>",
		`<div id="root" data-route="/todos">`,
		`<script type="module" src="/static/app.js"></script>`,
		`<link rel="stylesheet" href="/static/app.css">`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q:\n%s", want, html)
		}
	}
}

func TestShellWithoutAssets(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := Shell(ShellPage{Title: "TodoList App"}).Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := b.String()
	if strings.Contains(html, "<script") || !strings.Contains(html, `lang="en-US"`) {
		t.Fatalf("html = %s", html)
	}
}
