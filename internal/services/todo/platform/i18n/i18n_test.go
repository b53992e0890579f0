package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "empty defaults to base", header: "", want: "en-US"},
		{name: "japanese", header: "ja", want: "ja-JP"},
		{name: "japanese with region", header: "ja-JP,en;q=0.5", want: "ja-JP"},
		{name: "english", header: "en-GB", want: "en-US"},
		{name: "unsupported falls back", header: "fr-FR", want: "en-US"},
		{name: "garbage falls back", header: ";;;", want: "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			if got := ResolveTag(req).String(); got != tt.want {
				t.Fatalf("ResolveTag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalizeFields(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja")
	loc, lang := ResolveLocalizer(req)
	if lang != "ja-JP" {
		t.Fatalf("lang = %q", lang)
	}

	got := LocalizeFields(loc, map[string]string{"title": "validation.title_required"})
	if got["title"] != "タイトルを入力してください" {
		t.Fatalf("title = %q", got["title"])
	}

	raw := LocalizeFields(nil, map[string]string{"title": "validation.title_required"})
	if raw["title"] != "validation.title_required" {
		t.Fatalf("expected raw key without localizer, got %q", raw["title"])
	}
}
