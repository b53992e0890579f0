package shell

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
)

func TestShellRoutes(t *testing.T) {
	t.Parallel()

	m, err := New().Mount(module.Dependencies{StaticAssets: true})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if m.Prefix != routepath.Root {
		t.Fatalf("prefix = %q, want %q", m.Prefix, routepath.Root)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "root", method: http.MethodGet, path: routepath.Root, wantStatus: http.StatusOK},
		{name: "login", method: http.MethodGet, path: routepath.Login, wantStatus: http.StatusOK},
		{name: "register", method: http.MethodGet, path: routepath.Register, wantStatus: http.StatusOK},
		{name: "todos", method: http.MethodGet, path: routepath.Todos, wantStatus: http.StatusOK},
		{name: "head", method: http.MethodHead, path: routepath.Login, wantStatus: http.StatusOK},
		{name: "post rejected", method: http.MethodPost, path: routepath.Todos, wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			m.Handler.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}

func TestShellLocalizesAndMarksRoute(t *testing.T) {
	t.Parallel()

	m, err := New().Mount(module.Dependencies{})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, routepath.Register, nil)
	req.Header.Set("Accept-Language", "ja")
	rr := httptest.NewRecorder()
	m.Handler.ServeHTTP(rr, req)

	body := rr.Body.String()
	for _, want := range []string{`lang="ja-JP"`, "<title>TodoList App</title>", `data-route="/register"`, "読み込み中..."} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "<script") {
		t.Fatal("script rendered without static assets")
	}
}
