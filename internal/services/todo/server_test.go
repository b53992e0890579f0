package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
	"github.com/louisbranch/todo.space/internal/services/todo/session"
	"github.com/louisbranch/todo.space/internal/services/todo/storage/sqlite"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server *httptest.Server
	logs   *bytes.Buffer
}

// openStack returns a sqlite store and a session manager over it.
func openStack(t *testing.T) (*sqlite.Store, *session.Manager) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "todo.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	manager, err := session.NewManager(store, store, session.Config{
		Secret:   bytes.Repeat([]byte("k"), session.MinSecretBytes),
		HashCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return store, manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, manager := openStack(t)
	logs := &bytes.Buffer{}
	handler, err := NewHandler(Config{
		Items:    store,
		Accounts: manager,
		Health:   store,
		Logger:   log.New(logs, "", 0),
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, logs: logs}
}

// client returns an HTTP client with its own cookie jar.
func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func (e *testEnv) do(t *testing.T, c *http.Client, method, path, body string) (int, []byte) {
	t.Helper()
	return e.doFrom(t, c, "", method, path, body)
}

// doFrom sends the request with origin as its Origin header when set.
func (e *testEnv) doFrom(t *testing.T, c *http.Client, origin, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func (e *testEnv) signUp(t *testing.T, c *http.Client, email string) {
	t.Helper()
	status, body := e.do(t, c, http.MethodPost, routepath.SignUpEmail,
		`{"name":"User","email":"`+email+`","password":"correct horse"}`)
	if status != http.StatusOK {
		t.Fatalf("sign up status = %d, want %d (%s)", status, http.StatusOK, body)
	}
}

type todoBody struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      string  `json:"userId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func decodeJSON[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return out
}

func TestServerTodoLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.client(t)
	env.signUp(t, alice, "alice@example.com")

	status, raw := env.do(t, alice, http.MethodPost, routepath.TodosAPI, `{"title":"Write report"}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, want %d (%s)", status, http.StatusCreated, raw)
	}
	created := decodeJSON[struct {
		Todo todoBody `json:"todo"`
	}](t, raw).Todo
	if created.CreatedAt != created.UpdatedAt || created.Completed || created.Description != nil {
		t.Fatalf("created = %+v", created)
	}

	status, raw = env.do(t, alice, http.MethodGet, routepath.TodosAPI, "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	list := decodeJSON[struct {
		Todos []todoBody `json:"todos"`
	}](t, raw).Todos
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	status, raw = env.do(t, alice, http.MethodPut, routepath.TodoItem(created.ID), `{"completed":true}`)
	if status != http.StatusOK {
		t.Fatalf("update status = %d (%s)", status, raw)
	}
	updated := decodeJSON[struct {
		Todo todoBody `json:"todo"`
	}](t, raw).Todo
	if !updated.Completed || updated.Title != "Write report" || updated.UpdatedAt < updated.CreatedAt {
		t.Fatalf("updated = %+v", updated)
	}

	status, _ = env.do(t, alice, http.MethodDelete, routepath.TodoItem(created.ID), "")
	if status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	status, raw = env.do(t, alice, http.MethodDelete, routepath.TodoItem(created.ID), "")
	if status != http.StatusNotFound || !strings.Contains(string(raw), "Todo not found") {
		t.Fatalf("second delete = %d %s", status, raw)
	}
}

func TestServerOwnershipIsolation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.client(t)
	bob := env.client(t)
	env.signUp(t, alice, "alice@example.com")
	env.signUp(t, bob, "bob@example.com")

	_, raw := env.do(t, alice, http.MethodPost, routepath.TodosAPI, `{"title":"private"}`)
	id := decodeJSON[struct {
		Todo todoBody `json:"todo"`
	}](t, raw).Todo.ID

	_, raw = env.do(t, bob, http.MethodGet, routepath.TodosAPI, "")
	if got := strings.TrimSpace(string(raw)); got != `{"todos":[]}` {
		t.Fatalf("bob list = %s", got)
	}

	foreignStatus, foreignBody := env.do(t, bob, http.MethodPut, routepath.TodoItem(id), `{"title":"mine"}`)
	missingStatus, missingBody := env.do(t, bob, http.MethodPut, routepath.TodoItem("does-not-exist"), `{"title":"mine"}`)
	if foreignStatus != http.StatusNotFound || missingStatus != http.StatusNotFound {
		t.Fatalf("status = %d/%d", foreignStatus, missingStatus)
	}
	if !bytes.Equal(foreignBody, missingBody) {
		t.Fatalf("bodies differ: %s vs %s", foreignBody, missingBody)
	}

	status, _ := env.do(t, bob, http.MethodDelete, routepath.TodoItem(id), "")
	if status != http.StatusNotFound {
		t.Fatalf("bob delete status = %d", status)
	}
	_, raw = env.do(t, alice, http.MethodGet, routepath.TodosAPI, "")
	list := decodeJSON[struct {
		Todos []todoBody `json:"todos"`
	}](t, raw).Todos
	if len(list) != 1 || list[0].Title != "private" {
		t.Fatalf("alice list = %+v", list)
	}
}

func TestServerRejectsAnonymousAndSignedOut(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	anon := env.client(t)
	status, raw := env.do(t, anon, http.MethodGet, routepath.TodosAPI, "")
	if status != http.StatusUnauthorized || strings.TrimSpace(string(raw)) != `{"error":"Unauthorized"}` {
		t.Fatalf("anonymous = %d %s", status, raw)
	}
	status, _ = env.do(t, anon, http.MethodPatch, routepath.TodosAPI, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous patch = %d, want %d", status, http.StatusUnauthorized)
	}

	alice := env.client(t)
	env.signUp(t, alice, "alice@example.com")
	status, raw = env.do(t, alice, http.MethodGet, routepath.GetSession, "")
	if status != http.StatusOK || !strings.Contains(string(raw), "alice@example.com") {
		t.Fatalf("get session = %d %s", status, raw)
	}
	status, _ = env.do(t, alice, http.MethodPost, routepath.SignOut, "")
	if status != http.StatusOK {
		t.Fatalf("sign out = %d", status)
	}
	status, _ = env.do(t, alice, http.MethodGet, routepath.TodosAPI, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("after sign out = %d, want %d", status, http.StatusUnauthorized)
	}
	status, raw = env.do(t, alice, http.MethodGet, routepath.GetSession, "")
	if status != http.StatusOK || strings.TrimSpace(string(raw)) != "null" {
		t.Fatalf("get session after sign out = %d %s", status, raw)
	}
}

func TestServerCrossOriginWrites(t *testing.T) {
	t.Parallel()

	const evil = "https://evil.example"
	env := newTestEnv(t)
	anon := env.client(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, routepath.TodosAPI},
		{http.MethodDelete, routepath.TodosAPIPrefix + "abc"},
	} {
		status, raw := env.doFrom(t, anon, evil, tc.method, tc.path, `{"title":"x"}`)
		if status != http.StatusUnauthorized || strings.TrimSpace(string(raw)) != `{"error":"Unauthorized"}` {
			t.Fatalf("anonymous cross-origin %s %s = %d %s", tc.method, tc.path, status, raw)
		}
	}

	alice := env.client(t)
	env.signUp(t, alice, "alice@example.com")
	status, _ := env.doFrom(t, alice, evil, http.MethodPost, routepath.TodosAPI, `{"title":"x"}`)
	if status != http.StatusForbidden {
		t.Fatalf("signed-in cross-origin post = %d, want %d", status, http.StatusForbidden)
	}
	status, _ = env.doFrom(t, alice, evil, http.MethodGet, routepath.TodosAPI, "")
	if status != http.StatusOK {
		t.Fatalf("signed-in cross-origin get = %d, want %d", status, http.StatusOK)
	}
	status, _ = env.doFrom(t, anon, evil, http.MethodPost, routepath.SignInEmail,
		`{"email":"alice@example.com","password":"correct horse"}`)
	if status != http.StatusForbidden {
		t.Fatalf("cross-origin sign in = %d, want %d", status, http.StatusForbidden)
	}
	status, _ = env.doFrom(t, alice, env.server.URL, http.MethodPost, routepath.TodosAPI, `{"title":"x"}`)
	if status != http.StatusCreated {
		t.Fatalf("same-origin post = %d, want %d", status, http.StatusCreated)
	}
}

func TestServerSignInAndBearerToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signUp(t, env.client(t), "carol@example.com")

	c := env.client(t)
	status, _ := env.do(t, c, http.MethodPost, routepath.SignInEmail, `{"email":"carol@example.com","password":"wrong password"}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("bad password = %d, want %d", status, http.StatusUnauthorized)
	}
	status, raw := env.do(t, c, http.MethodPost, routepath.SignInEmail, `{"email":"CAROL@example.com","password":"correct horse"}`)
	if status != http.StatusOK {
		t.Fatalf("sign in = %d %s", status, raw)
	}
	token := decodeJSON[struct {
		Token string `json:"token"`
	}](t, raw).Token

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, env.server.URL+routepath.TodosAPI, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("bearer request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bearer status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestServerDuplicateSignUp(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signUp(t, env.client(t), "dave@example.com")
	status, _ := env.do(t, env.client(t), http.MethodPost, routepath.SignUpEmail, `{"name":"Dave","email":"dave@example.com","password":"correct horse"}`)
	if status != http.StatusConflict {
		t.Fatalf("status = %d, want %d", status, http.StatusConflict)
	}
}

func TestServerValidationNeverStores(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.client(t)
	env.signUp(t, alice, "alice@example.com")
	for _, body := range []string{`{}`, `{"title":""}`, `{"title":"   "}`, `not json`} {
		status, _ := env.do(t, alice, http.MethodPost, routepath.TodosAPI, body)
		if status != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want %d", body, status, http.StatusBadRequest)
		}
	}
	_, raw := env.do(t, alice, http.MethodGet, routepath.TodosAPI, "")
	if got := strings.TrimSpace(string(raw)); got != `{"todos":[]}` {
		t.Fatalf("list = %s", got)
	}
}

func TestServerShellHealthAndUnknownAPI(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := env.client(t)
	status, raw := env.do(t, c, http.MethodGet, routepath.Todos, "")
	if status != http.StatusOK || !strings.Contains(string(raw), `<div id="root"`) {
		t.Fatalf("shell = %d %s", status, raw)
	}
	status, raw = env.do(t, c, http.MethodGet, routepath.Health, "")
	if status != http.StatusOK || strings.TrimSpace(string(raw)) != `{"status":"ok"}` {
		t.Fatalf("health = %d %s", status, raw)
	}
	status, _ = env.do(t, c, http.MethodGet, "/api/nothing", "")
	if status != http.StatusNotFound {
		t.Fatalf("unknown api = %d, want %d", status, http.StatusNotFound)
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without http address")
	}
}

func TestServerServesUntilCanceled(t *testing.T) {
	store, manager := openStack(t)
	srv, err := NewServer(context.Background(), Config{
		HTTPAddr: "127.0.0.1:0",
		Items:    store,
		Accounts: manager,
		Health:   store,
		Logger:   log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer srv.Close()
	if strings.HasSuffix(srv.Addr(), ":0") {
		t.Fatalf("Addr() = %q, want bound port", srv.Addr())
	}

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- srv.ListenAndServe(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + routepath.Health)
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz = %d", resp.StatusCode)
	}

	cancel()
	if err := <-served; err != nil {
		t.Fatalf("ListenAndServe: %v", err)
	}
}
