// Package todo hosts the multi-user to-do web service.
package todo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/todo.space/internal/platform/timeouts"
	todoapp "github.com/louisbranch/todo.space/internal/services/todo/app"
	module "github.com/louisbranch/todo.space/internal/services/todo/module"
	"github.com/louisbranch/todo.space/internal/services/todo/modules"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/authn"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/httpx"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/observability"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/requestmeta"
	"github.com/louisbranch/todo.space/internal/services/todo/routepath"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
)

// ServiceName labels request spans.
const ServiceName = "todo"

// Accounts signs users in and resolves their sessions.
type Accounts interface {
	module.Accounts
	authn.Resolver
}

// Config holds what the service needs to start. Items and Accounts are
// required; the rest have defaults.
type Config struct {
	HTTPAddr string
	// StaticDir serves client assets under /static/ when set.
	StaticDir    string
	Items        storage.ItemStore
	Accounts     Accounts
	Health       storage.Pinger
	Logger       *log.Logger
	SchemePolicy requestmeta.SchemePolicy
	Now          func() time.Time
	NewID        func() (string, error)
}

func (c Config) dependencies() (module.Dependencies, error) {
	switch {
	case c.Items == nil:
		return module.Dependencies{}, errors.New("item store is required")
	case c.Accounts == nil:
		return module.Dependencies{}, errors.New("accounts are required")
	}
	return module.Dependencies{
		Items:        c.Items,
		Accounts:     c.Accounts,
		Resolver:     c.Accounts,
		Health:       c.Health,
		Logger:       c.Logger,
		Now:          c.Now,
		NewID:        c.NewID,
		SchemePolicy: c.SchemePolicy,
		StaticAssets: strings.TrimSpace(c.StaticDir) != "",
	}, nil
}

// NewHandler mounts the default modules, plus static assets when configured,
// behind the shared middleware chain.
func NewHandler(cfg Config) (http.Handler, error) {
	deps, err := cfg.dependencies()
	if err != nil {
		return nil, err
	}
	routes, err := todoapp.Composer{}.Compose(todoapp.ComposeInput{
		Dependencies:     deps,
		PublicModules:    modules.DefaultPublicModules(),
		ProtectedModules: modules.DefaultProtectedModules(),
	})
	if err != nil {
		return nil, err
	}
	if dir := strings.TrimSpace(cfg.StaticDir); dir != "" {
		mux := http.NewServeMux()
		mux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.Dir(dir))))
		mux.Handle(routepath.Root, routes)
		routes = mux
	}
	return httpx.Chain(routes,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace(ServiceName),
		observability.RequestLogger(deps.LoggerOrDefault(), routepath.Health),
	), nil
}

// Server owns the listener and the HTTP server bound to it.
type Server struct {
	listener net.Listener
	http     *http.Server
}

// NewServer builds the handler and binds cfg.HTTPAddr. The port is taken
// before ListenAndServe so Addr reports the real address for ":0".
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose todo handler: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ln, err := new(net.ListenConfig).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Server{
		listener: ln,
		http: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			IdleTimeout:       timeouts.Idle,
		},
	}, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ListenAndServe serves until ctx is done, then drains in-flight requests
// for up to timeouts.Shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil || s.listener == nil {
		return errors.New("todo server is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	done := make(chan error, 1)
	go func() { done <- s.http.Serve(s.listener) }()

	select {
	case err := <-done:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve todo http: %w", err)
	case <-ctx.Done():
	}
	drain, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.http.Shutdown(drain); err != nil {
		return fmt.Errorf("shutdown todo http server: %w", err)
	}
	return nil
}

// Close stops the server and releases the listener.
func (s *Server) Close() {
	if s == nil || s.http == nil {
		return
	}
	_ = s.http.Close()
	_ = s.listener.Close()
}
