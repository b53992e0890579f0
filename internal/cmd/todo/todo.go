// Package todo parses todo command flags and composes the service.
package todo

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/todo.space/internal/platform/cmd"
	todoservice "github.com/louisbranch/todo.space/internal/services/todo"
	"github.com/louisbranch/todo.space/internal/services/todo/platform/requestmeta"
	"github.com/louisbranch/todo.space/internal/services/todo/session"
	"github.com/louisbranch/todo.space/internal/services/todo/storage/sqlite"
)

// Config holds todo command configuration.
type Config struct {
	HTTPAddr            string        `env:"HTTP_ADDR"             envDefault:"localhost:8080"`
	DBPath              string        `env:"DB_PATH"               envDefault:"data/todo.db"`
	SessionSecret       string        `env:"SESSION_SECRET"`
	SessionTTL          time.Duration `env:"SESSION_TTL"           envDefault:"168h"`
	SessionUpdateAge    time.Duration `env:"SESSION_UPDATE_AGE"    envDefault:"24h"`
	StaticDir           string        `env:"STATIC_DIR"`
	TrustForwardedProto bool          `env:"TRUST_FORWARDED_PROTO"`
	PruneInterval       time.Duration `env:"SESSION_PRUNE_INTERVAL" envDefault:"1h"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.StaticDir, "static-dir", cfg.StaticDir, "directory served under /static/")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "session lifetime")
	fs.DurationVar(&cfg.SessionUpdateAge, "session-update-age", cfg.SessionUpdateAge, "how often an active session is extended")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "trust X-Forwarded-Proto for cookie security")
	fs.DurationVar(&cfg.PruneInterval, "session-prune-interval", cfg.PruneInterval, "expired session cleanup interval (0 disables)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens storage and serves the todo HTTP surface until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTodo, func(ctx context.Context) error {
		store, err := openStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()

		secret, err := resolveSecret(cfg.SessionSecret, rand.Read)
		if err != nil {
			return err
		}
		manager, err := session.NewManager(store, store, session.Config{
			Secret:    secret,
			TTL:       cfg.SessionTTL,
			UpdateAge: cfg.SessionUpdateAge,
		})
		if err != nil {
			return fmt.Errorf("session manager: %w", err)
		}

		server, err := todoservice.NewServer(ctx, todoservice.Config{
			HTTPAddr:     cfg.HTTPAddr,
			StaticDir:    cfg.StaticDir,
			Items:        store,
			Accounts:     manager,
			Health:       store,
			Logger:       log.Default(),
			SchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		})
		if err != nil {
			return err
		}
		defer server.Close()

		go pruneSessions(ctx, manager, cfg.PruneInterval)

		log.Printf("todo listening addr=%s db=%s", server.Addr(), cfg.DBPath)
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve todo: %w", err)
		}
		return nil
	})
}

func openStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// resolveSecret returns the configured secret or, when empty, a random
// per-process secret. Sessions signed with a random secret do not survive a
// restart.
func resolveSecret(configured string, read func([]byte) (int, error)) ([]byte, error) {
	configured = strings.TrimSpace(configured)
	if configured != "" {
		if len(configured) < session.MinSecretBytes {
			return nil, fmt.Errorf("session secret must be at least %d bytes", session.MinSecretBytes)
		}
		return []byte(configured), nil
	}
	secret := make([]byte, session.MinSecretBytes)
	if _, err := read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	log.Printf("warning: TODO_SPACE_SESSION_SECRET is not set; sessions will not survive a restart")
	return secret, nil
}

type pruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

func pruneSessions(ctx context.Context, p pruner, interval time.Duration) {
	if p == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := p.PruneExpired(ctx)
			if err != nil {
				log.Printf("prune sessions: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("pruned expired sessions count=%d", removed)
			}
		}
	}
}
