// Package todoctl implements the todo maintenance command line.
package todoctl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/todo.space/internal/platform/cmd"
	"github.com/louisbranch/todo.space/internal/services/todo/session"
	"github.com/louisbranch/todo.space/internal/services/todo/storage/sqlite"
	"github.com/spf13/cobra"
)

// Config holds todoctl defaults read from the environment.
type Config struct {
	DBPath string `env:"DB_PATH" envDefault:"data/todo.db"`
}

// Options injects process collaborators for tests.
type Options struct {
	Out    io.Writer
	Random io.Reader
	Now    func() time.Time
}

// NewRootCommand builds the todoctl command tree.
func NewRootCommand(opts Options) (*cobra.Command, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return nil, err
	}
	if opts.Random == nil {
		opts.Random = rand.Reader
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	root := &cobra.Command{
		Use:           entrypoint.ServiceTodoctl,
		Short:         "Maintenance commands for the todo service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if opts.Out != nil {
		root.SetOut(opts.Out)
	}
	root.PersistentFlags().StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")

	root.AddCommand(
		newMigrateCommand(&cfg),
		newSessionsCommand(&cfg, opts),
		newSecretCommand(opts),
	)
	return root, nil
}

func newMigrateCommand(cfg *Config) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if list {
				applied, err := store.AppliedMigrations(cmd.Context())
				if err != nil {
					return fmt.Errorf("list migrations: %w", err)
				}
				for _, m := range applied {
					fmt.Fprintf(out, "%s\t%s\n", m.Name, m.AppliedAt.UTC().Format(time.RFC3339))
				}
				return nil
			}
			// sqlite.Open already applied pending migrations; report the state.
			applied, err := store.AppliedMigrations(cmd.Context())
			if err != nil {
				return fmt.Errorf("list migrations: %w", err)
			}
			fmt.Fprintf(out, "schema up to date migrations=%d\n", len(applied))
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list applied migrations")
	return cmd
}

func newSessionsCommand(cfg *Config, opts Options) *cobra.Command {
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Manage login sessions",
	}
	sessions.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := pruneExpired(cmd.Context(), store, opts.Now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned expired sessions count=%d\n", removed)
			return nil
		},
	})
	return sessions
}

func newSecretCommand(opts Options) *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Print a random session signing secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := newSecret(opts.Random, size)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "TODO_SPACE_SESSION_SECRET=%s\n", secret)
			return err
		},
	}
	cmd.Flags().IntVar(&size, "bytes", session.MinSecretBytes, "number of random bytes")
	return cmd
}

func openStore(path string) (*sqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("db path is required")
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func pruneExpired(ctx context.Context, store *sqlite.Store, now func() time.Time) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	removed, err := store.DeleteExpiredSessions(ctx, now().UTC())
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return removed, nil
}

// newSecret returns size random bytes, hex encoded. Hex doubles the length,
// so the encoded secret always meets the signing minimum when size does.
func newSecret(random io.Reader, size int) (string, error) {
	if size < session.MinSecretBytes {
		return "", fmt.Errorf("bytes must be at least %d", session.MinSecretBytes)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(random, buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
