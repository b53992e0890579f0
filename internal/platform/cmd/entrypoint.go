// Package cmd holds the startup plumbing shared by the todo binaries.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/todo.space/internal/platform/config"
	"github.com/louisbranch/todo.space/internal/platform/otel"
)

// Binary names. They double as the telemetry service name.
const (
	ServiceTodo    = "todo"
	ServiceTodoctl = "todoctl"
)

const telemetryFlushTimeout = 5 * time.Second

var (
	errNilConfig  = errors.New("cmd: config target is nil")
	errNilFlagSet = errors.New("cmd: flag set is nil")
)

// ParseConfig fills cfg from environment variables. Tags on cfg omit
// config.Prefix.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errNilConfig
	}
	return config.ParseEnvPrefixed(cfg)
}

// ParseArgs applies command-line flags over values already read from the
// environment, so flags win.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errNilFlagSet
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs tracing for service, runs fn and flushes spans
// before returning fn's error.
func RunWithTelemetry(ctx context.Context, service string, fn func(context.Context) error) error {
	name := strings.TrimSpace(service)
	switch {
	case name == "":
		return errors.New("cmd: service name is required")
	case fn == nil:
		return errors.New("cmd: run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, name)
	if err != nil {
		return fmt.Errorf("cmd: telemetry: %w", err)
	}
	defer flushTelemetry(name, shutdown)
	return fn(ctx)
}

func flushTelemetry(service string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("telemetry flush failed service=%s err=%v", service, err)
	}
}
