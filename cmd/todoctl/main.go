// Package main runs todo maintenance commands.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/todo.space/internal/tools/todoctl"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("todoctl: ")
	root, err := todoctl.NewRootCommand(todoctl.Options{Out: os.Stdout})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}
