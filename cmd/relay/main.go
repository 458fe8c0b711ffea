package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"localhost/claude-relay/cmd/relay/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Cancel the root context on SIGINT (Ctrl+C) or SIGTERM (container
	// runtimes) so in-flight proxied requests can drain before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx, os.Args, version, commit); err != nil {
		slog.ErrorContext(ctx, "relay exited with error", "error", err)
		os.Exit(1)
	}
}
