// Package main is the entry point for fleetctl, the command-line client for
// the fleet manager API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmachado/fleet-manager/internal/cli"
)

func main() {
	// Ctrl-C cancels the context, which tears down the trip watcher's
	// tickers and any in-flight request.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
