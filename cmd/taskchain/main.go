// Package main is the entry point for the taskchain CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskchain/internal/backend"
	"taskchain/internal/cli"
	"taskchain/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backend.OpenStore)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
