// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskchain/internal/config"
	"taskchain/internal/controller"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command talks to the task store.
	// Commands like help, version, login, logout return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, settings, logger).
	// store is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int
}

// newController builds a controller over store and loads the collection.
func newController(ctx context.Context, cfg *config.Config, store service.Store) (*controller.Controller, error) {
	ctl := controller.New(store, cfg.Logger())
	if err := ctl.Refresh(ctx); err != nil {
		return nil, err
	}
	return ctl, nil
}

// reportError prints err and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case service.IsValidation(err):
		fmt.Fprintf(errOut, "error: %v\n", errors.Unwrap(err))
		return exitcode.UserError
	case service.IsRemote(err):
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
}

// ok reports success unless quiet.
func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
