// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"taskchain/internal/backend"
	"taskchain/internal/commands"
	"taskchain/internal/config"
	"taskchain/internal/exitcode"
	"taskchain/internal/logger"
	"taskchain/internal/service"
)

// StoreFactory creates a Store from config.
// Used to inject the backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config) (service.Store, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store
// factory. A nil factory opens the backend named in the settings.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	if factory == nil {
		factory = backend.OpenStore
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Parse flags
	if err := fs.Parse(args); err != nil {
		// Handle specific error types
		errStr := err.Error()

		// Check for missing flag value
		if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
			// Extract flag name
			parts := strings.Split(errStr, ":")
			if len(parts) > 0 {
				flagPart := strings.TrimSpace(parts[0])
				flagPart = strings.TrimPrefix(flagPart, "flag ")
				fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
				return exitcode.UserError
			}
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		// Generic error handling for bad flag values
		if strings.Contains(errStr, "invalid value") {
			fmt.Fprintf(errOut, "error: %s\n", errStr)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Load config
	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logCfg := logger.Config{Level: cfg.Settings.LogLevel, Encoding: cfg.Settings.LogEncoding}
	if debug {
		logCfg.Level = "debug"
	}
	cfg.Log = logger.New(logCfg, errOut).With(zap.String("command", cmd.Name()))
	defer cfg.Log.Sync()

	// Open the store
	var store service.Store
	if cmd.NeedsStore() {
		store, err = d.factory(ctx, cfg)
		if err != nil {
			if errors.Is(err, backend.ErrAuth) {
				fmt.Fprintf(errOut, "error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	// Run command
	return cmd.Run(ctx, cfg, store, positionalArgs, out, errOut)
}
