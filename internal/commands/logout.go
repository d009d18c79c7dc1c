package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchain/internal/config"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct {
	reset bool
}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove stored Google credentials" }
func (c *LogoutCmd) Usage() string     { return "taskchain logout [--reset] [common flags]" }
func (c *LogoutCmd) NeedsStore() bool  { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.reset, "reset", false, "")
}

// SetReset sets the --reset flag (for testing).
func (c *LogoutCmd) SetReset(reset bool) {
	c.reset = reset
}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if cfg.HasToken() {
		if err := cfg.RemoveToken(); err != nil {
			fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
			return exitcode.AuthError
		}
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
	} else if !cfg.Quiet {
		fmt.Fprintln(out, "not logged in")
	}

	switch {
	case c.reset:
		if err := cfg.SetBackend(config.BackendHTTP); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "backend set to %s in %s\n", config.BackendHTTP, cfg.SettingsPath())
		}
	case cfg.Settings.BackendName() == config.BackendGoogle && !cfg.Quiet:
		fmt.Fprintln(errOut, "note: backend is still google; run 'taskchain logout --reset' to use the http store")
	}
	return exitcode.Success
}
