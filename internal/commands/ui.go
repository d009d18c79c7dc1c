package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchain/internal/config"
	"taskchain/internal/controller"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
	"taskchain/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the interactive task manager.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Interactive task manager" }
func (c *UICmd) Usage() string     { return "taskchain ui [common flags]" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	ctl := controller.New(store, cfg.Logger())
	if err := tui.Run(ctx, ctl); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
