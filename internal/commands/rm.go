package commands

import (
	"context"
	"flag"
	"io"

	"taskchain/internal/config"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskchain rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	ctl, task, code := loadRef(ctx, cfg, store, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctl.SubmitDelete(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	return ok(cfg, out)
}
