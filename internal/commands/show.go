package commands

import (
	"context"
	"flag"
	"io"

	"taskchain/internal/config"
	"taskchain/internal/exitcode"
	"taskchain/internal/output"
	"taskchain/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints one task with its store id.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show a task" }
func (c *ShowCmd) Usage() string     { return "taskchain show <ref>" }
func (c *ShowCmd) NeedsStore() bool  { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	_, task, code := loadRef(ctx, cfg, store, args, errOut)
	if code != exitcode.Success {
		return code
	}
	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
