package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskchain/internal/config"
	"taskchain/internal/exitcode"
	"taskchain/internal/output"
	"taskchain/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskchain` (no args) and `taskchain list`.
type ListCmd struct {
	status string
}

// SetStatus sets the status filter (for testing).
func (c *ListCmd) SetStatus(status string) {
	c.status = status
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskchain list [--status <status>]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	var filter service.Status
	if c.status != "" {
		s, err := service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		filter = s
	}

	ctl, err := newController(ctx, cfg, store)
	if err != nil {
		return reportError(errOut, err)
	}

	// Numbers always follow store order so refs stay stable under filters.
	printed := 0
	for i, task := range ctl.Tasks() {
		if filter != "" && task.Status != filter {
			continue
		}
		output.FormatTask(out, i+1, task)
		printed++
	}

	if printed == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
