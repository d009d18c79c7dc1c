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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskchain help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out, "\nCommands:")
	DefaultRegistry.WriteSummary(out)
	return exitcode.Success
}

const helpText = `Usage:
  taskchain                                   List all tasks
  taskchain list [common flags] [--status <status>]
  taskchain add [common flags] --description <text> [--status <status>] <name...>
  taskchain create [common flags] --description <text> [--status <status>] <name...>
  taskchain edit [common flags] [--name <text>] [--description <text>] [--status <status>] <ref>
  taskchain done [common flags] <ref>
  taskchain show [common flags] <ref>
  taskchain rm [common flags] <ref>
  taskchain ui [common flags]                 Interactive task manager
  taskchain login [common flags]              Connect the google backend
  taskchain logout [common flags] [--reset]
  taskchain help
  taskchain version

Task references:
  <n>              Position in the list output (1-based)
  <id>, #<id>      Store id

Statuses:
  Pending, Ongoing, Cancelled, Completed

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
