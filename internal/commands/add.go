package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskchain/internal/config"
	"taskchain/internal/controller"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	status      string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(d string) {
	c.description = d
}

// SetStatus sets the initial status (for testing).
func (c *AddCmd) SetStatus(s string) {
	c.status = s
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskchain add --description <text> [--status <status>] <name...>"
}
func (c *AddCmd) NeedsStore() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	draft := controller.NewDraft()
	draft.Name = strings.Join(args, " ")
	draft.Description = c.description
	if c.status != "" {
		s, err := service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		draft.Status = s
	}

	// The draft is checked before any remote call.
	ctl := controller.New(store, cfg.Logger())
	ctl.SetDraft(draft)
	if err := ctl.SubmitCreate(ctx); err != nil {
		return reportError(errOut, err)
	}
	return ok(cfg, out)
}
