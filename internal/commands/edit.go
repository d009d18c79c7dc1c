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
	Register(&EditCmd{})
}

// optionalString is a string flag that remembers whether it was set.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	name        optionalString
	description optionalString
	status      optionalString
}

// SetName sets the new name (for testing).
func (c *EditCmd) SetName(v string) { c.name.Set(v) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(v string) { c.description.Set(v) }

// SetStatus sets the new status (for testing).
func (c *EditCmd) SetStatus(v string) { c.status.Set(v) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's fields" }
func (c *EditCmd) Usage() string {
	return "taskchain edit [--name <text>] [--description <text>] [--status <status>] <ref>"
}
func (c *EditCmd) NeedsStore() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.name, "name", "")
	fs.Var(&c.name, "n", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.status, "s", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if !c.name.set && !c.description.set && !c.status.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --name, --description or --status)")
		return exitcode.UserError
	}

	var status service.Status
	if c.status.set {
		s, err := service.ParseStatus(c.status.value)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		status = s
	}

	ctl, task, code := loadRef(ctx, cfg, store, args, errOut)
	if code != exitcode.Success {
		return code
	}

	fields := task.Fields()
	if c.name.set {
		fields.Name = c.name.value
	}
	if c.description.set {
		fields.Description = c.description.value
	}
	if c.status.set {
		fields.Status = status
	}

	return saveEdit(ctx, cfg, ctl, task.ID, fields, out, errOut)
}
