package commands

import (
	"context"
	"flag"
	"io"

	"taskchain/internal/config"
	"taskchain/internal/controller"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: a shortcut for edit --status Completed.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskchain done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	ctl, task, code := loadRef(ctx, cfg, store, args, errOut)
	if code != exitcode.Success {
		return code
	}

	fields := task.Fields()
	fields.Status = service.StatusCompleted
	return saveEdit(ctx, cfg, ctl, task.ID, fields, out, errOut)
}

// saveEdit runs the edit workflow for id: begin, set fields, submit.
func saveEdit(ctx context.Context, cfg *config.Config, ctl *controller.Controller, id string, fields service.Fields, out, errOut io.Writer) int {
	if err := ctl.BeginEdit(id); err != nil {
		return reportError(errOut, err)
	}
	if err := ctl.SetEdit(fields); err != nil {
		return reportError(errOut, err)
	}
	if err := ctl.SubmitUpdate(ctx); err != nil {
		return reportError(errOut, err)
	}
	return ok(cfg, out)
}
