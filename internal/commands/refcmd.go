package commands

import (
	"context"
	"fmt"
	"io"

	"taskchain/internal/config"
	"taskchain/internal/controller"
	"taskchain/internal/exitcode"
	"taskchain/internal/service"
)

// loadRef parses args as a task reference, loads the collection and resolves
// the reference. On failure it prints the error and returns a non-zero code.
func loadRef(ctx context.Context, cfg *config.Config, store service.Store, args []string, errOut io.Writer) (*controller.Controller, service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}

	ctl, err := newController(ctx, cfg, store)
	if err != nil {
		return nil, service.Task{}, reportError(errOut, err)
	}

	task, err := ref.Resolve(ctl)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}
	return ctl, task, exitcode.Success
}
