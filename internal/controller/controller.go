// Package controller owns the local task collection and the create/edit/delete
// workflow on top of a service.Store.
//
// The collection is only ever replaced wholesale by a full re-list after a
// mutation succeeds; it is never patched in place. A Controller is not safe
// for concurrent use: every method must be called from one goroutine. Remote
// work can be moved elsewhere with the Prepare/Run/Apply split in op.go.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"taskchain/internal/service"
)

// ErrUnknownTask is returned by BeginEdit for an id missing from the local collection.
var ErrUnknownTask = errors.New("task not found")

// Mode is the workflow state.
type Mode int

const (
	// Idle means no edit draft is active.
	Idle Mode = iota
	// Editing means exactly one task's edit draft is buffered.
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "idle"
}

// Draft is the buffered new-task form.
type Draft struct {
	Name        string
	Description string
	Status      service.Status
}

// NewDraft returns an empty draft with status Pending.
func NewDraft() Draft {
	return Draft{Status: service.StatusPending}
}

// Controller holds the local view of the remote store.
type Controller struct {
	store service.Store
	log   *zap.Logger

	tasks []service.Task

	draft    Draft
	draftRev uint64

	edit        *service.Task
	editSession uint64
	editRev     uint64

	// listSeq is shared with in-flight Ops; everything else is mutator-only.
	listSeq     *atomic.Uint64
	listApplied uint64
}

// New creates an Idle controller with an empty collection and a default draft.
// Call Refresh to load the collection.
func New(store service.Store, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:   store,
		log:     log,
		draft:   NewDraft(),
		listSeq: new(atomic.Uint64),
	}
}

// Tasks returns a copy of the local collection in store order.
func (c *Controller) Tasks() []service.Task {
	out := make([]service.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Find looks up a task in the local collection.
func (c *Controller) Find(id string) (service.Task, bool) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Draft returns the new-task draft.
func (c *Controller) Draft() Draft {
	return c.draft
}

// SetDraft replaces the new-task draft.
func (c *Controller) SetDraft(d Draft) {
	c.draft = d
	c.draftRev++
}

// Mode returns the current workflow state.
func (c *Controller) Mode() Mode {
	if c.edit != nil {
		return Editing
	}
	return Idle
}

// Editing returns the active edit draft, if any.
func (c *Controller) Editing() (service.Task, bool) {
	if c.edit == nil {
		return service.Task{}, false
	}
	return *c.edit, true
}

// BeginEdit copies the stored fields of id into a fresh edit draft.
// Any active edit draft is discarded first, without a remote call.
func (c *Controller) BeginEdit(id string) error {
	t, ok := c.Find(id)
	if !ok {
		return ErrUnknownTask
	}
	if c.edit != nil && c.edit.ID != id {
		c.log.Debug("discarding edit draft", zap.String("task_id", c.edit.ID))
	}
	c.edit = &t
	c.editSession++
	c.log.Debug("begin edit", zap.String("task_id", id))
	return nil
}

// SetEdit replaces the mutable fields of the active edit draft.
// It is a no-op when Idle. An unknown status is rejected and the draft kept.
func (c *Controller) SetEdit(f service.Fields) error {
	if c.edit == nil {
		return nil
	}
	if !f.Status.Valid() {
		return service.ValidationError("update", "invalid status: "+string(f.Status))
	}
	c.edit.Name = f.Name
	c.edit.Description = f.Description
	c.edit.Status = f.Status
	c.editRev++
	return nil
}

// CancelEdit discards the active edit draft without a remote call.
func (c *Controller) CancelEdit() {
	if c.edit == nil {
		return
	}
	c.log.Debug("cancel edit", zap.String("task_id", c.edit.ID))
	c.endEdit()
}

func (c *Controller) endEdit() {
	c.edit = nil
	c.editSession++
}

// Refresh replaces the local collection with a full re-list.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Apply(c.PrepareRefresh().Run(ctx))
}

// SubmitCreate creates a task from the new-task draft.
// An empty name or description is rejected locally with a validation error.
// On success the collection is refreshed and the draft reset; on failure the
// draft is kept.
func (c *Controller) SubmitCreate(ctx context.Context) error {
	op, err := c.PrepareCreate()
	if err != nil {
		return err
	}
	return c.Apply(op.Run(ctx))
}

// SubmitUpdate saves the active edit draft. It is a no-op when Idle.
// On success the collection is refreshed and the controller goes Idle; on
// failure it stays Editing with the draft intact.
func (c *Controller) SubmitUpdate(ctx context.Context) error {
	op, ok := c.PrepareUpdate()
	if !ok {
		return nil
	}
	return c.Apply(op.Run(ctx))
}

// SubmitDelete deletes the task with id and refreshes on success.
// Deleting the task under edit ends the edit.
func (c *Controller) SubmitDelete(ctx context.Context, id string) error {
	return c.Apply(c.PrepareDelete(id).Run(ctx))
}

func validateDraft(d Draft) error {
	if strings.TrimSpace(d.Name) == "" {
		return service.ValidationError("create", "name required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return service.ValidationError("create", "description required")
	}
	if !d.Status.Valid() {
		return service.ValidationError("create", "invalid status: "+string(d.Status))
	}
	return nil
}
