package controller

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"taskchain/internal/service"
)

type opKind int

const (
	opRefresh opKind = iota
	opCreate
	opUpdate
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	default:
		return "refresh"
	}
}

// Op is a prepared store operation. It snapshots everything it needs from the
// controller, so Run touches no controller state and may run on any goroutine.
type Op struct {
	store service.Store
	kind  opKind

	id     string
	fields service.Fields

	draftRev    uint64
	editSession uint64
	editRev     uint64
	listSeq     *atomic.Uint64
}

// Result is the outcome of Op.Run, to be handed back to Controller.Apply.
type Result struct {
	op Op

	err     error
	listed  bool
	seq     uint64
	tasks   []service.Task
	listErr error
}

// Err returns the first failure of the run: the mutation, else the re-list.
func (r Result) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.listErr
}

// Run performs the remote calls of op: the mutation, then a full re-list if
// the mutation succeeded.
func (op Op) Run(ctx context.Context) Result {
	res := Result{op: op}

	switch op.kind {
	case opCreate:
		res.err = op.store.Create(ctx, op.fields.Name, op.fields.Description, op.fields.Status)
	case opUpdate:
		res.err = op.store.Update(ctx, op.id, op.fields)
	case opDelete:
		res.err = op.store.Delete(ctx, op.id)
	}
	if res.err != nil {
		return res
	}

	// Lists are ordered by when they are sent, not when they return.
	res.seq = op.listSeq.Add(1)
	res.tasks, res.listErr = op.store.List(ctx)
	res.listed = true
	return res
}

// PrepareRefresh prepares a full re-list.
func (c *Controller) PrepareRefresh() Op {
	return c.newOp(opRefresh)
}

// PrepareCreate snapshots the new-task draft for creation.
// It returns a validation error, and no Op, if the draft is incomplete.
func (c *Controller) PrepareCreate() (Op, error) {
	if err := validateDraft(c.draft); err != nil {
		return Op{}, err
	}
	op := c.newOp(opCreate)
	op.fields = service.Fields{
		Name:        c.draft.Name,
		Description: c.draft.Description,
		Status:      c.draft.Status,
	}
	return op, nil
}

// PrepareUpdate snapshots the active edit draft for saving.
// It reports false when Idle.
func (c *Controller) PrepareUpdate() (Op, bool) {
	if c.edit == nil {
		return Op{}, false
	}
	op := c.newOp(opUpdate)
	op.id = c.edit.ID
	op.fields = c.edit.Fields()
	return op, true
}

// PrepareDelete prepares deletion of id.
func (c *Controller) PrepareDelete(id string) Op {
	op := c.newOp(opDelete)
	op.id = id
	return op
}

func (c *Controller) newOp(kind opKind) Op {
	return Op{
		store:       c.store,
		kind:        kind,
		draftRev:    c.draftRev,
		editSession: c.editSession,
		editRev:     c.editRev,
		listSeq:     c.listSeq,
	}
}

// Apply folds a Result into the controller and returns its error, if any.
//
// A re-list replaces the collection unless a later-sent one was already
// applied. Draft transitions apply only if the draft the op was prepared from
// is still the active one and has not been changed since.
func (c *Controller) Apply(res Result) error {
	op := res.op
	log := c.log.With(zap.Stringer("op", op.kind))

	if res.err != nil {
		log.Debug("mutation failed", zap.Error(res.err))
		return res.err
	}

	switch op.kind {
	case opCreate:
		if op.draftRev == c.draftRev {
			c.draft = NewDraft()
			c.draftRev++
		} else {
			log.Debug("draft changed during create, keeping it")
		}
	case opUpdate:
		switch {
		case c.edit == nil || op.editSession != c.editSession:
			log.Debug("edit draft replaced during update, ignoring result")
		case op.editRev != c.editRev:
			log.Debug("edit draft changed during update, keeping it")
		default:
			c.endEdit()
		}
	case opDelete:
		if c.edit != nil && c.edit.ID == op.id {
			log.Debug("deleted task under edit", zap.String("task_id", op.id))
			c.endEdit()
		}
	}

	if res.listed && res.listErr == nil {
		if res.seq > c.listApplied {
			c.tasks = res.tasks
			c.listApplied = res.seq
		} else {
			log.Debug("dropping stale list", zap.Uint64("seq", res.seq))
		}
	}
	return res.listErr
}
