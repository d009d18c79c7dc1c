package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskchain/internal/logger"
)

// Backend is the remote task store as seen on the wire.
// Implementations speak Records and StatusRecords; they never see Status tags.
type Backend interface {
	// ListTasks returns the complete collection in store order.
	ListTasks(ctx context.Context) ([]Record, error)

	// CreateTask creates a task. The store assigns the id.
	CreateTask(ctx context.Context, fields RecordFields) error

	// UpdateTask replaces all mutable fields of the task with the given id.
	UpdateTask(ctx context.Context, id string, fields RecordFields) error

	// DeleteTask removes the task with the given id.
	// Whether a missing id is reported is store-defined.
	DeleteTask(ctx context.Context, id string) error
}

// Store is the typed gateway used by the controller.
// All errors returned are remote Errors.
type Store interface {
	List(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, name, description string, status Status) error
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
}

// Client implements Store over a Backend. It holds no task state.
type Client struct {
	backend Backend
	log     *zap.Logger
}

// NewClient creates a store client. A nil log disables logging.
func NewClient(backend Backend, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{backend: backend, log: log}
}

// List fetches and decodes the full collection.
// A record with an undecodable status fails the whole call.
func (c *Client) List(ctx context.Context) ([]Task, error) {
	ctx, log := c.begin(ctx, "list")

	recs, err := c.backend.ListTasks(ctx)
	if err != nil {
		log.Debug("list failed", zap.Error(err))
		return nil, RemoteError("list", err)
	}

	tasks := make([]Task, 0, len(recs))
	for _, rec := range recs {
		t, err := DecodeRecord(rec)
		if err != nil {
			return nil, RemoteError("list", err)
		}
		tasks = append(tasks, t)
	}
	log.Debug("list ok", zap.Int("count", len(tasks)))
	return tasks, nil
}

// Create issues a create call. The new id is not returned; callers re-list.
func (c *Client) Create(ctx context.Context, name, description string, status Status) error {
	ctx, log := c.begin(ctx, "create")

	fields := EncodeFields(Fields{Name: name, Description: description, Status: status})
	if err := c.backend.CreateTask(ctx, fields); err != nil {
		log.Debug("create failed", zap.Error(err))
		return RemoteError("create", err)
	}
	log.Debug("create ok")
	return nil
}

// Update replaces name, description and status of the task with id.
func (c *Client) Update(ctx context.Context, id string, fields Fields) error {
	ctx, log := c.begin(ctx, "update")
	log = log.With(zap.String("task_id", id))

	if err := c.backend.UpdateTask(ctx, id, EncodeFields(fields)); err != nil {
		log.Debug("update failed", zap.Error(err))
		return RemoteError("update", err)
	}
	log.Debug("update ok")
	return nil
}

// Delete removes the task with id.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, log := c.begin(ctx, "delete")
	log = log.With(zap.String("task_id", id))

	if err := c.backend.DeleteTask(ctx, id); err != nil {
		log.Debug("delete failed", zap.Error(err))
		return RemoteError("delete", err)
	}
	log.Debug("delete ok")
	return nil
}

// begin tags ctx with a fresh request id and returns a logger carrying it.
func (c *Client) begin(ctx context.Context, op string) (context.Context, *zap.Logger) {
	ctx = logger.ContextWithRequestID(ctx, uuid.NewString())
	return ctx, logger.WithRequestID(ctx, c.log).With(zap.String("op", op))
}
