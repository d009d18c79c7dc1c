// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"taskchain/internal/service"
)

// ErrNotFound is returned when a task id is not found.
var ErrNotFound = errors.New("not found")

// Call is one recorded backend call.
type Call struct {
	Op     string // "list", "create", "update" or "delete"
	ID     string
	Fields service.RecordFields
}

// FakeBackend is an in-memory implementation of service.Backend for testing.
// IDs are assigned sequentially starting at "1".
type FakeBackend struct {
	mu     sync.RWMutex
	tasks  []service.Record
	nextID int
	calls  []Call

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// DeleteMissingOK makes DeleteTask succeed for unknown ids.
	DeleteMissingOK bool
}

// NewFakeBackend creates an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{nextID: 1}
}

// AddTask seeds a task without recording a call and returns its id.
func (f *FakeBackend) AddTask(name, description string, status service.Status) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := strconv.Itoa(f.nextID)
	f.nextID++
	f.tasks = append(f.tasks, service.Record{
		ID:          id,
		Name:        name,
		Description: description,
		Status:      service.EncodeStatus(status),
	})
	return id
}

// AddRecord seeds a raw wire record without recording a call.
func (f *FakeBackend) AddRecord(rec service.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, rec)
}

// Calls returns the recorded calls in order.
func (f *FakeBackend) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallOps returns the op names of the recorded calls in order.
func (f *FakeBackend) CallOps() []string {
	calls := f.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// ResetCalls clears the call log.
func (f *FakeBackend) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Tasks returns the stored tasks decoded, in store order.
func (f *FakeBackend) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, 0, len(f.tasks))
	for _, rec := range f.tasks {
		t, err := service.DecodeRecord(rec)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ListTasks implements service.Backend.
func (f *FakeBackend) ListTasks(ctx context.Context) ([]service.Record, error) {
	f.record(Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Record, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Backend.
func (f *FakeBackend) CreateTask(ctx context.Context, fields service.RecordFields) error {
	f.record(Call{Op: "create", Fields: fields})
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	id := strconv.Itoa(f.nextID)
	f.nextID++
	f.tasks = append(f.tasks, service.Record{
		ID:          id,
		Name:        fields.Name,
		Description: fields.Description,
		Status:      fields.Status,
	})
	return nil
}

// UpdateTask implements service.Backend.
func (f *FakeBackend) UpdateTask(ctx context.Context, id string, fields service.RecordFields) error {
	f.record(Call{Op: "update", ID: id, Fields: fields})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Name = fields.Name
			f.tasks[i].Description = fields.Description
			f.tasks[i].Status = fields.Status
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Backend.
func (f *FakeBackend) DeleteTask(ctx context.Context, id string) error {
	f.record(Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	if f.DeleteMissingOK {
		return nil
	}
	return ErrNotFound
}

func (f *FakeBackend) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}
