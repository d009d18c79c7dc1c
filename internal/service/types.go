// Package service defines the task model and the typed gateway to the remote store.
package service

import (
	"fmt"
	"strings"
)

// Status is a task's lifecycle label.
// Any status may replace any other on update.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusOngoing   Status = "Ongoing"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusOngoing, StatusCancelled, StatusCompleted}

// Valid reports whether s is one of the four known tags.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOngoing, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Next returns the status after s in display order, wrapping around.
func (s Status) Next() Status {
	return s.step(1)
}

// Prev returns the status before s in display order, wrapping around.
func (s Status) Prev() Status {
	return s.step(len(Statuses) - 1)
}

func (s Status) step(n int) Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+n)%len(Statuses)]
		}
	}
	return StatusPending
}

// ParseStatus parses a status tag (case-insensitive, trimmed).
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status: %s", s)
}

// Task is a persisted task. ID is assigned by the store and never changes.
type Task struct {
	ID          string
	Name        string
	Description string
	Status      Status
}

// Fields holds the mutable fields of a task.
type Fields struct {
	Name        string
	Description string
	Status      Status
}

// Fields returns the mutable fields of t.
func (t Task) Fields() Fields {
	return Fields{Name: t.Name, Description: t.Description, Status: t.Status}
}
