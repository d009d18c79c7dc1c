package service

import "fmt"

// StatusRecord is the wire shape of a status: a single-key record whose key
// is the tag and whose value is unit, e.g. {"Pending": null}.
type StatusRecord map[string]*struct{}

// Record is the wire shape of a task as exchanged with a Backend.
type Record struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      StatusRecord `json:"status"`
}

// RecordFields is the wire shape of a create or update payload.
type RecordFields struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      StatusRecord `json:"status"`
}

// EncodeStatus converts a status tag into its wire record.
func EncodeStatus(s Status) StatusRecord {
	return StatusRecord{string(s): nil}
}

// DecodeStatus converts a wire record into a status tag.
// The record must carry exactly one known tag.
func DecodeStatus(rec StatusRecord) (Status, error) {
	if len(rec) != 1 {
		return "", fmt.Errorf("status record must have exactly one tag, got %d", len(rec))
	}
	for tag := range rec {
		s := Status(tag)
		if !s.Valid() {
			return "", fmt.Errorf("unknown status tag: %s", tag)
		}
		return s, nil
	}
	return "", nil
}

// EncodeFields converts mutable fields into their wire payload.
func EncodeFields(f Fields) RecordFields {
	return RecordFields{
		Name:        f.Name,
		Description: f.Description,
		Status:      EncodeStatus(f.Status),
	}
}

// DecodeRecord converts a wire record into a Task.
func DecodeRecord(rec Record) (Task, error) {
	status, err := DecodeStatus(rec.Status)
	if err != nil {
		return Task{}, fmt.Errorf("task %s: %w", rec.ID, err)
	}
	return Task{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Status:      status,
	}, nil
}
