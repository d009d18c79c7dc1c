package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskchain/internal/controller"
	"taskchain/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position in the listing, 0 if ID is set
	ID  string // store id, used when the reference is not a number
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. If the first arg is all digits → position in `taskchain list`
// 2. If the first arg is "#<id>" or "id:<id>" → store id
// 3. Any other non-empty arg → store id
// Extra arguments are rejected.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	for _, prefix := range []string{"#", "id:"} {
		if id, ok := strings.CutPrefix(arg, prefix); ok {
			if id == "" {
				return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
			}
			return TaskRef{ID: id}, nil
		}
	}
	return TaskRef{ID: arg}, nil
}

// String returns the reference as the user typed it.
func (r TaskRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Num)
}

// Resolve finds the referenced task in the controller's collection.
func (r TaskRef) Resolve(ctl *controller.Controller) (service.Task, error) {
	if r.ID != "" {
		t, ok := ctl.Find(r.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("task not found: %s", r.ID)
		}
		return t, nil
	}

	tasks := ctl.Tasks()
	if r.Num < 1 || r.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", r.Num)
	}
	return tasks[r.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
