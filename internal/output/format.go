// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskchain/internal/service"
)

// FormatTask formats one task line.
// Format: "{N:>4}  {NAME} - {DESCRIPTION} ({STATUS})\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s - %s (%s)\n",
		num, normalizeName(task.Name), singleLine(task.Description), task.Status)
}

// FormatTaskDetail formats a task with its id, for `show`.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:          %s\n", task.ID)
	fmt.Fprintf(w, "name:        %s\n", normalizeName(task.Name))
	fmt.Fprintf(w, "description: %s\n", singleLine(task.Description))
	fmt.Fprintf(w, "status:      %s\n", task.Status)
}

// normalizeName normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeName(name string) string {
	name = singleLine(name)
	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
