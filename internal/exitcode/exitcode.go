// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error: bad args, unknown task, invalid draft.
	UserError = 1

	// AuthError indicates an auth or config error.
	AuthError = 2

	// BackendError indicates a task store, network or decoding error.
	BackendError = 3
)
