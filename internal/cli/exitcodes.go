package cli

import "errors"

// Exit codes for gocbs.
const (
	// ExitSuccess indicates a clean run.
	ExitSuccess = 0

	// ExitIssues indicates diagnostics were found, or fmt --check found
	// files that would be reformatted.
	ExitIssues = 1

	// ExitError indicates a runtime, usage or configuration error.
	ExitError = 2
)

// ErrIssuesFound is returned by commands that completed but found issues.
// It carries no message worth logging.
var ErrIssuesFound = errors.New("issues found")

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrIssuesFound):
		return ExitIssues
	default:
		return ExitError
	}
}
