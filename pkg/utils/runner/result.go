package runner

import (
	"errors"
	"fmt"
	"time"
)

// ErrCommandFailed matches every *CommandError with errors.Is.
var ErrCommandFailed = errors.New("command failed")

// Result holds the output of a command execution.
type Result struct {
	RunID     string        // unique identifier for this run
	Command   string        // command as it was logged
	ExitCode  int           // process exit code, -1 if killed by a signal
	Stdout    string        // captured stdout (may be truncated)
	Stderr    string        // captured stderr (may be truncated)
	Duration  time.Duration // wall time until the process exited
	Truncated bool          // true if either stream exceeded the size cap
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// CommandError reports a checked command that exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed with exit code %d", e.Command, e.ExitCode)
}

// Is reports whether target is ErrCommandFailed.
func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}
