// Package runner executes commands for hooks and captures their output.
//
// Commands run either through the platform shell ([Runner.Run]) or directly
// from an argument vector ([Runner.Exec]). Shell mode interprets pipes,
// redirection and variable expansion and performs no sanitisation, so only
// trusted input should reach it.
//
// Check mode is on by default: a non-zero exit code is logged and the whole
// process exits with status 1. Pass [Unchecked] to inspect the exit code
// instead.
package runner
