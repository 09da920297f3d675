// Package cli provides the command-line surface of azdhooks.
//
//   - cli/cmd: Root command, one subcommand per phase, init, list and schema
//   - cli/ui/errorhandler: Cobra execution with normalized error messages
package cli
