// Package hook runs an azd lifecycle hook.
//
// A [Hook] moves through Start → Running → {Succeeded, Failed}. [Hook.Execute]
// is the entrypoint boundary: it logs the start line and the environment
// name, runs the configured steps, and converts any returned error or panic
// into a failed [Outcome] whose exit code is 1.
package hook
