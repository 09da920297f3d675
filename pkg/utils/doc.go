// Package utils provides utility packages shared by every hook.
//
//   - envvar: Environment variable lookup with defaults and ${VAR} expansion
//   - notify: Symbol-prefixed, timestamped log records
//   - runner: Shell and argv command execution with captured output
//   - timer: Elapsed time tracking for a hook run and its steps
package utils
