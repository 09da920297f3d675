package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/devantler-tech/azdhooks/pkg/utils/notify"
	"github.com/google/uuid"
)

// DefaultMaxOutput caps each captured stream at 1 MiB.
const DefaultMaxOutput = 1 << 20

// exitCodeNotFound mirrors the shell's status for a command that cannot be found.
const exitCodeNotFound = 127

// waitDelay bounds how long Wait blocks on pipes held open by background
// children once the command has exited or been killed.
const waitDelay = 2 * time.Second

// ErrEmptyArgv is returned by Exec when no command is given.
var ErrEmptyArgv = errors.New("empty argv")

// Runner executes commands synchronously and captures their output.
type Runner struct {
	logger    *notify.Logger
	shell     []string
	dir       string
	env       []string
	timeout   time.Duration
	maxOutput int
	exit      func(int)
}

// Option configures a Runner.
type Option func(*Runner)

// WithShell replaces the shell used by Run. The command string is appended
// as the last argument, e.g. WithShell("bash", "-euo", "pipefail", "-c").
func WithShell(shell ...string) Option {
	return func(r *Runner) {
		if len(shell) > 0 {
			r.shell = slices.Clone(shell)
		}
	}
}

// WithDir sets the default working directory. Empty means the process directory.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithEnv adds variables to the environment of every command.
func WithEnv(vars map[string]string) Option {
	return func(r *Runner) {
		r.env = append(r.env, envList(vars)...)
	}
}

// WithTimeout kills commands that run longer than timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// WithMaxOutput caps each captured stream at limit bytes.
func WithMaxOutput(limit int) Option {
	return func(r *Runner) {
		if limit > 0 {
			r.maxOutput = limit
		}
	}
}

// WithExitFunc replaces os.Exit for failed checked commands.
func WithExitFunc(exit func(int)) Option {
	return func(r *Runner) {
		if exit != nil {
			r.exit = exit
		}
	}
}

// New creates a Runner that logs through logger.
func New(logger *notify.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger:    logger,
		shell:     DefaultShell(),
		maxOutput: DefaultMaxOutput,
		exit:      os.Exit,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// DefaultShell returns the shell prefix for the current platform.
func DefaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C"}
	}

	return []string{"/bin/sh", "-c"}
}

// RunOption adjusts a single Run or Exec call.
type RunOption func(*call)

type call struct {
	check bool
	dir   string
	env   []string
}

// Unchecked returns the result of a non-zero exit instead of exiting the process.
func Unchecked() RunOption {
	return func(c *call) {
		c.check = false
	}
}

// InDir runs the command in dir. Relative paths resolve against the runner's directory.
func InDir(dir string) RunOption {
	return func(c *call) {
		c.dir = dir
	}
}

// Env adds variables to the environment of this command only.
func Env(vars map[string]string) RunOption {
	return func(c *call) {
		c.env = append(c.env, envList(vars)...)
	}
}

// Run executes command through the shell.
// An empty command is passed to the shell unchanged.
func (r *Runner) Run(ctx context.Context, command string, opts ...RunOption) (*Result, error) {
	argv := append(slices.Clone(r.shell), command)

	return r.execute(ctx, command, argv, opts)
}

// Exec executes argv directly. The first element is the binary name
// (resolved via PATH) and no shell interpretation takes place.
func (r *Runner) Exec(ctx context.Context, argv []string, opts ...RunOption) (*Result, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyArgv
	}

	return r.execute(ctx, strings.Join(argv, " "), argv, opts)
}

func (r *Runner) execute(
	ctx context.Context,
	display string,
	argv []string,
	opts []RunOption,
) (*Result, error) {
	settings := call{check: true}
	for _, opt := range opts {
		opt(&settings)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	runID := uuid.New().String()
	r.logger.Debugf("Executing command: %s", display)

	//nolint:gosec // running caller-supplied commands is the purpose of this package
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.resolveDir(settings.dir)
	cmd.WaitDelay = waitDelay

	if len(r.env) > 0 || len(settings.env) > 0 {
		cmd.Env = append(append(os.Environ(), r.env...), settings.env...)
	}

	var stdout, stderr bytes.Buffer

	outWriter := &limitWriter{buf: &stdout, limit: r.maxOutput}
	errWriter := &limitWriter{buf: &stderr, limit: r.maxOutput}
	cmd.Stdout = outWriter
	cmd.Stderr = errWriter

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	exitCode, err := exitCodeOf(cmd, runErr, &stderr)
	if err != nil {
		return nil, fmt.Errorf("executing %s: %w", argv[0], err)
	}

	r.logger.Debugf("Command completed with exit code: %d", exitCode)

	result := &Result{
		RunID:     runID,
		Command:   display,
		ExitCode:  exitCode,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  duration,
		Truncated: outWriter.truncated || errWriter.truncated,
	}

	if exitCode != 0 && settings.check {
		r.logger.Errorf("Command failed with exit code %d: %s", exitCode, display)
		r.exit(1)

		return result, &CommandError{
			Command:  display,
			ExitCode: exitCode,
			Stderr:   result.Stderr,
		}
	}

	return result, nil
}

func (r *Runner) resolveDir(dir string) string {
	switch {
	case dir == "":
		return r.dir
	case filepath.IsAbs(dir) || r.dir == "":
		return dir
	default:
		return filepath.Join(r.dir, dir)
	}
}

// exitCodeOf maps the error from exec.Cmd.Run to an exit code. Errors that
// are not about the command's exit status are returned unchanged.
func exitCodeOf(cmd *exec.Cmd, runErr error, stderr *bytes.Buffer) (int, error) {
	if runErr == nil {
		return 0, nil
	}

	// The command exited but a background child kept its output open.
	if errors.Is(runErr, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	var execErr *exec.Error
	if errors.As(runErr, &execErr) {
		stderr.WriteString(execErr.Error())

		return exitCodeNotFound, nil
	}

	return 0, runErr
}

func envList(vars map[string]string) []string {
	list := make([]string, 0, len(vars))
	for key, value := range vars {
		list = append(list, key+"="+value)
	}

	sort.Strings(list)

	return list
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
// truncated is set once a byte has actually been discarded.
type limitWriter struct {
	buf       *bytes.Buffer
	limit     int
	truncated bool
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		w.truncated = true

		return len(p), nil
	}

	if len(p) > remaining {
		w.truncated = true

		// Report all bytes as consumed to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])

		return len(p), nil
	}

	n, err := w.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("buffer output: %w", err)
	}

	return n, nil
}
