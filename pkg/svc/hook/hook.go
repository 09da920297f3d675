package hook

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"github.com/devantler-tech/azdhooks/pkg/utils/envvar"
	"github.com/devantler-tech/azdhooks/pkg/utils/notify"
	"github.com/devantler-tech/azdhooks/pkg/utils/runner"
	"github.com/devantler-tech/azdhooks/pkg/utils/timer"
)

// Context is handed to every step of a running hook.
type Context struct {
	Phase   lifecycle.Phase
	EnvName string
	Env     envvar.Source
	Logger  *notify.Logger
	Runner  *runner.Runner
}

// StepFunc performs one unit of hook work.
type StepFunc func(ctx context.Context, hc *Context) error

// Step is a named unit of hook work.
type Step struct {
	Name string
	Run  StepFunc
}

// Hook runs the steps of one lifecycle phase.
type Hook struct {
	phase  lifecycle.Phase
	logger *notify.Logger
	runner *runner.Runner
	env    envvar.Source
	timer  timer.Timer
	timing bool
	steps  []Step
}

// Option configures a Hook.
type Option func(*Hook)

// WithSteps appends steps to the hook.
func WithSteps(steps ...Step) Option {
	return func(h *Hook) {
		h.steps = append(h.steps, steps...)
	}
}

// WithEnv replaces the process environment as the source of variables.
func WithEnv(env envvar.Source) Option {
	return func(h *Hook) {
		h.env = env
	}
}

// WithRunner sets the runner handed to steps.
func WithRunner(r *runner.Runner) Option {
	return func(h *Hook) {
		h.runner = r
	}
}

// WithTimer replaces the wall-clock timer.
func WithTimer(tmr timer.Timer) Option {
	return func(h *Hook) {
		if tmr != nil {
			h.timer = tmr
		}
	}
}

// WithTiming appends the hook duration to the success line.
func WithTiming(enabled bool) Option {
	return func(h *Hook) {
		h.timing = enabled
	}
}

// New creates a hook for phase. Records are logged under the phase name.
// Without WithRunner, steps get a runner built on the same logger.
func New(phase lifecycle.Phase, logger *notify.Logger, opts ...Option) *Hook {
	named := logger.Named(string(phase))

	h := &Hook{
		phase:  phase,
		logger: named,
		env:    envvar.Process(),
		timer:  timer.New(),
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.runner == nil {
		h.runner = runner.New(named)
	}

	return h
}

// Phase returns the lifecycle phase the hook serves.
func (h *Hook) Phase() lifecycle.Phase {
	return h.phase
}

// Steps returns the names of the hook's steps in run order.
func (h *Hook) Steps() []string {
	names := make([]string, len(h.steps))
	for i, step := range h.steps {
		names[i] = step.Name
	}

	return names
}

// Outcome is the result of one hook run.
type Outcome struct {
	Phase    lifecycle.Phase
	EnvName  string
	Err      error
	Trace    string
	Duration time.Duration
}

// Succeeded reports whether every step completed.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// ExitCode maps the outcome to the process exit status: 0 or 1.
func (o Outcome) ExitCode() int {
	if o.Succeeded() {
		return 0
	}

	return 1
}

// Execute runs the hook and logs its start, environment and result.
// Errors and panics from steps never escape; they are logged with a trace
// and reported through the Outcome.
func (h *Hook) Execute(ctx context.Context) Outcome {
	title := h.phase.Title()

	h.timer.Start()
	h.logger.Start(fmt.Sprintf("Starting %s hook...", strings.ToLower(title)))

	envName := h.env.EnvName()
	h.logger.Infof("Environment: %s", envName)

	hc := &Context{
		Phase:   h.phase,
		EnvName: envName,
		Env:     h.env,
		Logger:  h.logger,
		Runner:  h.runner,
	}

	err := h.runSteps(ctx, hc)

	h.timer.Stop()
	total, _ := h.timer.GetTiming()

	outcome := Outcome{
		Phase:    h.phase,
		EnvName:  envName,
		Err:      err,
		Duration: total,
	}

	if err != nil {
		outcome.Trace = Trace(err)
		h.logger.Errorf("%s hook failed: %v", title, err)
		h.logger.Exception("Full traceback:", outcome.Trace)

		return outcome
	}

	message := fmt.Sprintf("%s hook completed successfully (environment: %s)", title, envName)
	if h.timing {
		message += fmt.Sprintf(" in %s", total.Round(time.Millisecond))
	}

	h.logger.Success(message)

	return outcome
}

func (h *Hook) runSteps(ctx context.Context, hc *Context) error {
	for i, step := range h.steps {
		err := ctx.Err()
		if err != nil {
			return fmt.Errorf("before step %q: %w", step.Name, err)
		}

		h.logger.Infof("Running step %d/%d: %s", i+1, len(h.steps), step.Name)
		h.timer.NewStage()

		err = runStep(ctx, hc, step)
		if err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
	}

	return nil
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runStep(ctx context.Context, hc *Context, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return step.Run(ctx, hc)
}
