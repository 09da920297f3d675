package di

import (
	"fmt"
	"io"

	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/devantler-tech/azdhooks/pkg/utils/notify"
	"github.com/devantler-tech/azdhooks/pkg/utils/runner"
	"github.com/devantler-tech/azdhooks/pkg/utils/timer"
	"github.com/samber/do/v2"
)

// Dependency names for values that share a type.
const (
	OutputName   = "azdhooks.output"
	ExitFuncName = "azdhooks.exit"
)

// NewRuntime constructs the shared runtime container used by the root command and tests.
// It registers the timer, logger and runner providers. The configuration and
// output are supplied per invocation with ProvideLoaded or ProvideConfig and
// with ProvideOutput.
func NewRuntime(modules ...Module) *Runtime {
	return New(append([]Module{
		provideTimer,
		provideLogger,
		provideRunner,
	}, modules...)...)
}

// ProvideConfig registers a loaded configuration.
func ProvideConfig(cfg *config.Config) Module {
	return func(i Injector) error {
		do.ProvideValue(i, cfg)

		return nil
	}
}

// ProvideLoaded registers a loaded configuration together with the file it came from.
func ProvideLoaded(loaded *config.Loaded) Module {
	return func(i Injector) error {
		do.ProvideValue(i, loaded)
		do.ProvideValue(i, loaded.Config)

		return nil
	}
}

// ProvideOutput registers the writer log records go to.
func ProvideOutput(w io.Writer) Module {
	return func(i Injector) error {
		do.ProvideNamedValue(i, OutputName, w)

		return nil
	}
}

// ProvideExitFunc replaces os.Exit as the runner's fail-fast exit.
func ProvideExitFunc(exit func(int)) Module {
	return func(i Injector) error {
		do.ProvideNamedValue(i, ExitFuncName, exit)

		return nil
	}
}

// provideTimer registers the timer dependency with the injector.
func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

// provideLogger builds the logger from the log section of the configuration.
func provideLogger(i Injector) error {
	do.Provide(i, func(i Injector) (*notify.Logger, error) {
		cfg, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		level, err := notify.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}

		opts := []notify.Option{notify.WithLevel(level)}

		out, err := do.InvokeNamed[io.Writer](i, OutputName)
		if err == nil {
			opts = append(opts, notify.WithOutput(out))
		}

		switch cfg.Log.Color {
		case config.ColorAlways:
			opts = append(opts, notify.WithColor(true))
		case config.ColorNever:
			opts = append(opts, notify.WithColor(false))
		}

		return notify.NewLogger(opts...), nil
	})

	return nil
}

// provideRunner builds the command runner from the runner section of the configuration.
func provideRunner(i Injector) error {
	do.Provide(i, func(i Injector) (*runner.Runner, error) {
		cfg, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		logger, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}

		opts := []runner.Option{
			runner.WithDir(cfg.Runner.Dir),
			runner.WithTimeout(cfg.Runner.Timeout),
		}

		if len(cfg.Runner.Shell) > 0 {
			opts = append(opts, runner.WithShell(cfg.Runner.Shell...))
		}

		if cfg.Runner.MaxOutput > 0 {
			opts = append(opts, runner.WithMaxOutput(cfg.Runner.MaxOutput))
		}

		exit, err := do.InvokeNamed[func(int)](i, ExitFuncName)
		if err == nil {
			opts = append(opts, runner.WithExitFunc(exit))
		}

		return runner.New(logger, opts...), nil
	})

	return nil
}
