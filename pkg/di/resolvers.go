package di

import (
	"fmt"

	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/devantler-tech/azdhooks/pkg/utils/notify"
	"github.com/devantler-tech/azdhooks/pkg/utils/runner"
	"github.com/devantler-tech/azdhooks/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveConfig retrieves the loaded configuration.
func ResolveConfig(injector Injector) (*config.Config, error) {
	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve config dependency: %w", err)
	}

	return cfg, nil
}

// ResolveLogger retrieves the logger.
func ResolveLogger(injector Injector) (*notify.Logger, error) {
	logger, err := do.Invoke[*notify.Logger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}

	return logger, nil
}

// ResolveRunner retrieves the command runner.
func ResolveRunner(injector Injector) (*runner.Runner, error) {
	r, err := do.Invoke[*runner.Runner](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve runner dependency: %w", err)
	}

	return r, nil
}

// ResolveTimer retrieves the timer dependency from the injector with consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// Dependencies groups everything a hook command needs.
type Dependencies struct {
	Config *config.Config
	Logger *notify.Logger
	Runner *runner.Runner
	Timer  timer.Timer
}

// Handler decorators.

// WithDependencies decorates a handler to resolve all hook dependencies up front.
func WithDependencies(
	handler func(cmd *cobra.Command, deps Dependencies) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		var (
			deps Dependencies
			err  error
		)

		deps.Config, err = ResolveConfig(injector)
		if err != nil {
			return err
		}

		deps.Logger, err = ResolveLogger(injector)
		if err != nil {
			return err
		}

		deps.Runner, err = ResolveRunner(injector)
		if err != nil {
			return err
		}

		deps.Timer, err = ResolveTimer(injector)
		if err != nil {
			return err
		}

		return handler(cmd, deps)
	}
}
