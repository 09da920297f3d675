package hook

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/devantler-tech/azdhooks/pkg/utils/runner"
)

// StepsFromConfig builds the steps described by a hook's configuration.
// A require_env list becomes a leading step that fails with [ErrMissingEnv].
func StepsFromConfig(cfg config.HookConfig) []Step {
	steps := make([]Step, 0, len(cfg.Steps)+1)

	if len(cfg.RequireEnv) > 0 {
		steps = append(steps, RequireEnv(cfg.RequireEnv...))
	}

	for _, sc := range cfg.Steps {
		steps = append(steps, Step{Name: sc.DisplayName(), Run: commandStep(sc)})
	}

	return steps
}

// RequireEnv returns a step that fails unless every name is bound.
func RequireEnv(names ...string) Step {
	return Step{
		Name: "require environment",
		Run: func(_ context.Context, hc *Context) error {
			missing := hc.Env.Missing(names...)
			if len(missing) > 0 {
				return fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
			}

			hc.Logger.Debugf("Required environment variables present: %s", strings.Join(names, ", "))

			return nil
		},
	}
}

func commandStep(sc config.StepConfig) StepFunc {
	return func(ctx context.Context, hc *Context) error {
		opts := []runner.RunOption{
			runner.InDir(expand(hc, sc.Dir)),
			runner.Env(expandValues(hc, sc.Env)),
		}

		if !sc.Checked() {
			opts = append(opts, runner.Unchecked())
		}

		var (
			res *runner.Result
			err error
		)

		if sc.Run != "" {
			res, err = hc.Runner.Run(ctx, expand(hc, sc.Run), opts...)
		} else {
			argv := make([]string, len(sc.Args))
			for i, arg := range sc.Args {
				argv[i] = expand(hc, arg)
			}

			res, err = hc.Runner.Exec(ctx, argv, opts...)
		}

		if err != nil {
			return err
		}

		reportOutput(hc, sc.DisplayName(), res)

		return nil
	}
}

func reportOutput(hc *Context, name string, res *runner.Result) {
	if out := strings.TrimSpace(res.Stdout); out != "" {
		hc.Logger.Info(out)
	}

	if res.Truncated {
		hc.Logger.Warningf("Output of step %q was truncated", name)
	}

	errOut := strings.TrimSpace(res.Stderr)

	if res.Success() {
		if errOut != "" {
			hc.Logger.Debug(errOut)
		}

		return
	}

	if errOut != "" {
		hc.Logger.Warning(errOut)
	}

	hc.Logger.Warningf("Step %q exited with code %d, continuing", name, res.ExitCode)
}

func expand(hc *Context, value string) string {
	expanded, missing := hc.Env.Expand(value)
	for _, name := range missing {
		hc.Logger.Warningf("Environment variable %s is not set", name)
	}

	return expanded
}

func expandValues(hc *Context, vars map[string]string) map[string]string {
	if len(vars) == 0 {
		return nil
	}

	out := maps.Clone(vars)
	for key, value := range out {
		out[key] = expand(hc, value)
	}

	return out
}
