package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"github.com/devantler-tech/azdhooks/pkg/utils/runner"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrInvalidStep is returned for steps that declare neither or both of run and args.
var ErrInvalidStep = errors.New("step must set exactly one of run or args")

// Color modes for log output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the merged azdhooks configuration.
type Config struct {
	Log    LogConfig                      `mapstructure:"log"    yaml:"log"`
	Runner RunnerConfig                   `mapstructure:"runner" yaml:"runner"`
	Hooks  map[lifecycle.Phase]HookConfig `mapstructure:"-"      yaml:"hooks,omitempty"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warning, error
	Color string `mapstructure:"color" yaml:"color"` // auto, always, never
}

// RunnerConfig controls how step commands are executed.
type RunnerConfig struct {
	Shell     []string      `mapstructure:"shell"      yaml:"shell,omitempty"`      // e.g. [bash, -euo, pipefail, -c]
	Dir       string        `mapstructure:"dir"        yaml:"dir,omitempty"`        // default working directory
	Timeout   time.Duration `mapstructure:"timeout"    yaml:"timeout,omitempty"`    // per command, 0 disables
	MaxOutput int           `mapstructure:"max_output" yaml:"max_output,omitempty"` // bytes per stream
}

// HookConfig declares what one lifecycle hook does.
type HookConfig struct {
	RequireEnv []string     `yaml:"require_env,omitempty"`
	Steps      []StepConfig `yaml:"steps,omitempty"`
}

// StepConfig is a single command run by a hook.
type StepConfig struct {
	Name  string            `yaml:"name,omitempty"`
	Run   string            `yaml:"run,omitempty"`   // shell command, ${VAR} placeholders expanded
	Args  []string          `yaml:"args,omitempty"`  // argv, no shell
	Check *bool             `yaml:"check,omitempty"` // default true
	Dir   string            `yaml:"dir,omitempty"`
	Env   map[string]string `yaml:"env,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			Color: ColorAuto,
		},
		Runner: RunnerConfig{
			MaxOutput: runner.DefaultMaxOutput,
		},
	}
}

// Hook returns the configuration for phase. Unconfigured phases have no steps.
func (c *Config) Hook(phase lifecycle.Phase) HookConfig {
	if c.Hooks == nil {
		return HookConfig{}
	}

	return c.Hooks[phase]
}

// Checked reports whether a non-zero exit of the step fails the hook.
func (s StepConfig) Checked() bool {
	return s.Check == nil || *s.Check
}

// DisplayName returns the step name, falling back to its command.
func (s StepConfig) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Run != "":
		return s.Run
	default:
		return strings.Join(s.Args, " ")
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !slices.Contains(LogLevels(), strings.ToLower(strings.TrimSpace(c.Log.Level))) {
		return fmt.Errorf(
			"%w: log.level must be one of %s, got %q",
			ErrInvalidConfig, strings.Join(LogLevels(), ", "), c.Log.Level,
		)
	}

	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Log.Color) {
		return fmt.Errorf(
			"%w: log.color must be one of %s, %s, %s, got %q",
			ErrInvalidConfig, ColorAuto, ColorAlways, ColorNever, c.Log.Color,
		)
	}

	if c.Runner.Timeout < 0 {
		return fmt.Errorf("%w: runner.timeout must not be negative", ErrInvalidConfig)
	}

	if c.Runner.MaxOutput < 0 {
		return fmt.Errorf("%w: runner.max_output must not be negative", ErrInvalidConfig)
	}

	for phase, hook := range c.Hooks {
		_, err := lifecycle.ParsePhase(string(phase))
		if err != nil {
			return fmt.Errorf("%w: hooks: %w", ErrInvalidConfig, err)
		}

		for i, step := range hook.Steps {
			if (step.Run == "") == (len(step.Args) == 0) {
				return fmt.Errorf("%w: hooks.%s.steps[%d]: %w", ErrInvalidConfig, phase, i, ErrInvalidStep)
			}
		}
	}

	return nil
}
