package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/devantler-tech/azdhooks/internal/buildmeta"
	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"github.com/devantler-tech/azdhooks/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/azdhooks/pkg/di"
	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/spf13/cobra"
)

// TimingFlagName appends the hook duration to the success line.
const TimingFlagName = "timing"

// NewRootCmd creates and returns the root command with version info and subcommands.
// Extra modules are registered after the defaults on every invocation.
func NewRootCmd(version, commit, date string, modules ...di.Module) *cobra.Command {
	runtimeContainer := di.NewRuntime(modules...)

	cmd := &cobra.Command{
		Use:   "azdhooks",
		Short: "Lifecycle hooks for the Azure Developer CLI",
		Long: "azdhooks runs the preprovision, postprovision, predeploy and postdeploy hooks\n" +
			"of an azd project. Wire each phase into azure.yaml as `azdhooks <phase>`.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = buildmeta.Format(version, commit, date)

	flags := cmd.PersistentFlags()
	flags.String(config.FlagConfig, "", "path to the azdhooks.yaml configuration file")
	flags.String(config.FlagLogLevel, "info", "log level (debug, info, warning, error)")
	flags.String(config.FlagColor, config.ColorAuto, "color output (auto, always, never)")
	flags.Bool(TimingFlagName, false, "append the hook duration to the success line")

	for _, phase := range lifecycle.Phases() {
		cmd.AddCommand(newPhaseCmd(runtimeContainer, phase))
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newListCmd(runtimeContainer))
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// Execute runs the provided root command with ctx and handles errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

// handleRootRunE handles the root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}

// loadConfig resolves the configuration for cmd from its flags, the
// AZDHOOKS_* environment and the configuration file.
func loadConfig(cmd *cobra.Command) (*config.Loaded, error) {
	v := config.NewViper()

	err := config.BindFlags(v, cmd.Flags())
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	loaded, err := config.Load(v, wd)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	return loaded, nil
}

// withConfig registers the configuration and output for one invocation.
func withConfig(cmd *cobra.Command) di.Module {
	return func(i di.Injector) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		err = di.ProvideLoaded(loaded)(i)
		if err != nil {
			return err
		}

		return di.ProvideOutput(cmd.OutOrStdout())(i)
	}
}
