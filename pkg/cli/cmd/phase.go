package cmd

import (
	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"github.com/devantler-tech/azdhooks/pkg/di"
	"github.com/devantler-tech/azdhooks/pkg/svc/hook"
	"github.com/spf13/cobra"
)

func newPhaseCmd(runtimeContainer *di.Runtime, phase lifecycle.Phase) *cobra.Command {
	return &cobra.Command{
		Use:   string(phase),
		Short: phase.Description(),
		Long: phase.Description() + ".\n\n" +
			"Reads AZURE_ENV_NAME, runs the steps configured under hooks." + string(phase) +
			"\nin azdhooks.yaml and exits 1 if any of them fails.",
		Args: cobra.NoArgs,
		RunE: di.RunEWithRuntime(
			runtimeContainer,
			di.WithDependencies(func(cmd *cobra.Command, deps di.Dependencies) error {
				return runPhase(cmd, phase, deps)
			}),
			withConfig,
		),
	}
}

func runPhase(cmd *cobra.Command, phase lifecycle.Phase, deps di.Dependencies) error {
	// The err can safely be ignored, the flag is registered on the root command.
	timing, _ := cmd.Flags().GetBool(TimingFlagName)

	h := hook.New(
		phase,
		deps.Logger,
		hook.WithRunner(deps.Runner),
		hook.WithTimer(deps.Timer),
		hook.WithTiming(timing),
		hook.WithSteps(hook.StepsFromConfig(deps.Config.Hook(phase))...),
	)

	outcome := h.Execute(cmd.Context())
	if !outcome.Succeeded() {
		return &hook.ExitError{Code: outcome.ExitCode()}
	}

	return nil
}
