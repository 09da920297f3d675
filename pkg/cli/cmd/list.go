package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"github.com/devantler-tech/azdhooks/pkg/di"
	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/mitchellh/go-wordwrap"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// listWidth is the column at which step lines are wrapped.
const listWidth = 80

func newListCmd(runtimeContainer *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the configured steps of every phase",
		Args:  cobra.NoArgs,
		RunE: di.RunEWithRuntime(runtimeContainer, func(cmd *cobra.Command, injector di.Injector) error {
			loaded, err := do.Invoke[*config.Loaded](injector)
			if err != nil {
				return fmt.Errorf("resolve loaded config: %w", err)
			}

			return writeList(cmd.OutOrStdout(), loaded)
		}, withConfig),
	}
}

func writeList(w io.Writer, loaded *config.Loaded) error {
	source := loaded.File
	if source == "" {
		source = "defaults (no " + config.FileName + ".yaml found)"
	}

	_, err := fmt.Fprintf(w, "Configuration: %s\n", source)
	if err != nil {
		return fmt.Errorf("write list: %w", err)
	}

	for _, phase := range lifecycle.Phases() {
		hc := loaded.Config.Hook(phase)

		_, err = fmt.Fprintf(w, "\n%s: %s\n", phase, phase.Description())
		if err != nil {
			return fmt.Errorf("write list: %w", err)
		}

		for _, name := range hc.RequireEnv {
			_, err = fmt.Fprintf(w, "  requires %s\n", name)
			if err != nil {
				return fmt.Errorf("write list: %w", err)
			}
		}

		if len(hc.Steps) == 0 {
			_, err = fmt.Fprintln(w, "  (no steps)")
			if err != nil {
				return fmt.Errorf("write list: %w", err)
			}

			continue
		}

		for i, step := range hc.Steps {
			text := step.DisplayName()
			if !step.Checked() {
				text += " (unchecked)"
			}

			_, err = fmt.Fprintln(w, stepLine(i+1, text))
			if err != nil {
				return fmt.Errorf("write list: %w", err)
			}
		}
	}

	return nil
}

// stepLine numbers a step and wraps long text, aligning continuation lines
// under the first character of the text.
func stepLine(number int, text string) string {
	prefix := fmt.Sprintf("  %d. ", number)
	width := listWidth - len(prefix)

	lines := strings.Split(wordwrap.WrapString(text, uint(width)), "\n")
	indent := strings.Repeat(" ", len(prefix))

	return prefix + strings.Join(lines, "\n"+indent)
}
