package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/devantler-tech/azdhooks/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const forceFlagName = "force"

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter azdhooks.yaml",
		Long: "Write a starter azdhooks.yaml with an empty step list for every phase.\n" +
			"The file is written to --config when set, otherwise to ./azdhooks.yaml.",
		Args: cobra.NoArgs,
		RunE: handleInitRunE,
	}

	cmd.Flags().Bool(forceFlagName, false, "overwrite an existing configuration file")

	return cmd
}

func handleInitRunE(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool(forceFlagName)
	if err != nil {
		return fmt.Errorf("read --%s: %w", forceFlagName, err)
	}

	path, err := cmd.Flags().GetString(config.FlagConfig)
	if err != nil || path == "" {
		path = config.FileName + ".yaml"
	}

	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}

		path = filepath.Join(wd, path)
	}

	err = config.WriteScaffold(path, force)
	if err != nil {
		return err
	}

	logger := notify.NewLogger(notify.WithOutput(cmd.OutOrStdout()))
	logger.Successf("Wrote %s", path)

	return nil
}
