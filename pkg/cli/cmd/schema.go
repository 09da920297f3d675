package cmd

import (
	"fmt"

	"github.com/devantler-tech/azdhooks/pkg/io/config"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of azdhooks.yaml",
		Long: "Print the JSON schema of azdhooks.yaml. Point an editor's YAML language server at\n" +
			"the output to get completion and validation while editing the file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.MarshalSchema()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}
