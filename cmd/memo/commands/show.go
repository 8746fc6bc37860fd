package commands

import (
	"github.com/spf13/cobra"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/engine/pipeline"
)

func (c *CLI) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <config>",
		Short: "Render stored results in display form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			c.components.Pipeline.SetOutput(cmd.OutOrStdout())
			return c.components.App.Run(cmd.Context(), args[0], pipeline.RunOptions{
				Commands: []string{domain.ShowCommandName},
				Output:   output,
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "Override the configured result file path")
	return cmd
}
