package commands

import (
	"github.com/spf13/cobra"

	"go.trai.ch/memo/internal/engine/pipeline"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <config> <command>...",
		Short: "Execute pipeline commands against a configuration",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.components.Pipeline.SetOutput(cmd.OutOrStdout())
			return c.components.App.Run(cmd.Context(), args[0], runOptionsFromFlags(cmd, args[1:]))
		},
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("force", "f", false, "Recompute even when stored results exist")
	cmd.Flags().StringP("output", "o", "", "Override the configured result file path")
	cmd.Flags().IntP("repeat", "r", 0, "Override the configured repetition count")
	cmd.Flags().Int64("seed", 0, "Override the configured base seed")
}

func runOptionsFromFlags(cmd *cobra.Command, commands []string) pipeline.RunOptions {
	force, _ := cmd.Flags().GetBool("force")
	output, _ := cmd.Flags().GetString("output")
	repeat, _ := cmd.Flags().GetInt("repeat")

	opts := pipeline.RunOptions{
		Commands: commands,
		Force:    force,
		Output:   output,
		Repeat:   repeat,
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		opts.Seed = &seed
	}
	return opts
}
