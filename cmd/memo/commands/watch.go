package commands

import (
	"github.com/spf13/cobra"

	"go.trai.ch/memo/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <config> <command>...",
		Short: "Run, then rerun whenever the configuration file changes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.components.Pipeline.SetOutput(cmd.OutOrStdout())
			return c.components.App.Watch(cmd.Context(), args[0], app.WatchOptions{
				Run: runOptionsFromFlags(cmd, args[1:]),
			})
		},
	}
	addRunFlags(cmd)
	return cmd
}
