// Package commands implements the CLI commands for the memo pipeline runner.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"go.trai.ch/memo/internal/adapters/detector"
	"go.trai.ch/memo/internal/app"
	"go.trai.ch/memo/internal/build"
	"go.trai.ch/memo/internal/core/domain"
)

// CLI represents the command line interface for memo.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance over the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "memo",
		Short:         "A memoizing pipeline runner for numeric experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity: debug, info, warn, error or critical")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: pretty, json or auto")

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.configureLogging(cmd)
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// configureLogging applies environment settings and flag overrides to the
// logger. Flags win over environment variables; the format falls back to
// terminal detection.
func (c *CLI) configureLogging(cmd *cobra.Command) error {
	settings, err := detector.FromEnv()
	if err != nil {
		return err
	}

	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = settings.LogLevel
	}
	if level != "" {
		c.components.Logger.SetLevel(domain.ParseLogLevel(level))
	}

	format, _ := cmd.Flags().GetString("log-format")
	if format == "" {
		format = settings.LogFormat
	}
	resolved := detector.ResolveFormat(format, detector.IsInteractive())
	c.components.Logger.SetJSON(resolved == "json")

	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output and errors. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
