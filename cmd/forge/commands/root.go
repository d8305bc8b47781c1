// Package commands implements the CLI commands for forge.
package commands

import (
	"context"
	"io"

	"github.com/fractary/forge/internal/app"
	"github.com/fractary/forge/internal/build"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for forge.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "forge",
		Short:         "Resolve, lock and fork agent and tool definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.String(),
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("offline", false, "Skip remote registries")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log resolution decisions")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		offline, _ := cmd.Flags().GetBool("offline")
		verbose, _ := cmd.Flags().GetBool("verbose")
		c.app.WithOffline(offline)
		if verbose {
			c.app.WithLogLevel("debug")
		}
	}

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newInfoCmd())
	rootCmd.AddCommand(c.newLockCmd())
	rootCmd.AddCommand(c.newValidateCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newForkCmd())
	rootCmd.AddCommand(c.newRegistryCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
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

// SetOut redirects command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

func addKindFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("kind", "k", string(domain.KindAgent), "Artifact kind: agent or tool")
}

func kindFlag(cmd *cobra.Command) (domain.Kind, error) {
	raw, _ := cmd.Flags().GetString("kind")
	return domain.ParseKind(raw)
}
