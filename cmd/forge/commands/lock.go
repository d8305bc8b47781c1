package commands

import (
	"fmt"

	"github.com/fractary/forge/internal/engine/lockfile"
	"github.com/fractary/forge/internal/ui/style"
	"github.com/spf13/cobra"
)

func (c *CLI) newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Pin every project artifact and its dependencies to exact versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			res, err := c.app.Lock(cmd.Context(), force)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch res.Status {
			case lockfile.StatusKept:
				_, _ = fmt.Fprintf(w, "%s lockfile exists, use --force to regenerate\n", style.Caution.Render(style.Warning))
			case lockfile.StatusUnchanged:
				_, _ = fmt.Fprintf(w, "%s lockfile is up to date\n", style.Success.Render(style.Check))
			default:
				_, _ = fmt.Fprintf(w, "%s locked %d artifacts\n", style.Success.Render(style.Check), res.Lockfile.Len())
			}
			_, _ = fmt.Fprintf(w, "  %s\n", style.Muted.Render(res.Path))
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Regenerate an existing lockfile")
	return cmd
}

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the lockfile against the installed artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Validate(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, issue := range report.Errors {
				_, _ = fmt.Fprintf(w, "%s %s\n", style.Failure.Render(style.Cross), issue)
			}
			for _, issue := range report.Warnings {
				_, _ = fmt.Fprintf(w, "%s %s\n", style.Caution.Render(style.Warning), issue)
			}
			if report.Valid {
				_, _ = fmt.Fprintf(w, "%s lockfile is valid\n", style.Success.Render(style.Check))
			}
			return report.Err()
		},
	}
}

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download locked artifacts missing from the global cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Install(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, ref := range report.Installed {
				_, _ = fmt.Fprintf(w, "%s %s\n", style.Success.Render(style.Check), ref)
			}
			_, _ = fmt.Fprintf(w, "installed %d, already present %d\n", len(report.Installed), report.Present)
			return nil
		},
	}
}
