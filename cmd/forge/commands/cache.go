package commands

import (
	"fmt"

	"github.com/fractary/forge/internal/ui/style"
	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry manifest cache",
	}

	clean := &cobra.Command{
		Use:   "clean",
		Short: "Remove expired manifest cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			removed, err := c.app.CacheClean(all)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s removed %d cache entries\n", style.Success.Render(style.Check), removed)
			return nil
		},
	}
	clean.Flags().Bool("all", false, "Remove every entry, expired or not")

	cmd.AddCommand(clean)
	return cmd
}
