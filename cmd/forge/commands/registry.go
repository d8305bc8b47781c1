package commands

import (
	"fmt"

	"github.com/fractary/forge/internal/app"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/ui/style"
	"github.com/spf13/cobra"
)

func (c *CLI) newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage remote registry sources",
	}
	cmd.PersistentFlags().String("scope", string(app.ScopeProject), "Config file to edit: project or user")

	cmd.AddCommand(c.newRegistryListCmd())
	cmd.AddCommand(c.newRegistryAddCmd())
	cmd.AddCommand(c.newRegistryUpdateCmd())
	cmd.AddCommand(c.newRegistryRemoveCmd())
	return cmd
}

func scopeFlag(cmd *cobra.Command) (app.Scope, error) {
	raw, _ := cmd.Flags().GetString("scope")
	return app.ParseScope(raw)
}

func (c *CLI) newRegistryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the effective registry sources in consultation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, err := c.app.Registries()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, src := range sources {
				mark := style.Success.Render(style.Dot)
				if !src.Enabled {
					mark = style.Muted.Render(style.Dot)
				}
				_, _ = fmt.Fprintf(w, "%s %s %s %s\n", mark, src.Name,
					style.Muted.Render(fmt.Sprintf("[%s, priority %d]", src.Kind, src.Priority)), src.URL)
			}
			return nil
		},
	}
}

func (c *CLI) newRegistryAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a registry source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFlag(cmd)
			if err != nil {
				return err
			}
			kind, _ := cmd.Flags().GetString("kind")
			priority, _ := cmd.Flags().GetInt("priority")
			ttl, _ := cmd.Flags().GetInt("cache-ttl")
			timeout, _ := cmd.Flags().GetInt("timeout")
			disabled, _ := cmd.Flags().GetBool("disabled")

			src := domain.RegistrySource{
				Name:     args[0],
				Kind:     domain.SourceKind(kind),
				URL:      args[1],
				Enabled:  !disabled,
				Priority: priority,
				CacheTTL: ttl,
				Timeout:  timeout,
			}
			if err := c.app.RegistryAdd(scope, src); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s added registry %s\n", style.Success.Render(style.Check), src.Name)
			return nil
		},
	}
	cmd.Flags().String("kind", string(domain.SourceKindManifest), "Source kind: manifest or api")
	cmd.Flags().Int("priority", 50, "Lower priorities are consulted first")
	cmd.Flags().Int("cache-ttl", 0, "Lookup cache TTL in seconds (0 uses the default)")
	cmd.Flags().Int("timeout", 0, "Fetch timeout in seconds (0 uses the default)")
	cmd.Flags().Bool("disabled", false, "Add the source disabled")
	return cmd
}

func (c *CLI) newRegistryUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Change fields of a registry source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFlag(cmd)
			if err != nil {
				return err
			}

			var patch app.RegistryPatch
			flags := cmd.Flags()
			if flags.Changed("url") {
				v, _ := flags.GetString("url")
				patch.URL = &v
			}
			if flags.Changed("enabled") {
				v, _ := flags.GetBool("enabled")
				patch.Enabled = &v
			}
			if flags.Changed("priority") {
				v, _ := flags.GetInt("priority")
				patch.Priority = &v
			}
			if flags.Changed("cache-ttl") {
				v, _ := flags.GetInt("cache-ttl")
				patch.CacheTTL = &v
			}
			if flags.Changed("timeout") {
				v, _ := flags.GetInt("timeout")
				patch.Timeout = &v
			}

			if err := c.app.RegistryUpdate(scope, args[0], patch); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s updated registry %s\n", style.Success.Render(style.Check), args[0])
			return nil
		},
	}
	cmd.Flags().String("url", "", "New source URL")
	cmd.Flags().Bool("enabled", true, "Enable or disable the source")
	cmd.Flags().Int("priority", 0, "New priority")
	cmd.Flags().Int("cache-ttl", 0, "New lookup cache TTL in seconds")
	cmd.Flags().Int("timeout", 0, "New fetch timeout in seconds")
	return cmd
}

func (c *CLI) newRegistryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a registry source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFlag(cmd)
			if err != nil {
				return err
			}
			if err := c.app.RegistryRemove(scope, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s removed registry %s\n", style.Success.Render(style.Check), args[0])
			return nil
		},
	}
}
