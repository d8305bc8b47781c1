package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fractary/forge/internal/app"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/ui/style"
	"github.com/spf13/cobra"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <name[@constraint]>",
		Short: "Resolve an artifact across the local, global and remote tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFlag(cmd)
			if err != nil {
				return err
			}
			deps, _ := cmd.Flags().GetBool("deps")
			if deps {
				g, err := c.app.Graph(cmd.Context(), kind, args[0])
				if err != nil {
					return err
				}
				printGraph(cmd.OutOrStdout(), g)
				return nil
			}

			locked, _ := cmd.Flags().GetBool("locked")
			flatten, _ := cmd.Flags().GetBool("flatten")
			art, err := c.app.Resolve(cmd.Context(), kind, args[0], app.ResolveOptions{
				Locked:  locked,
				Flatten: flatten,
			})
			if err != nil {
				return err
			}
			printArtifact(cmd.OutOrStdout(), art)
			return nil
		},
	}
	addKindFlag(cmd)
	cmd.Flags().Bool("locked", false, "Serve the lockfile pin without network access")
	cmd.Flags().Bool("flatten", false, "Apply the extends chain to the definition")
	cmd.Flags().BoolP("deps", "d", false, "Print the dependency graph in install order")
	return cmd
}

func printArtifact(w io.Writer, art *domain.ResolvedArtifact) {
	_, _ = fmt.Fprintf(w, "%s %s %s@%s from %s\n",
		style.Success.Render(style.Check), art.Definition.Kind, art.Definition.Name, art.Version, art.Source)
	if art.Origin != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", style.Muted.Render(art.Origin))
	}
}

func printGraph(w io.Writer, g *domain.DependencyGraph) {
	for node := range g.Walk() {
		line := fmt.Sprintf("%s@%s", node.Ref, node.Artifact.Version)
		if len(node.Dependencies) > 0 {
			deps := make([]string, 0, len(node.Dependencies))
			for _, d := range node.Dependencies {
				deps = append(deps, d.String())
			}
			line += " " + style.Muted.Render(style.Arrow+" "+strings.Join(deps, ", "))
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", style.Dot, line)
	}
}

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known artifacts of a kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kindFlag(cmd)
			if err != nil {
				return err
			}
			source, _ := cmd.Flags().GetString("source")
			entries, err := c.app.List(cmd.Context(), kind, source)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintf(w, "no %s found\n", kind.Plural())
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s %s@%s", style.Label.Render(e.Source.String()), e.Name, e.Version)
				if e.Description != "" {
					line += "  " + style.Muted.Render(e.Description)
				}
				_, _ = fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	addKindFlag(cmd)
	cmd.Flags().StringP("source", "s", "", "local, global or a registry name (default local and global)")
	return cmd
}

func (c *CLI) newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <name[@constraint]>",
		Short: "Describe the artifact an identifier resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFlag(cmd)
			if err != nil {
				return err
			}
			info, err := c.app.Info(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}

			def := info.Artifact.Definition
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, style.Heading.Render(def.Name+"@"+info.Artifact.Version))
			field := func(key, value string) {
				if value != "" {
					_, _ = fmt.Fprintf(w, "  %s %s\n", style.Muted.Render(key+":"), value)
				}
			}
			field("kind", string(def.Kind))
			field("description", def.Description)
			field("source", info.Artifact.Source.String())
			field("path", info.Artifact.Origin)
			field("integrity", info.Integrity)
			field("extends", def.Extends)
			for _, dep := range def.Dependencies {
				field("depends on", dep.Ref.Kind.String()+" "+dep.Identifier())
			}
			if def.Fork != nil {
				field("forked from", def.Fork.SourceName+"@"+def.Fork.SourceVersion)
			}
			field("cached", strings.Join(info.CachedVersions, ", "))
			return nil
		},
	}
	addKindFlag(cmd)
	return cmd
}
