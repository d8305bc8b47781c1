package commands

import (
	"fmt"
	"strings"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/engine/fork"
	"github.com/fractary/forge/internal/ui/style"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newForkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fork <source[@constraint]> <target>",
		Short: "Copy an artifact into the project, keeping its upstream provenance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFlag(cmd)
			if err != nil {
				return err
			}
			art, err := c.app.Fork(cmd.Context(), kind, args[0], args[1])
			if err != nil {
				return err
			}
			rec := art.Definition.Fork
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s forked %s@%s into %s\n",
				style.Success.Render(style.Check), rec.SourceName, rec.SourceVersion, art.Definition.Name)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", style.Muted.Render(art.Origin))
			return nil
		},
	}
	addKindFlag(cmd)
	cmd.AddCommand(c.newForkCheckCmd())
	cmd.AddCommand(c.newForkMergeCmd())
	return cmd
}

func (c *CLI) newForkCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Report whether a fork's upstream has a newer version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFlag(cmd)
			if err != nil {
				return err
			}
			status, err := c.app.CheckFork(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if status.HasUpdate {
				_, _ = fmt.Fprintf(w, "%s %s: %s %s %s available\n", style.Caution.Render(style.Warning),
					status.Name, status.Current, style.Arrow, status.Latest)
				return nil
			}
			_, _ = fmt.Fprintf(w, "%s %s is up to date with %s@%s\n", style.Success.Render(style.Check),
				status.Name, status.Source, status.Current)
			return nil
		},
	}
	addKindFlag(cmd)
	return cmd
}

func (c *CLI) newForkMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <name>",
		Short: "Merge the latest upstream version into a fork",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFlag(cmd)
			if err != nil {
				return err
			}
			opts, err := mergeOptions(cmd)
			if err != nil {
				return err
			}

			report, err := c.app.MergeFork(cmd.Context(), kind, args[0], opts)
			w := cmd.OutOrStdout()
			if report != nil {
				for _, conflict := range report.Unresolved {
					_, _ = fmt.Fprintf(w, "%s %s: local %v, upstream %v\n", style.Failure.Render(style.Cross),
						conflict.Path, conflict.Local, conflict.Upstream)
				}
			}
			if err != nil {
				return err
			}

			if !report.Written {
				_, _ = fmt.Fprintf(w, "%s upstream %s merges into %s, %d conflicts resolved (dry run)\n",
					style.Success.Render(style.Check), report.UpstreamVersion, report.Name, len(report.Conflicts))
				return nil
			}
			_, _ = fmt.Fprintf(w, "%s merged upstream %s into %s\n", style.Success.Render(style.Check),
				report.UpstreamVersion, report.Name)
			return nil
		},
	}
	addKindFlag(cmd)
	cmd.Flags().String("strategy", string(fork.StrategyManual), "Conflict strategy: manual, ours or theirs")
	cmd.Flags().StringArray("resolve", nil, "Pick a side for one conflict, as path=local or path=upstream")
	cmd.Flags().Bool("text", false, "Merge multi-line text edited on both sides")
	cmd.Flags().Bool("dry-run", false, "Report the merge without writing it")
	return cmd
}

func mergeOptions(cmd *cobra.Command) (fork.MergeOptions, error) {
	rawStrategy, _ := cmd.Flags().GetString("strategy")
	strategy, err := fork.ParseStrategy(rawStrategy)
	if err != nil {
		return fork.MergeOptions{}, err
	}
	text, _ := cmd.Flags().GetBool("text")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	opts := fork.MergeOptions{Strategy: strategy, TextMerge: text, DryRun: dryRun}

	resolutions, _ := cmd.Flags().GetStringArray("resolve")
	for _, raw := range resolutions {
		path, side, ok := strings.Cut(raw, "=")
		if !ok || path == "" {
			return fork.MergeOptions{}, zerr.With(domain.ErrConfigInvalid, "resolve", raw)
		}
		switch domain.Side(side) {
		case domain.SideLocal, domain.SideUpstream:
		default:
			return fork.MergeOptions{}, zerr.With(domain.ErrConfigInvalid, "resolve", raw)
		}
		if opts.Resolutions == nil {
			opts.Resolutions = make(map[string]domain.Side)
		}
		opts.Resolutions[path] = domain.Side(side)
	}
	return opts, nil
}
