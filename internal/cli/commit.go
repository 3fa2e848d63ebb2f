package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentx-labs/commitx/internal/compose"
	"github.com/agentx-labs/commitx/internal/config"
	"github.com/agentx-labs/commitx/internal/git"
	"github.com/agentx-labs/commitx/internal/partition"
	"github.com/agentx-labs/commitx/internal/pipeline"
	"github.com/agentx-labs/commitx/internal/render"
)

var (
	commitDryRun  bool
	commitMessage string
	commitNative  bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Split the staged changes into atomic commits",
	Long: `Classify every staged file, group the files into single-purpose commits and
create them in order of increasing risk. Files that are not staged are never
touched.

When a group has no usable subject (a lone binary, say), the --message
description is used for it. Without --message you are asked for one on a
terminal; otherwise the group stays staged and the command exits with code 2.`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().Bool("no-verify", false, "Bypass pre-commit and commit-msg hooks")
	commitCmd.Flags().BoolVar(&commitDryRun, "dry-run", false, "Print the commits without creating them")
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Description for groups whose message cannot be composed")
	commitCmd.Flags().BoolVar(&commitNative, "native", false, "Read the index with go-git instead of the git binary")
	_ = viper.BindPFlag(config.KeyNoVerify, commitCmd.Flags().Lookup("no-verify"))
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := config.Current()

	engine, err := newEngine(s)
	if err != nil {
		return err
	}
	records, err := readStaged(ctx, commitNative)
	if err != nil {
		return err
	}
	plan, err := engine.Run(records)
	if err != nil {
		return err
	}
	render.Warnings(cmd.ErrOrStderr(), plan)

	opts := pipeline.ApplyOptions{
		NoVerify: s.NoVerify,
		Fallback: commitMessage,
		DryRun:   commitDryRun,
	}
	if commitMessage == "" && !commitDryRun && compose.IsTerminal(os.Stdin) {
		opts.Describe = func(g partition.Group) (string, bool, error) {
			return compose.AskDescription(cmd.InOrStdin(), cmd.ErrOrStderr(), g)
		}
	}

	report, err := engine.Apply(ctx, plan, git.Open("", logger.Named("git")), opts)
	if report != nil {
		render.Report(cmd.OutOrStdout(), report, commitDryRun)
	}
	if err != nil {
		return err
	}

	if len(report.Skipped) > 0 && opts.Describe == nil {
		return errors.WithHint(
			errors.Wrapf(plan.Problems(), "%d group(s) left staged", len(report.Skipped)),
			"describe them with --message, or run the command on a terminal")
	}
	return nil
}
