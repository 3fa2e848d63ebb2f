package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/agentx-labs/commitx/internal/config"
	"github.com/agentx-labs/commitx/internal/diffmodel"
	"github.com/agentx-labs/commitx/internal/render"
)

var (
	planPatches []string
	planJSON    bool
	planNative  bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the commits that would be created",
	Long: `Print the proposed commits for the staged changes without touching the
repository. With --patch, unified diff files (as written by git diff --staged)
are analyzed instead; several files are planned in parallel. Use "-" to read
a patch from standard input.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringArrayVar(&planPatches, "patch", nil, "Unified diff file to plan instead of the staged changes (repeatable)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plans as JSON")
	planCmd.Flags().BoolVar(&planNative, "native", false, "Read the index with go-git instead of the git binary")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	engine, err := newEngine(config.Current())
	if err != nil {
		return err
	}

	if len(planPatches) == 0 {
		records, err := readStaged(ctx, planNative)
		if err != nil {
			return err
		}
		plan, err := engine.Run(records)
		if planJSON {
			if jerr := render.JSON(cmd.OutOrStdout(), []render.PlanJSON{render.NewPlanJSON("staged", plan, err)}); jerr != nil {
				return jerr
			}
			return err
		}
		if err != nil {
			return err
		}
		render.Plan(cmd.OutOrStdout(), plan)
		return nil
	}

	sets := make([][]diffmodel.Record, len(planPatches))
	for i, p := range planPatches {
		records, err := readPatch(cmd.InOrStdin(), p)
		if err != nil {
			return err
		}
		sets[i] = records
	}
	results := engine.RunBatch(ctx, sets)

	var result *multierror.Error
	var out []render.PlanJSON
	for i, r := range results {
		if r.Err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", planPatches[i], r.Err))
		}
		if planJSON {
			out = append(out, render.NewPlanJSON(planPatches[i], r.Plan, r.Err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", planPatches[i])
		if r.Plan != nil {
			render.Plan(cmd.OutOrStdout(), r.Plan)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", r.Err)
		}
	}
	if planJSON {
		if err := render.JSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	}
	return result.ErrorOrNil()
}

func readPatch(stdin io.Reader, path string) ([]diffmodel.Record, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading patch %s: %w", path, err)
	}
	records, err := diffmodel.ParseUnified(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing patch %s: %w", path, err)
	}
	return records, nil
}
