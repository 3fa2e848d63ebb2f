package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/commitx/internal/config"
	"github.com/agentx-labs/commitx/internal/rules"
)

var rulesDefault bool

func init() {
	rulesShowCmd.Flags().BoolVar(&rulesDefault, "default", false, "Print the built-in table as shipped")
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate classification rules",
	Long: `The rule table maps path globs and hunk keywords to change types and sets the
size thresholds used to split large groups. A custom table given with --rules
(or the "rules" setting) replaces the built-in sections it defines.`,
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a rule table against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := rules.ValidateFile(args[0])
		if err != nil {
			return err
		}
		if !result.Valid {
			for _, issue := range result.Issues {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue)
			}
			return fmt.Errorf("%s: %d schema issue(s)", args[0], len(result.Issues))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rule table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rulesDefault {
			_, err := cmd.OutOrStdout().Write(rules.DefaultYAML())
			return err
		}
		table, err := loadRules(config.Current())
		if err != nil {
			return err
		}
		data, err := rules.Marshal(table)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
