package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/agentx-labs/commitx/internal/branding"
	"github.com/agentx-labs/commitx/internal/config"
	"github.com/agentx-labs/commitx/internal/logging"
	"github.com/agentx-labs/commitx/internal/render"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// logger is set up by the root command before any subcommand runs.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` reads the staged changes of a git repository, classifies every file
(feature, fix, docs, dependency bump, migration and so on), splits the set into
small single-purpose groups and commits each group with a conventional message.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		log, err := logging.New(config.Current().LogLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = log
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("rules", "", "Custom rule table (YAML) merged over the built-in rules")
	flags.String("log-level", "", "Log level: debug, info, warn or error (default warn)")
	flags.Bool("body", false, "List the files of each commit in the message body")

	_ = viper.BindPFlag(config.KeyRules, flags.Lookup("rules"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyBody, flags.Lookup("body"))
}

// Execute runs the root command with build info injected via ldflags. The
// returned error has already been printed; map it with ExitCode.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		render.Error(os.Stderr, err)
	}
	_ = logger.Sync()
	return err
}
