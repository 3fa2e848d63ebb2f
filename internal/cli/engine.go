package cli

import (
	"context"
	"fmt"

	"github.com/agentx-labs/commitx/internal/config"
	"github.com/agentx-labs/commitx/internal/diffmodel"
	"github.com/agentx-labs/commitx/internal/git"
	"github.com/agentx-labs/commitx/internal/pipeline"
	"github.com/agentx-labs/commitx/internal/rules"
)

// loadRules returns the effective rule table for the current settings.
func loadRules(s config.Settings) (*rules.Table, error) {
	table, err := rules.Load(s.Rules)
	if err != nil {
		return nil, err
	}
	if s.LargeThreshold > 0 {
		table.Thresholds.Large = s.LargeThreshold
	}
	return table, nil
}

func newEngine(s config.Settings) (*pipeline.Engine, error) {
	table, err := loadRules(s)
	if err != nil {
		return nil, err
	}
	set, err := rules.Compile(table)
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}
	return pipeline.New(pipeline.Config{
		Rules:     set,
		MaxHeader: s.MaxHeader,
		Body:      s.Body,
		Logger:    logger,
	}), nil
}

// readStaged returns the staged records of the repository in the current
// directory, through go-git when native is set.
func readStaged(ctx context.Context, native bool) ([]diffmodel.Record, error) {
	log := logger.Named("git")
	if native {
		n, err := git.OpenNative(".", log)
		if err != nil {
			return nil, err
		}
		return n.StagedRecords(ctx)
	}
	return git.Open("", log).StagedRecords(ctx)
}
