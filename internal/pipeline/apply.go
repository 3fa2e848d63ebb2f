package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/agentx-labs/commitx/internal/compose"
	"github.com/agentx-labs/commitx/internal/partition"
)

// Committer records one commit containing exactly paths.
type Committer interface {
	Commit(ctx context.Context, msg compose.Message, paths []string, noVerify bool) error
}

// DescribeFunc asks for a description of an uncomposable group. Returning
// skip leaves the group out of the commits.
type DescribeFunc func(g partition.Group) (desc string, skip bool, err error)

// ApplyOptions controls Apply.
type ApplyOptions struct {
	NoVerify bool
	// Fallback describes every group whose message could not be composed.
	Fallback string
	// Describe is consulted for uncomposable groups when Fallback is empty.
	Describe DescribeFunc
	// DryRun reports the commits without calling the committer.
	DryRun bool
}

// Commit is one commit created (or, in a dry run, planned) by Apply.
type Commit struct {
	Message compose.Message
	Paths   []string
}

// Report is what Apply did.
type Report struct {
	Commits []Commit
	Skipped []Proposal
}

// Apply commits the plan's proposals in order. An uncomposable proposal uses
// the fallback description, then the Describe callback, and is skipped when
// neither yields one. The first committer failure stops the run; commits
// already made are kept and listed in the report.
func (e *Engine) Apply(ctx context.Context, plan *Plan, c Committer, opts ApplyOptions) (*Report, error) {
	report := &Report{}
	for _, pr := range plan.Proposals {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		msg, ok, err := e.resolveMessage(pr, opts)
		if err != nil {
			return report, err
		}
		if !ok {
			e.log.Warn("skipping group without message",
				zap.Stringer("type", pr.Group.Type),
				zap.Strings("paths", pr.Group.Paths()),
			)
			report.Skipped = append(report.Skipped, pr)
			continue
		}

		commit := Commit{Message: msg, Paths: pr.Group.Paths()}
		if !opts.DryRun {
			if err := c.Commit(ctx, msg, commit.Paths, opts.NoVerify); err != nil {
				return report, errors.Wrapf(err, "committing %q", msg.Header)
			}
		}
		report.Commits = append(report.Commits, commit)
	}
	return report, nil
}

func (e *Engine) resolveMessage(pr Proposal, opts ApplyOptions) (compose.Message, bool, error) {
	if pr.Err == nil {
		return pr.Message, true, nil
	}
	if opts.Fallback != "" {
		msg, err := e.composer.ComposeManual(pr.Group, opts.Fallback)
		if err != nil {
			return compose.Message{}, false, err
		}
		return msg, true, nil
	}
	if opts.Describe == nil {
		return compose.Message{}, false, nil
	}
	desc, skip, err := opts.Describe(pr.Group)
	if err != nil {
		return compose.Message{}, false, errors.Wrap(err, "asking for a description")
	}
	if skip {
		return compose.Message{}, false, nil
	}
	msg, err := e.composer.ComposeManual(pr.Group, desc)
	if err != nil {
		return compose.Message{}, false, err
	}
	return msg, true, nil
}
