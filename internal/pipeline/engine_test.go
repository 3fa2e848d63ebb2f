package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/commitx/internal/changetype"
	"github.com/agentx-labs/commitx/internal/compose"
	"github.com/agentx-labs/commitx/internal/diffmodel"
	"github.com/agentx-labs/commitx/internal/partition"
)

func headers(p *Plan) []string {
	var out []string
	for _, pr := range p.Proposals {
		out = append(out, pr.Message.Header)
	}
	return out
}

func paymentsRecords() []diffmodel.Record {
	sizes := []int{100, 80, 70, 60, 40}
	names := []string{"charge", "refund", "invoice", "ledger", "tax"}
	var out []diffmodel.Record
	for i, n := range names {
		out = append(out, diffmodel.Record{
			Path:  "src/payments/" + n + ".go",
			Hunks: "+// fix rounding bug\n",
			Added: sizes[i],
		})
	}
	return out
}

func TestRun_EmptyStaging(t *testing.T) {
	plan, err := New(Config{}).Run(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diffmodel.ErrEmptyStaging))
	assert.NotEmpty(t, errors.GetAllHints(err))
	assert.Nil(t, plan)
}

func TestRun_InvalidRecord(t *testing.T) {
	_, err := New(Config{}).Run([]diffmodel.Record{{Path: "a.go"}, {Path: "a.go"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, diffmodel.ErrInvalidRecord))
}

func TestRun_Readme(t *testing.T) {
	plan, err := New(Config{}).Run([]diffmodel.Record{
		{Path: "README.md", Hunks: "Fix typo in installation section"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Proposals, 1)

	pr := plan.Proposals[0]
	assert.Equal(t, changetype.Docs, pr.Group.Type)
	assert.True(t, strings.HasPrefix(pr.Message.Header, "📝 docs:"), pr.Message.Header)
	assert.NoError(t, plan.Problems())
	assert.Empty(t, plan.Warnings())
}

func TestRun_SourceAndLockFile(t *testing.T) {
	plan, err := New(Config{}).Run([]diffmodel.Record{
		{Path: "src/auth/login.go", Status: "added", Hunks: "+package auth\n+func Login() {}\n"},
		{Path: "package-lock.json", Added: 60, Removed: 20},
	})
	require.NoError(t, err)
	require.Len(t, plan.Proposals, 2)

	assert.Equal(t, "chore", plan.Proposals[0].Group.Type.Code())
	assert.Equal(t, []string{"package-lock.json"}, plan.Proposals[0].Group.Paths())
	assert.Equal(t, changetype.Feat, plan.Proposals[1].Group.Type)
	assert.Equal(t, []string{"src/auth/login.go"}, plan.Proposals[1].Group.Paths())
	assert.Equal(t, 2, plan.Files())
}

func TestRun_SplitsLargeFix(t *testing.T) {
	plan, err := New(Config{}).Run(paymentsRecords())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(plan.Proposals), 2)

	for _, pr := range plan.Proposals {
		assert.Equal(t, changetype.Fix, pr.Group.Type)
		assert.LessOrEqual(t, pr.Group.Delta, 200)
		assert.False(t, pr.Oversized)
		assert.NoError(t, pr.Err)
	}
	assert.Equal(t, 5, plan.Files())
}

func TestRun_BreakingChangeCommitsLast(t *testing.T) {
	plan, err := New(Config{}).Run([]diffmodel.Record{
		{Path: "a.go", Status: "added", Hunks: "+package a\n"},
		{Path: "b.go", Status: "added", Hunks: "+package a\n"},
		{Path: "c.go", Hunks: "BREAKING CHANGE: drop v1 endpoint"},
		{Path: "d.go", Hunks: "fix crash bug"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Proposals, 3)

	assert.Equal(t, []string{"a.go", "b.go"}, plan.Proposals[0].Group.Paths())
	assert.Equal(t, changetype.Fix, plan.Proposals[1].Group.Type)

	last := plan.Proposals[2]
	assert.Equal(t, changetype.Breaking, last.Group.Type)
	assert.Equal(t, []string{"c.go"}, last.Group.Paths())
	if last.Err == nil {
		assert.True(t, strings.HasPrefix(last.Message.Header, "💥 feat:"), last.Message.Header)
	}
}

func TestRun_Idempotent(t *testing.T) {
	records := append(paymentsRecords(),
		diffmodel.Record{Path: "README.md", Hunks: "+Document the refund flow"},
		diffmodel.Record{Path: "go.mod", Hunks: "-\tgithub.com/spf13/cobra v1.9.0\n+\tgithub.com/spf13/cobra v1.10.2\n"},
	)
	e := New(Config{})

	first, err := e.Run(records)
	require.NoError(t, err)
	second, err := e.Run(records)
	require.NoError(t, err)

	assert.Equal(t, headers(first), headers(second))
	require.Len(t, second.Proposals, len(first.Proposals))
	for i := range first.Proposals {
		assert.Equal(t, first.Proposals[i].Group.Paths(), second.Proposals[i].Group.Paths())
	}
}

func TestRun_ProblemsAndWarnings(t *testing.T) {
	plan, err := New(Config{}).Run([]diffmodel.Record{
		{Path: "x/1.bin", Binary: true},
		{Path: "package-lock.json", Added: 900},
	})
	require.NoError(t, err)
	require.Len(t, plan.Proposals, 2)

	problems := plan.Problems()
	require.Error(t, problems)
	var uerr *compose.UncomposableMessageError
	assert.True(t, errors.As(problems, &uerr))

	warnings := plan.Warnings()
	require.Len(t, warnings, 1)
	assert.True(t, plan.Proposals[warnings[0].Proposal].Oversized)
	assert.Contains(t, warnings[0].Message, "900")
}

func TestRunBatch(t *testing.T) {
	sets := [][]diffmodel.Record{
		{{Path: "README.md", Hunks: "+intro"}},
		nil,
		paymentsRecords(),
	}
	results := New(Config{}).RunBatch(context.Background(), sets)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Plan.Proposals, 1)

	assert.True(t, errors.Is(results[1].Err, diffmodel.ErrEmptyStaging))
	assert.Nil(t, results[1].Plan)

	require.NoError(t, results[2].Err)
	assert.Equal(t, 5, results[2].Plan.Files())
}

func TestRunBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := New(Config{}).RunBatch(ctx, [][]diffmodel.Record{paymentsRecords(), paymentsRecords()})
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

type fakeCommitter struct {
	commits  []string
	paths    [][]string
	noVerify []bool
	failOn   int // 1-based commit number that fails; 0 never fails
}

func (f *fakeCommitter) Commit(_ context.Context, msg compose.Message, paths []string, noVerify bool) error {
	if f.failOn > 0 && len(f.commits)+1 == f.failOn {
		return fmt.Errorf("hook rejected commit")
	}
	f.commits = append(f.commits, msg.Header)
	f.paths = append(f.paths, paths)
	f.noVerify = append(f.noVerify, noVerify)
	return nil
}

func TestApply_CommitsInPlanOrder(t *testing.T) {
	e := New(Config{})
	plan, err := e.Run([]diffmodel.Record{
		{Path: "src/auth/login.go", Status: "added", Hunks: "+package auth\n"},
		{Path: "package-lock.json", Added: 10},
		{Path: "README.md", Hunks: "+usage"},
	})
	require.NoError(t, err)

	c := &fakeCommitter{}
	report, err := e.Apply(context.Background(), plan, c, ApplyOptions{NoVerify: true})
	require.NoError(t, err)

	assert.Equal(t, headers(plan), c.commits)
	assert.Len(t, report.Commits, 3)
	assert.Equal(t, []bool{true, true, true}, c.noVerify)
	assert.Equal(t, []string{"README.md"}, c.paths[0])
}

func TestApply_DryRunDoesNotCommit(t *testing.T) {
	e := New(Config{})
	plan, err := e.Run(paymentsRecords())
	require.NoError(t, err)

	c := &fakeCommitter{}
	report, err := e.Apply(context.Background(), plan, c, ApplyOptions{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, c.commits)
	assert.Len(t, report.Commits, len(plan.Proposals))
}

func TestApply_Uncomposable(t *testing.T) {
	e := New(Config{})
	records := []diffmodel.Record{
		{Path: "x/1.bin", Binary: true},
		{Path: "README.md", Hunks: "+usage"},
	}

	t.Run("skipped without fallback", func(t *testing.T) {
		plan, err := e.Run(records)
		require.NoError(t, err)
		c := &fakeCommitter{}
		report, err := e.Apply(context.Background(), plan, c, ApplyOptions{})
		require.NoError(t, err)
		assert.Len(t, c.commits, 1)
		require.Len(t, report.Skipped, 1)
		assert.Equal(t, []string{"x/1.bin"}, report.Skipped[0].Group.Paths())
	})

	t.Run("fallback description", func(t *testing.T) {
		plan, err := e.Run(records)
		require.NoError(t, err)
		c := &fakeCommitter{}
		_, err = e.Apply(context.Background(), plan, c, ApplyOptions{Fallback: "ship firmware image"})
		require.NoError(t, err)
		assert.Contains(t, c.commits, "🔧 chore: Ship firmware image")
	})

	t.Run("describe callback", func(t *testing.T) {
		plan, err := e.Run(records)
		require.NoError(t, err)
		c := &fakeCommitter{}
		asked := 0
		_, err = e.Apply(context.Background(), plan, c, ApplyOptions{
			Describe: func(g partition.Group) (string, bool, error) {
				asked++
				return "vendor the blob", false, nil
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, asked)
		assert.Contains(t, c.commits, "🔧 chore: Vendor the blob")
	})
}

func TestApply_StopsOnCommitterFailure(t *testing.T) {
	e := New(Config{})
	plan, err := e.Run([]diffmodel.Record{
		{Path: "README.md", Hunks: "+usage"},
		{Path: "package-lock.json", Added: 10},
		{Path: "src/auth/login.go", Status: "added", Hunks: "+package auth\n"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Proposals, 3)

	c := &fakeCommitter{failOn: 2}
	report, err := e.Apply(context.Background(), plan, c, ApplyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook rejected commit")
	assert.Len(t, c.commits, 1)
	assert.Len(t, report.Commits, 1)
}
