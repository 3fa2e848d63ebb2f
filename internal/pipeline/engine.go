package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agentx-labs/commitx/internal/classify"
	"github.com/agentx-labs/commitx/internal/compose"
	"github.com/agentx-labs/commitx/internal/diffmodel"
	"github.com/agentx-labs/commitx/internal/features"
	"github.com/agentx-labs/commitx/internal/partition"
	"github.com/agentx-labs/commitx/internal/rules"
)

// Config wires an Engine.
type Config struct {
	// Rules is the compiled rule set; nil means the embedded default.
	Rules     *rules.Set
	MaxHeader int
	Body      bool
	Logger    *zap.Logger
}

// Engine holds the read-only stages of the pipeline. It is safe for
// concurrent use.
type Engine struct {
	extractor   *features.Extractor
	classifier  *classify.Classifier
	partitioner *partition.Partitioner
	composer    *compose.Composer
	log         *zap.Logger
}

// New builds an engine from cfg.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	set := cfg.Rules
	if set == nil {
		set = rules.MustCompileDefault()
	}
	return &Engine{
		extractor:   features.NewExtractor(set, log.Named("features")),
		classifier:  classify.New(log.Named("classify")),
		partitioner: partition.New(set.LargeThreshold(), log.Named("partition")),
		composer:    compose.New(compose.Options{MaxHeader: cfg.MaxHeader, Body: cfg.Body}, log.Named("compose")),
		log:         log,
	}
}

// Composer returns the engine's message composer.
func (e *Engine) Composer() *compose.Composer { return e.composer }

// Proposal is one commit the engine suggests.
type Proposal struct {
	Group     partition.Group
	Message   compose.Message
	Oversized bool
	// Err is set when no message could be composed; Message is then empty.
	Err error
}

// Warning is a non-fatal remark about a proposal.
type Warning struct {
	Proposal int
	Message  string
}

// Plan is the ordered list of proposals for one staged set.
type Plan struct {
	Proposals []Proposal
}

// Problems aggregates the per-proposal errors, or returns nil.
func (p *Plan) Problems() error {
	var result *multierror.Error
	for _, pr := range p.Proposals {
		if pr.Err != nil {
			result = multierror.Append(result, pr.Err)
		}
	}
	return result.ErrorOrNil()
}

// Warnings lists proposals still above the size threshold.
func (p *Plan) Warnings() []Warning {
	var out []Warning
	for i, pr := range p.Proposals {
		if pr.Oversized {
			out = append(out, Warning{
				Proposal: i,
				Message: fmt.Sprintf("%s group of %d file(s) changes %d lines and cannot be split further",
					pr.Group.Type, len(pr.Group.Files), pr.Group.Delta),
			})
		}
	}
	return out
}

// Files returns the number of files covered by the plan.
func (p *Plan) Files() int {
	n := 0
	for _, pr := range p.Proposals {
		n += len(pr.Group.Files)
	}
	return n
}

// Run analyzes one staged set. It fails only when the set is empty or a
// record is invalid; uncomposable groups stay in the plan with Err set.
func (e *Engine) Run(records []diffmodel.Record) (*Plan, error) {
	snap, err := diffmodel.NewSnapshot(records)
	if err != nil {
		return nil, err
	}

	files := snap.Files()
	signals := make([]features.Signals, len(files))
	for i, f := range files {
		signals[i] = e.extractor.Extract(f)
	}
	classes := e.classifier.ClassifyAll(signals)
	groups := e.partitioner.Partition(classes)

	plan := &Plan{Proposals: make([]Proposal, 0, len(groups))}
	for _, g := range groups {
		msg, err := e.composer.Compose(g)
		plan.Proposals = append(plan.Proposals, Proposal{
			Group:     g,
			Message:   msg,
			Oversized: g.Oversized,
			Err:       err,
		})
	}
	e.log.Debug("planned commits",
		zap.Int("files", snap.Len()),
		zap.Int("proposals", len(plan.Proposals)),
	)
	return plan, nil
}

// BatchResult is the outcome of one set in RunBatch.
type BatchResult struct {
	Plan *Plan
	Err  error
}

// RunBatch analyzes independent staged sets in parallel. Results keep the
// order of sets. Once ctx is done, sets not yet started report ctx.Err().
func (e *Engine) RunBatch(ctx context.Context, sets [][]diffmodel.Record) []BatchResult {
	results := make([]BatchResult, len(sets))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, records := range sets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Plan, results[i].Err = e.Run(records)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
