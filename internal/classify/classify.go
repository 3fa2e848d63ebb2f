package classify

import (
	"go.uber.org/zap"

	"github.com/agentx-labs/commitx/internal/changetype"
	"github.com/agentx-labs/commitx/internal/diffmodel"
	"github.com/agentx-labs/commitx/internal/features"
)

// Classification is the verdict for one staged file.
type Classification struct {
	File       *diffmodel.ChangedFile
	Type       changetype.Type
	Confidence changetype.Confidence
	Concern    changetype.Concern
	Area       string
	Signals    features.Signals
}

// Classifier turns signals into classifications.
type Classifier struct {
	log *zap.Logger
}

// New returns a classifier. A nil logger discards output.
func New(log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{log: log}
}

// Classify picks the strongest candidate: higher tier first, then strength,
// then type priority. A file without candidates is a low-confidence chore.
func (c *Classifier) Classify(s features.Signals) Classification {
	out := Classification{
		File:       s.File,
		Type:       changetype.Chore,
		Confidence: changetype.Low,
		Area:       s.Area,
		Signals:    s,
	}

	var best *features.Candidate
	for i := range s.Candidates {
		cand := &s.Candidates[i]
		if best == nil || beats(*cand, *best) {
			best = cand
		}
	}
	if best != nil {
		out.Type = best.Type
		out.Confidence = confidenceOf(best.Tier)
	}
	out.Concern = concernOf(out.Type, s.BusinessLogic)

	c.log.Debug("classified",
		zap.String("path", s.File.Path()),
		zap.Stringer("type", out.Type),
		zap.Stringer("confidence", out.Confidence),
		zap.String("concern", string(out.Concern)),
	)
	return out
}

// ClassifyAll classifies every signal set, keeping input order.
func (c *Classifier) ClassifyAll(signals []features.Signals) []Classification {
	out := make([]Classification, len(signals))
	for i, s := range signals {
		out[i] = c.Classify(s)
	}
	return out
}

func beats(a, b features.Candidate) bool {
	if a.Tier != b.Tier {
		return a.Tier > b.Tier
	}
	if a.Strength != b.Strength {
		return a.Strength > b.Strength
	}
	return changetype.Outranks(a.Type, b.Type)
}

func confidenceOf(t features.Tier) changetype.Confidence {
	switch t {
	case features.TierPath:
		return changetype.High
	case features.TierContent:
		return changetype.Medium
	default:
		return changetype.Low
	}
}

func concernOf(t changetype.Type, businessLogic bool) changetype.Concern {
	info := changetype.MustLookup(t)
	if info.Concern.Hard() {
		return info.Concern
	}
	if !businessLogic {
		return changetype.ConcernNone
	}
	switch info.Base {
	case changetype.Test, changetype.Docs, changetype.Style, changetype.CI:
		return changetype.ConcernNone
	}
	return changetype.ConcernBusinessLogic
}
