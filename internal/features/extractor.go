package features

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/agentx-labs/commitx/internal/changetype"
	"github.com/agentx-labs/commitx/internal/diffmodel"
	"github.com/agentx-labs/commitx/internal/rules"
)

// Tier is the evidence class of a candidate. Higher tiers always win.
type Tier int

const (
	TierSize    Tier = 1
	TierContent Tier = 2
	TierPath    Tier = 3
)

func (t Tier) String() string {
	switch t {
	case TierPath:
		return "path"
	case TierContent:
		return "content"
	default:
		return "size"
	}
}

// Size buckets a file's line delta.
type Size int

const (
	Small Size = iota
	Medium
	Large
)

func (s Size) String() string {
	switch s {
	case Large:
		return "large"
	case Medium:
		return "medium"
	default:
		return "small"
	}
}

// Path-tier signals that come from the file's status rather than a glob.
// They outrank any glob match.
const statusSpecificity = 1 << 10

// Candidate is one piece of evidence for a change type. Strength orders
// candidates of the same tier: glob specificity for path candidates,
// keyword hit count for content candidates.
type Candidate struct {
	Type     changetype.Type
	Tier     Tier
	Strength int
	Source   string
}

// Signals is everything the classifier needs to know about one file.
type Signals struct {
	File          *diffmodel.ChangedFile
	Candidates    []Candidate
	Size          Size
	Language      string
	BusinessLogic bool
	Deps          []DepChange
	Area          string
}

// Extractor computes Signals from a compiled rule set.
type Extractor struct {
	rules *rules.Set
	log   *zap.Logger
}

// NewExtractor returns an extractor over set. A nil logger discards output.
func NewExtractor(set *rules.Set, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{rules: set, log: log}
}

// Extract computes the signals of f. It never fails; a file with no
// evidence simply has no candidates.
func (e *Extractor) Extract(f *diffmodel.ChangedFile) Signals {
	s := Signals{
		File: f,
		Size: e.sizeOf(f.Delta()),
		Area: e.rules.Area(f.Path()),
	}

	matches := e.rules.MatchPath(f.Path())
	testPath := false
	manifestSpec := 0
	for _, m := range matches {
		s.Candidates = append(s.Candidates, Candidate{
			Type: m.Type, Tier: TierPath, Strength: m.Specificity, Source: "glob " + m.Pattern,
		})
		if m.Type == changetype.Test {
			testPath = true
		}
		if m.Type.IsDependency() && m.Specificity > manifestSpec {
			manifestSpec = m.Specificity
		}
	}

	s.Candidates = append(s.Candidates, e.statusCandidates(f)...)

	if IsVendored(f.Path()) {
		s.Candidates = append(s.Candidates, Candidate{Type: changetype.Packages, Tier: TierPath, Strength: 2, Source: "vendored"})
	}
	if IsDocumentation(f.Path()) {
		s.Candidates = append(s.Candidates, Candidate{Type: changetype.Docs, Tier: TierPath, Strength: 1, Source: "documentation"})
	}

	manifest := IsManifest(f.Path())
	if manifest {
		s.Deps = ParseDependencies(f)
		if t := dependencyType(s.Deps); t != "" {
			// One notch above the manifest's own glob. A manifest under a test
			// directory ties with the test glob and loses on priority.
			s.Candidates = append(s.Candidates, Candidate{Type: t, Tier: TierPath, Strength: manifestSpec + 1, Source: "manifest"})
		}
	}

	s.Candidates = append(s.Candidates, e.contentCandidates(f)...)

	if !f.Binary() {
		s.Language = DetectLanguage(f.Path(), []byte(strings.Join(f.AddedText(), "\n")))
	}
	if IsProgramming(s.Language) && !testPath && !manifest && !IsVendored(f.Path()) {
		s.BusinessLogic = true
		s.Candidates = append(s.Candidates, Candidate{Type: changetype.Feat, Tier: TierSize, Source: "language " + s.Language})
		if f.Status() == diffmodel.StatusAdded {
			s.Candidates = append(s.Candidates, Candidate{Type: changetype.Feat, Tier: TierSize, Strength: 1, Source: "new source file"})
		}
	}

	e.log.Debug("extracted signals",
		zap.String("path", f.Path()),
		zap.Int("candidates", len(s.Candidates)),
		zap.Stringer("size", s.Size),
		zap.String("language", s.Language),
		zap.String("area", s.Area),
	)
	return s
}

func (e *Extractor) sizeOf(delta int) Size {
	switch {
	case delta > e.rules.LargeThreshold():
		return Large
	case delta >= e.rules.SmallThreshold():
		return Medium
	default:
		return Small
	}
}

func (e *Extractor) statusCandidates(f *diffmodel.ChangedFile) []Candidate {
	switch f.Status() {
	case diffmodel.StatusDeleted:
		return []Candidate{{Type: changetype.Remove, Tier: TierPath, Strength: statusSpecificity, Source: "deleted"}}
	case diffmodel.StatusRenamed:
		if f.Added() == 0 && f.Removed() == 0 {
			return []Candidate{{Type: changetype.Move, Tier: TierPath, Strength: statusSpecificity, Source: "pure rename"}}
		}
	}
	return nil
}

// contentCandidates counts keyword hits in changed lines, one candidate per
// type, ordered by priority.
func (e *Extractor) contentCandidates(f *diffmodel.ChangedFile) []Candidate {
	hits := KeywordHits(e.rules, f.ChangedText())
	out := make([]Candidate, 0, len(hits))
	for t, n := range hits {
		out = append(out, Candidate{Type: t, Tier: TierContent, Strength: n, Source: "keywords"})
	}
	sort.Slice(out, func(i, j int) bool { return changetype.Outranks(out[i].Type, out[j].Type) })
	return out
}

// KeywordHits counts, per change type, the keyword tokens and phrases found
// in lines. Ignored tokens never count.
func KeywordHits(set *rules.Set, lines []string) map[changetype.Type]int {
	hits := make(map[changetype.Type]int)
	phrases := set.Phrases()
	for _, line := range lines {
		for _, tok := range Tokenize(line) {
			if set.Ignored(tok) {
				continue
			}
			if t, ok := set.Keyword(tok); ok {
				hits[t]++
			}
		}
		if len(phrases) == 0 {
			continue
		}
		lower := strings.ToLower(line)
		for _, p := range phrases {
			hits[p.Type] += strings.Count(lower, p.Text)
		}
	}
	for t, n := range hits {
		if n == 0 {
			delete(hits, t)
		}
	}
	return hits
}
