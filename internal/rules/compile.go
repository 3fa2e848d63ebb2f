package rules

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/agentx-labs/commitx/internal/changetype"
)

const (
	defaultSmall = 20
	defaultLarge = 200
)

// PathMatch is one path rule that matched a file.
type PathMatch struct {
	Type        changetype.Type
	Pattern     string
	Specificity int
}

// Phrase is a multi-word keyword matched as a substring of lower-cased text.
type Phrase struct {
	Text string
	Type changetype.Type
}

// Set is a compiled rule table, safe for concurrent use.
type Set struct {
	small, large int

	paths    []pathMatcher
	keywords map[string]changetype.Type
	phrases  []Phrase
	ignore   map[string]bool
	areas    []areaMatcher
}

type pathMatcher struct {
	pattern     string
	typ         changetype.Type
	specificity int
	m           matcher
}

type areaMatcher struct {
	name     string
	matchers []matcher
}

// matcher matches a slash-separated repository path. Patterns without a
// slash apply to the base name; a leading "**/" also matches at the root.
type matcher struct {
	base  bool
	globs []glob.Glob
}

func (m matcher) match(p string) bool {
	if m.base {
		p = path.Base(p)
	}
	for _, g := range m.globs {
		if g.Match(p) {
			return true
		}
	}
	return false
}

func compileMatcher(pattern string) (matcher, error) {
	pattern = strings.TrimPrefix(pattern, "./")
	m := matcher{base: !strings.Contains(pattern, "/")}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return matcher{}, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	m.globs = append(m.globs, g)

	if rest, ok := strings.CutPrefix(pattern, "**/"); ok && rest != "" {
		root, err := glob.Compile(rest, '/')
		if err != nil {
			return matcher{}, fmt.Errorf("compiling pattern %q: %w", pattern, err)
		}
		m.globs = append(m.globs, root)
	}
	return m, nil
}

// Specificity scores how narrowly a pattern constrains a path: two points per
// constrained directory segment plus one when the file name is constrained.
// "*" and "**" constrain nothing.
func Specificity(pattern string) int {
	segs := strings.Split(strings.Trim(pattern, "/"), "/")
	score := 0
	for i, s := range segs {
		if s == "" || s == "*" || s == "**" {
			continue
		}
		if i == len(segs)-1 {
			score++
		} else {
			score += 2
		}
	}
	return score
}

// Compile checks a table and builds its matchers. Missing thresholds fall
// back to 20 and 200 lines.
func Compile(t *Table) (*Set, error) {
	if t == nil {
		return nil, fmt.Errorf("compiling rules: nil table")
	}
	s := &Set{
		small:    t.Thresholds.Small,
		large:    t.Thresholds.Large,
		keywords: make(map[string]changetype.Type),
		ignore:   make(map[string]bool, len(t.Ignore)),
	}
	if s.small <= 0 {
		s.small = defaultSmall
	}
	if s.large <= 0 {
		s.large = defaultLarge
	}
	if s.small >= s.large {
		return nil, fmt.Errorf("compiling rules: small threshold %d must be below large threshold %d", s.small, s.large)
	}

	for i, r := range t.Paths {
		typ, err := changetype.Parse(r.Type)
		if err != nil {
			return nil, fmt.Errorf("paths[%d]: %w", i, err)
		}
		m, err := compileMatcher(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("paths[%d]: %w", i, err)
		}
		s.paths = append(s.paths, pathMatcher{
			pattern:     r.Pattern,
			typ:         typ,
			specificity: Specificity(r.Pattern),
			m:           m,
		})
	}

	for i, k := range t.Keywords {
		typ, err := changetype.Parse(k.Type)
		if err != nil {
			return nil, fmt.Errorf("keywords[%d]: %w", i, err)
		}
		for _, w := range k.Words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			if isPhrase(w) {
				s.phrases = append(s.phrases, Phrase{Text: w, Type: typ})
				continue
			}
			// An earlier list keeps a word it shares with a later one.
			if _, dup := s.keywords[w]; !dup {
				s.keywords[w] = typ
			}
		}
	}

	for _, w := range t.Ignore {
		s.ignore[strings.ToLower(strings.TrimSpace(w))] = true
	}

	for i, a := range t.Areas {
		am := areaMatcher{name: a.Name}
		for _, p := range a.Patterns {
			m, err := compileMatcher(p)
			if err != nil {
				return nil, fmt.Errorf("areas[%d]: %w", i, err)
			}
			am.matchers = append(am.matchers, m)
		}
		s.areas = append(s.areas, am)
	}
	return s, nil
}

// MustCompileDefault compiles the embedded table and panics if it is broken.
func MustCompileDefault() *Set {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	s, err := Compile(t)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded table: %v", err))
	}
	return s
}

func isPhrase(w string) bool {
	return strings.ContainsFunc(w, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	})
}

// SmallThreshold is the line delta below which a change counts as small.
func (s *Set) SmallThreshold() int { return s.small }

// LargeThreshold is the line delta above which a change counts as large and
// a commit group gets split.
func (s *Set) LargeThreshold() int { return s.large }

// MatchPath returns every path rule matching p, in table order.
func (s *Set) MatchPath(p string) []PathMatch {
	var out []PathMatch
	for _, pm := range s.paths {
		if pm.m.match(p) {
			out = append(out, PathMatch{Type: pm.typ, Pattern: pm.pattern, Specificity: pm.specificity})
		}
	}
	return out
}

// Keyword looks up a lower-cased token in the keyword table.
func (s *Set) Keyword(token string) (changetype.Type, bool) {
	t, ok := s.keywords[token]
	return t, ok
}

// Phrases returns the multi-word keywords.
func (s *Set) Phrases() []Phrase {
	return append([]Phrase(nil), s.phrases...)
}

// Ignored reports whether a lower-cased token must never count as a keyword.
func (s *Set) Ignored(token string) bool {
	return s.ignore[token]
}

// Area returns the first area whose patterns match p, or "" when none does.
func (s *Set) Area(p string) string {
	for _, a := range s.areas {
		for _, m := range a.matchers {
			if m.match(p) {
				return a.name
			}
		}
	}
	return ""
}
