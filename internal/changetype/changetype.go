package changetype

import "fmt"

// Type is a change category. Base types map one-to-one onto conventional
// commit types; extended types refine a base type and carry their own glyph.
type Type string

// Base vocabulary.
const (
	Feat     Type = "feat"
	Fix      Type = "fix"
	Docs     Type = "docs"
	Style    Type = "style"
	Refactor Type = "refactor"
	Perf     Type = "perf"
	Test     Type = "test"
	Chore    Type = "chore"
	CI       Type = "ci"
	Security Type = "security"
)

// Extended vocabulary.
const (
	Move                Type = "move"
	Remove              Type = "remove"
	Packages            Type = "packages"
	DependencyAdd       Type = "dependency-add"
	DependencyRemove    Type = "dependency-remove"
	DependencyUpgrade   Type = "dependency-upgrade"
	DependencyDowngrade Type = "dependency-downgrade"
	Breaking            Type = "breaking"
	Revert              Type = "revert"
	Database            Type = "database"
	Assets              Type = "assets"
	Typo                Type = "typo"
)

// Concern names a commit boundary. Files carrying two different hard
// concerns are never committed together.
type Concern string

const (
	ConcernNone          Concern = ""
	ConcernDependency    Concern = "dependency"
	ConcernMigration     Concern = "migration"
	ConcernBusinessLogic Concern = "business-logic"
)

// Hard reports whether c forces a commit boundary.
func (c Concern) Hard() bool {
	return c != ConcernNone
}

// Info is the static description of a Type.
type Info struct {
	Glyph   string
	Code    string  // conventional type written in the header
	Base    Type    // base vocabulary entry this type refines
	Concern Concern // hard concern implied by the type itself, if any
	Risk    int     // higher risk commits are created later
}

var table = map[Type]Info{
	Docs:                {Glyph: "📝", Code: "docs", Base: Docs, Risk: 0},
	Typo:                {Glyph: "✏️", Code: "docs", Base: Docs, Risk: 0},
	Assets:              {Glyph: "🍱", Code: "chore", Base: Chore, Risk: 1},
	Chore:               {Glyph: "🔧", Code: "chore", Base: Chore, Risk: 1},
	Packages:            {Glyph: "📦️", Code: "chore", Base: Chore, Concern: ConcernDependency, Risk: 1},
	DependencyAdd:       {Glyph: "➕", Code: "chore", Base: Chore, Concern: ConcernDependency, Risk: 1},
	DependencyRemove:    {Glyph: "➖", Code: "chore", Base: Chore, Concern: ConcernDependency, Risk: 1},
	DependencyUpgrade:   {Glyph: "⬆️", Code: "chore", Base: Chore, Concern: ConcernDependency, Risk: 1},
	DependencyDowngrade: {Glyph: "⬇️", Code: "chore", Base: Chore, Concern: ConcernDependency, Risk: 1},
	Style:               {Glyph: "💄", Code: "style", Base: Style, Risk: 1},
	CI:                  {Glyph: "🚀", Code: "ci", Base: CI, Risk: 2},
	Test:                {Glyph: "✅", Code: "test", Base: Test, Risk: 2},
	Refactor:            {Glyph: "♻️", Code: "refactor", Base: Refactor, Risk: 3},
	Move:                {Glyph: "🚚", Code: "refactor", Base: Refactor, Risk: 3},
	Remove:              {Glyph: "🔥", Code: "refactor", Base: Refactor, Risk: 3},
	Perf:                {Glyph: "⚡️", Code: "perf", Base: Perf, Risk: 4},
	Database:            {Glyph: "🗃️", Code: "chore", Base: Chore, Concern: ConcernMigration, Risk: 5},
	Feat:                {Glyph: "✨", Code: "feat", Base: Feat, Risk: 6},
	Fix:                 {Glyph: "🐛", Code: "fix", Base: Fix, Risk: 7},
	Revert:              {Glyph: "⏪️", Code: "revert", Base: Revert, Risk: 7},
	Security:            {Glyph: "🔒️", Code: "security", Base: Security, Risk: 8},
	Breaking:            {Glyph: "💥", Code: "feat", Base: Feat, Risk: 9},
}

// priority lists every type from the strongest to the weakest tie-break winner.
var priority = []Type{
	Security, Breaking, Revert, Fix, Typo, Feat, Refactor, Move, Remove, Perf,
	Test, Docs, Style, CI, Database, DependencyAdd, DependencyRemove,
	DependencyUpgrade, DependencyDowngrade, Packages, Assets, Chore,
}

var rank = func() map[Type]int {
	m := make(map[Type]int, len(priority))
	for i, t := range priority {
		// Lower index means higher priority; store as descending score.
		m[t] = len(priority) - i
	}
	return m
}()

// Lookup returns the static Info for t.
func Lookup(t Type) (Info, bool) {
	info, ok := table[t]
	return info, ok
}

// MustLookup returns the static Info for t and panics on unknown types.
// Only use it with types that come from this package's constants.
func MustLookup(t Type) Info {
	info, ok := table[t]
	if !ok {
		panic(fmt.Sprintf("changetype: unknown type %q", t))
	}
	return info
}

// Parse converts a rule-table name into a Type.
func Parse(name string) (Type, error) {
	t := Type(name)
	if _, ok := table[t]; !ok {
		return "", fmt.Errorf("unknown change type %q", name)
	}
	return t, nil
}

// All returns every known type in priority order.
func All() []Type {
	out := make([]Type, len(priority))
	copy(out, priority)
	return out
}

// Priority returns the tie-break score of t; higher wins. Unknown types score 0.
func Priority(t Type) int {
	return rank[t]
}

// Outranks reports whether a wins a tie against b.
func Outranks(a, b Type) bool {
	return rank[a] > rank[b]
}

// Glyph returns the display glyph of t.
func (t Type) Glyph() string { return table[t].Glyph }

// Code returns the conventional type written in commit headers.
func (t Type) Code() string { return table[t].Code }

// Base returns the base vocabulary type t refines.
func (t Type) Base() Type { return table[t].Base }

// Risk returns the ordering risk of t.
func (t Type) Risk() int { return table[t].Risk }

func (t Type) String() string { return string(t) }

// IsDependency reports whether t describes a dependency change.
func (t Type) IsDependency() bool {
	return table[t].Concern == ConcernDependency
}

// Confidence is an ordinal certainty attached to a classification. It only
// orders tie-breaks and is never compared against thresholds.
type Confidence int

const (
	Low Confidence = iota
	Medium
	High
)

func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}
