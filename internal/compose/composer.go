// Package compose turns a commit group into a standardized commit message:
// a "glyph type: Description" header with an imperative verb and a subject
// taken from the group's paths, dependencies or changed text.
package compose

import (
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/agentx-labs/commitx/internal/changetype"
	"github.com/agentx-labs/commitx/internal/diffmodel"
	"github.com/agentx-labs/commitx/internal/features"
	"github.com/agentx-labs/commitx/internal/partition"
)

// MaxHeader is the longest header, in runes, the composer ever produces.
const MaxHeader = 72

// Message is a composed commit message.
type Message struct {
	Header string
	Body   string
}

// String renders the message as git stores it.
func (m Message) String() string {
	if m.Body == "" {
		return m.Header
	}
	return m.Header + "\n\n" + m.Body
}

// UncomposableMessageError reports a group for which no description could
// be derived. The caller has to supply one.
type UncomposableMessageError struct {
	Group  partition.Group
	Reason string
}

func (e *UncomposableMessageError) Error() string {
	return fmt.Sprintf("cannot compose a %s message for %d file(s) starting at %s: %s",
		e.Group.Type, len(e.Group.Files), firstPath(e.Group), e.Reason)
}

// Options tunes the composer.
type Options struct {
	// MaxHeader caps the header length. Values outside 1..72 mean 72.
	MaxHeader int
	// Body adds a per-file summary to messages of multi-file groups.
	Body bool
}

// Composer builds commit messages.
type Composer struct {
	maxHeader int
	body      bool
	log       *zap.Logger
}

// New returns a composer. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	limit := opts.MaxHeader
	if limit <= 0 || limit > MaxHeader {
		limit = MaxHeader
	}
	return &Composer{maxHeader: limit, body: opts.Body, log: log}
}

// Compose derives the message for g.
func (c *Composer) Compose(g partition.Group) (Message, error) {
	if len(g.Files) == 0 {
		return Message{}, &UncomposableMessageError{Group: g, Reason: "empty group"}
	}

	desc := c.describe(g)
	if desc == "" {
		return Message{}, &UncomposableMessageError{Group: g, Reason: "no subject in paths or changed text"}
	}
	return c.build(g, desc)
}

// ComposeManual applies the header style rules to a caller-supplied
// description.
func (c *Composer) ComposeManual(g partition.Group, description string) (Message, error) {
	desc := strings.Join(strings.Fields(description), " ")
	if desc == "" {
		return Message{}, &UncomposableMessageError{Group: g, Reason: "empty description"}
	}
	return c.build(g, desc)
}

func (c *Composer) build(g partition.Group, desc string) (Message, error) {
	prefix := fmt.Sprintf("%s %s: ", g.Type.Glyph(), g.Type.Code())
	room := c.maxHeader - utf8.RuneCountInString(prefix)
	desc = styleDescription(desc, room)
	if desc == "" {
		return Message{}, &UncomposableMessageError{Group: g, Reason: "description does not fit the header"}
	}

	msg := Message{Header: prefix + desc}
	if c.body && len(g.Files) > 1 {
		msg.Body = renderBody(g)
	}
	c.log.Debug("composed message", zap.String("header", msg.Header))
	return msg, nil
}

// styleDescription strips trailing periods, truncates at a word boundary so
// it fits in room runes and upper-cases the first letter.
func styleDescription(desc string, room int) string {
	if room <= 0 {
		return ""
	}
	desc = strings.TrimRight(strings.TrimSpace(desc), ". ")
	if utf8.RuneCountInString(desc) > room {
		runes := []rune(desc)
		cut := string(runes[:room])
		if i := strings.LastIndexByte(cut, ' '); i > 0 && runes[room] != ' ' {
			cut = cut[:i]
		}
		desc = strings.TrimRight(cut, ".,;: ")
	}
	r, size := utf8.DecodeRuneInString(desc)
	if r == utf8.RuneError {
		return desc
	}
	return string(unicode.ToUpper(r)) + desc[size:]
}

func renderBody(g partition.Group) string {
	var b strings.Builder
	for i, cl := range g.Files {
		f := cl.File
		if i > 0 {
			b.WriteString("\n")
		}
		if f.Status() == diffmodel.StatusRenamed {
			fmt.Fprintf(&b, "%s -> ", f.OldPath())
		}
		fmt.Fprintf(&b, "%s (+%d -%d)", f.Path(), f.Added(), f.Removed())
	}
	return b.String()
}

// describe renders "verb subject" for g, or "" without a subject.
func (c *Composer) describe(g partition.Group) string {
	verb := pickVerb(g)

	if d := dependencyDescription(g, verb); d != "" {
		return d
	}

	subject := pathSubject(g)
	if subject == "" {
		subject = hunkSubject(g)
	}
	if subject == "" {
		return ""
	}
	if g.Type.Base() == changetype.Test {
		subject += " tests"
	}
	return verb + " " + subject
}

// pickVerb returns the most frequent allowed verb in the group's changed
// text, ties going to the more preferred verb.
func pickVerb(g partition.Group) string {
	rule, ok := verbRules[g.Type]
	if !ok {
		rule = verbRules[changetype.Chore]
	}

	counts := make(map[string]int)
	for _, cl := range g.Files {
		for _, line := range cl.File.ChangedText() {
			for _, tok := range features.Tokenize(line) {
				if v, ok := verbs[tok]; ok {
					counts[v]++
				}
			}
		}
	}

	best, bestN := "", 0
	for _, v := range rule.allowed {
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	if best != "" {
		return best
	}
	if allAdded(g) && contains(rule.allowed, "Add") {
		return "Add"
	}
	return rule.def
}

func allAdded(g partition.Group) bool {
	for _, cl := range g.Files {
		if cl.File.Status() != diffmodel.StatusAdded {
			return false
		}
	}
	return true
}

// dependencyDescription names the packages of a dependency group, or the
// ecosystem when only lock files changed.
func dependencyDescription(g partition.Group, verb string) string {
	if !g.Type.IsDependency() {
		return ""
	}

	var deps []features.DepChange
	for _, cl := range g.Files {
		for _, d := range cl.Signals.Deps {
			if g.Type == changetype.Packages || d.Kind() == g.Type {
				deps = append(deps, d)
			}
		}
	}

	switch len(deps) {
	case 0:
	case 1:
		d := deps[0]
		name := shortName(d.Name)
		if (g.Type == changetype.DependencyUpgrade || g.Type == changetype.DependencyDowngrade) && d.To != "" {
			return fmt.Sprintf("%s %s to %s", verb, name, d.To)
		}
		return verb + " " + name
	case 2:
		return fmt.Sprintf("%s %s and %s", verb, shortName(deps[0].Name), shortName(deps[1].Name))
	default:
		return fmt.Sprintf("%s %s, %s and %d more", verb, shortName(deps[0].Name), shortName(deps[1].Name), len(deps)-2)
	}

	for _, cl := range g.Files {
		if eco := features.Ecosystem(cl.File.Path()); eco != "" {
			return fmt.Sprintf("%s %s dependencies", verb, eco)
		}
	}
	return ""
}

func shortName(name string) string {
	if strings.HasPrefix(name, "@") {
		return name
	}
	base := path.Base(name)
	// Go major-version suffixes: github.com/x/y/v5 is "y".
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		base = path.Base(path.Dir(name))
	}
	return base
}

// pathSubject returns the most frequent meaningful token across the group's
// paths, ties going to the first seen.
func pathSubject(g partition.Group) string {
	var tokens []string
	for _, cl := range g.Files {
		for _, p := range cl.File.Paths() {
			tokens = append(tokens, features.Tokenize(p)...)
		}
	}
	return mostFrequent(tokens, meaningful)
}

// hunkSubject falls back to the most frequent meaningful word of the changed
// text that is not itself a verb.
func hunkSubject(g partition.Group) string {
	var tokens []string
	for _, cl := range g.Files {
		for _, line := range cl.File.ChangedText() {
			tokens = append(tokens, features.Tokenize(line)...)
		}
	}
	return mostFrequent(tokens, func(tok string) bool {
		_, verb := verbs[tok]
		return !verb && len(tok) >= 3 && meaningful(tok)
	})
}

func meaningful(tok string) bool {
	if len(tok) < 2 || stopWords[tok] {
		return false
	}
	return strings.IndexFunc(tok, unicode.IsLetter) >= 0
}

func mostFrequent(tokens []string, keep func(string) bool) string {
	counts := make(map[string]int)
	var order []string
	for _, t := range tokens {
		if !keep(t) {
			continue
		}
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	best := ""
	for _, t := range order {
		if best == "" || counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func firstPath(g partition.Group) string {
	if len(g.Files) == 0 {
		return "<none>"
	}
	return g.Files[0].File.Path()
}
