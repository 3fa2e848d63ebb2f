package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed rules.yaml
var defaultRules []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns a copy of the embedded default rule table.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultRules)
		if defaultErr != nil {
			defaultErr = fmt.Errorf("parsing embedded rules: %w", defaultErr)
		}
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultTable.clone(), nil
}

// DefaultYAML returns the embedded default rule table as written.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Parse unmarshals a rule table without schema validation.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshaling rules: %w", err)
	}
	return &t, nil
}

// Load reads a custom rule file, validates it against the schema and merges
// it over the default table. An empty path returns the default table.
func Load(path string) (*Table, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating rules %s: %w", path, err)
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			msgs = append(msgs, issue.String())
		}
		return nil, fmt.Errorf("rules %s are invalid: %s", path, strings.Join(msgs, "; "))
	}

	custom, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	return Merge(base, custom), nil
}

// Merge returns base with every section that override defines replaced.
func Merge(base, override *Table) *Table {
	out := base.clone()
	if override == nil {
		return out
	}
	if override.Version != 0 {
		out.Version = override.Version
	}
	if override.Thresholds.Small > 0 {
		out.Thresholds.Small = override.Thresholds.Small
	}
	if override.Thresholds.Large > 0 {
		out.Thresholds.Large = override.Thresholds.Large
	}
	if len(override.Paths) > 0 {
		out.Paths = append([]PathRule(nil), override.Paths...)
	}
	if len(override.Keywords) > 0 {
		out.Keywords = cloneKeywords(override.Keywords)
	}
	if len(override.Ignore) > 0 {
		out.Ignore = append([]string(nil), override.Ignore...)
	}
	if len(override.Areas) > 0 {
		out.Areas = cloneAreas(override.Areas)
	}
	return out
}

// Marshal renders t as YAML.
func Marshal(t *Table) ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling rules: %w", err)
	}
	return data, nil
}

func (t *Table) clone() *Table {
	out := &Table{
		Version:    t.Version,
		Thresholds: t.Thresholds,
		Paths:      append([]PathRule(nil), t.Paths...),
		Keywords:   cloneKeywords(t.Keywords),
		Ignore:     append([]string(nil), t.Ignore...),
		Areas:      cloneAreas(t.Areas),
	}
	return out
}

func cloneKeywords(in []KeywordRule) []KeywordRule {
	out := make([]KeywordRule, len(in))
	for i, k := range in {
		out[i] = KeywordRule{Type: k.Type, Words: append([]string(nil), k.Words...)}
	}
	return out
}

func cloneAreas(in []AreaRule) []AreaRule {
	out := make([]AreaRule, len(in))
	for i, a := range in {
		out[i] = AreaRule{Name: a.Name, Patterns: append([]string(nil), a.Patterns...)}
	}
	return out
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
