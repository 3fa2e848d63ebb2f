package features

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agentx-labs/commitx/internal/changetype"
	"github.com/agentx-labs/commitx/internal/diffmodel"
)

// DepChange is one dependency whose declared version changed in a manifest.
// From is empty for an added dependency, To for a removed one.
type DepChange struct {
	Name string
	From string
	To   string
}

// Kind returns the change type describing the version change, or "" when
// the versions compare equal or cannot be ordered.
func (d DepChange) Kind() changetype.Type {
	switch {
	case d.From == "" && d.To != "":
		return changetype.DependencyAdd
	case d.To == "" && d.From != "":
		return changetype.DependencyRemove
	}
	cmp, err := CompareVersions(d.From, d.To)
	if err != nil {
		return ""
	}
	switch cmp {
	case -1:
		return changetype.DependencyUpgrade
	case 1:
		return changetype.DependencyDowngrade
	}
	return ""
}

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b. Range operators such as
// "^" or "~>" and a leading "v" are stripped before parsing.
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimLeft(strings.TrimSpace(version), "^~=<>! ")
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}

// Ecosystem names the package ecosystem of a manifest or lock file, or ""
// when p is neither.
func Ecosystem(p string) string {
	base := path.Base(p)
	switch {
	case base == "package.json", base == "package-lock.json", base == "yarn.lock",
		base == "pnpm-lock.yaml", base == "npm-shrinkwrap.json":
		return "npm"
	case base == "go.mod", base == "go.sum":
		return "Go module"
	case base == "Cargo.toml", base == "Cargo.lock":
		return "Cargo"
	case base == "pyproject.toml", base == "poetry.lock", base == "Pipfile", base == "Pipfile.lock",
		strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt"):
		return "pip"
	case base == "Gemfile", base == "Gemfile.lock":
		return "Bundler"
	case base == "composer.json", base == "composer.lock":
		return "Composer"
	case base == "pom.xml", strings.HasPrefix(base, "build.gradle"):
		return "Maven"
	}
	return ""
}

// manifestParser extracts (name, version) pairs from one manifest line.
type manifestParser func(line string) (name, version string, ok bool)

var (
	jsonDepRe     = regexp.MustCompile(`^\s*"([@\w./-]+)"\s*:\s*"([^"]+)"`)
	goModDepRe    = regexp.MustCompile(`^\s*(?:require\s+)?([\w.-]+\.[\w.-]+/\S+)\s+(v\S+)`)
	tomlDepRe     = regexp.MustCompile(`^\s*([\w-]+)\s*=\s*(?:"([^"]+)"|\{.*version\s*=\s*"([^"]+)")`)
	requirementRe = regexp.MustCompile(`^\s*"?([A-Za-z0-9][\w.-]*)(?:\[[^\]]*\])?\s*(?:==|>=|~=|<=|>|<)\s*([\w.*+-]+)`)
	gemfileRe     = regexp.MustCompile(`^\s*gem\s+['"]([\w-]+)['"]\s*,\s*['"]([^'"]+)['"]`)
)

// package.json keys that share the "key": "value" shape without naming a
// dependency.
var jsonMetaKeys = map[string]bool{
	"name": true, "version": true, "description": true, "main": true, "module": true,
	"types": true, "license": true, "author": true, "homepage": true, "type": true,
	"node": true, "npm": true, "packageManager": true,
}

func parseJSONDep(line string) (string, string, bool) {
	m := jsonDepRe.FindStringSubmatch(line)
	if m == nil || jsonMetaKeys[m[1]] {
		return "", "", false
	}
	if !looksLikeVersion(m[2]) {
		return "", "", false
	}
	return m[1], m[2], true
}

func parseGoModDep(line string) (string, string, bool) {
	m := goModDepRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func parseTOMLDep(line string) (string, string, bool) {
	m := tomlDepRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	version := m[2]
	if version == "" {
		version = m[3]
	}
	if m[1] == "version" || m[1] == "edition" || m[1] == "python" || !looksLikeVersion(version) {
		return "", "", false
	}
	return m[1], version, true
}

func parseRequirement(line string) (string, string, bool) {
	m := requirementRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func parseGemfileDep(line string) (string, string, bool) {
	m := gemfileRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func looksLikeVersion(v string) bool {
	v = strings.TrimLeft(strings.TrimSpace(v), "^~=<>! v")
	return v != "" && v[0] >= '0' && v[0] <= '9'
}

func manifestParserFor(p string) manifestParser {
	base := path.Base(p)
	switch {
	case base == "package.json", base == "composer.json":
		return parseJSONDep
	case base == "go.mod":
		return parseGoModDep
	case base == "Cargo.toml":
		return parseTOMLDep
	case base == "pyproject.toml":
		return func(line string) (string, string, bool) {
			if name, v, ok := parseRequirement(line); ok {
				return name, v, true
			}
			return parseTOMLDep(line)
		}
	case strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt"):
		return parseRequirement
	case base == "Gemfile":
		return parseGemfileDep
	}
	return nil
}

// IsManifest reports whether p is a dependency manifest whose changed lines
// can be read as version changes. Lock files are not manifests.
func IsManifest(p string) bool {
	return manifestParserFor(p) != nil
}

// ParseDependencies reads the version changes out of a manifest's changed
// lines. Results are sorted by name; unchanged versions are dropped.
func ParseDependencies(f *diffmodel.ChangedFile) []DepChange {
	parse := manifestParserFor(f.Path())
	if parse == nil {
		return nil
	}

	byName := make(map[string]*DepChange)
	for _, l := range f.Lines() {
		if l.Kind == diffmodel.LineContext {
			continue
		}
		name, version, ok := parse(l.Text)
		if !ok {
			continue
		}
		d, seen := byName[name]
		if !seen {
			d = &DepChange{Name: name}
			byName[name] = d
		}
		if l.Kind == diffmodel.LineRemove {
			d.From = version
		} else {
			d.To = version
		}
	}

	out := make([]DepChange, 0, len(byName))
	for _, d := range byName {
		if d.From == d.To {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// dependencyType summarizes a manifest's changes as the most frequent kind,
// ties going to the higher-priority kind.
func dependencyType(deps []DepChange) changetype.Type {
	counts := make(map[changetype.Type]int)
	for _, d := range deps {
		if k := d.Kind(); k != "" {
			counts[k]++
		}
	}
	var best changetype.Type
	for t, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && changetype.Outranks(t, best)) {
			best = t
		}
	}
	return best
}
