package diffmodel

import "strings"

// Status is the staging status of a file.
type Status string

const (
	StatusAdded    Status = "added"
	StatusModified Status = "modified"
	StatusDeleted  Status = "deleted"
	StatusRenamed  Status = "renamed"
)

// ParseStatus accepts the long form ("added") and the single-letter form
// printed by `git diff --name-status` ("A"). Empty means modified.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "modified":
		return StatusModified, true
	case "a", "added":
		return StatusAdded, true
	case "d", "deleted":
		return StatusDeleted, true
	case "r", "renamed":
		return StatusRenamed, true
	}
	// git prints renames with a similarity score, e.g. "R087".
	if len(s) > 1 && (s[0] == 'R' || s[0] == 'r') && isDigits(s[1:]) {
		return StatusRenamed, true
	}
	return "", false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Record is a staged file as supplied by a git collaborator.
type Record struct {
	Path    string `json:"path"`
	OldPath string `json:"oldPath,omitempty"`
	Status  string `json:"status"`
	Hunks   string `json:"hunks,omitempty"`
	Added   int    `json:"added,omitempty"`
	Removed int    `json:"removed,omitempty"`
	Binary  bool   `json:"binary,omitempty"`
}

// LineKind classifies a single hunk line.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

// Line is one line-level edit inside a hunk.
type Line struct {
	Kind LineKind
	Text string
}

// ChangedFile is a validated staged file. It is never mutated after the
// snapshot is built; accessors hand out copies where aliasing is possible.
type ChangedFile struct {
	index   int
	path    string
	oldPath string
	status  Status
	added   int
	removed int
	binary  bool
	lines   []Line
}

// Index returns the position of the file in the staged input.
func (f *ChangedFile) Index() int { return f.index }

// Path returns the repository-relative path, using forward slashes.
func (f *ChangedFile) Path() string { return f.path }

// OldPath returns the pre-rename path, or "" when the file was not renamed.
func (f *ChangedFile) OldPath() string { return f.oldPath }

// Status returns the staging status.
func (f *ChangedFile) Status() Status { return f.status }

// Added returns the number of added lines.
func (f *ChangedFile) Added() int { return f.added }

// Removed returns the number of removed lines.
func (f *ChangedFile) Removed() int { return f.removed }

// Delta returns added plus removed lines.
func (f *ChangedFile) Delta() int { return f.added + f.removed }

// Binary reports whether git treated the file as binary.
func (f *ChangedFile) Binary() bool { return f.binary }

// Lines returns a copy of the line-level edits in hunk order.
func (f *ChangedFile) Lines() []Line {
	out := make([]Line, len(f.lines))
	copy(out, f.lines)
	return out
}

// ChangedText returns the text of added and removed lines, one per line.
func (f *ChangedFile) ChangedText() []string {
	var out []string
	for _, l := range f.lines {
		if l.Kind != LineContext {
			out = append(out, l.Text)
		}
	}
	return out
}

// AddedText returns the text of added lines.
func (f *ChangedFile) AddedText() []string {
	return f.textOf(LineAdd)
}

// RemovedText returns the text of removed lines.
func (f *ChangedFile) RemovedText() []string {
	return f.textOf(LineRemove)
}

func (f *ChangedFile) textOf(kind LineKind) []string {
	var out []string
	for _, l := range f.lines {
		if l.Kind == kind {
			out = append(out, l.Text)
		}
	}
	return out
}

// Paths returns every path git needs to record this change: the new path and,
// for renames, the old one.
func (f *ChangedFile) Paths() []string {
	if f.oldPath != "" && f.oldPath != f.path {
		return []string{f.oldPath, f.path}
	}
	return []string{f.path}
}
