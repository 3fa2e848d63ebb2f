package diffmodel

import (
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrEmptyStaging is returned when there is nothing staged to analyze.
var ErrEmptyStaging = errors.New("no staged changes")

// ErrInvalidRecord marks a staged record that cannot be turned into a ChangedFile.
var ErrInvalidRecord = errors.New("invalid staged record")

// Snapshot is the read-only set of staged files captured for one invocation.
type Snapshot struct {
	files []*ChangedFile
}

// NewSnapshot validates records and captures them in input order. An empty
// record list fails with ErrEmptyStaging before anything else is checked.
func NewSnapshot(records []Record) (*Snapshot, error) {
	if len(records) == 0 {
		return nil, errors.WithHint(ErrEmptyStaging, "stage the files to commit with `git add <path>` and run again")
	}

	seen := make(map[string]int, len(records))
	files := make([]*ChangedFile, 0, len(records))
	for i, rec := range records {
		f, err := newChangedFile(i, rec)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[f.path]; dup {
			return nil, errors.Mark(
				errors.Newf("record %d: path %q already staged by record %d", i, f.path, prev),
				ErrInvalidRecord,
			)
		}
		seen[f.path] = i
		files = append(files, f)
	}
	return &Snapshot{files: files}, nil
}

// Files returns the staged files in input order. The slice is a copy; the
// files themselves are shared and immutable.
func (s *Snapshot) Files() []*ChangedFile {
	out := make([]*ChangedFile, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of staged files.
func (s *Snapshot) Len() int { return len(s.files) }

func newChangedFile(i int, rec Record) (*ChangedFile, error) {
	p := cleanPath(rec.Path)
	if p == "" {
		return nil, errors.Mark(errors.Newf("record %d: empty path", i), ErrInvalidRecord)
	}
	status, ok := ParseStatus(rec.Status)
	if !ok {
		return nil, errors.Mark(errors.Newf("record %d (%s): unknown status %q", i, p, rec.Status), ErrInvalidRecord)
	}
	if rec.Added < 0 || rec.Removed < 0 {
		return nil, errors.Mark(errors.Newf("record %d (%s): negative line count", i, p), ErrInvalidRecord)
	}

	f := &ChangedFile{
		index:   i,
		path:    p,
		oldPath: cleanPath(rec.OldPath),
		status:  status,
		binary:  rec.Binary,
		lines:   splitHunks(rec.Hunks),
	}
	if f.oldPath != "" && f.status == StatusModified && f.oldPath != f.path {
		f.status = StatusRenamed
	}

	f.added, f.removed = rec.Added, rec.Removed
	if f.added == 0 && f.removed == 0 {
		for _, l := range f.lines {
			switch l.Kind {
			case LineAdd:
				f.added++
			case LineRemove:
				f.removed++
			}
		}
	}
	return f, nil
}

func cleanPath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" || p == "/dev/null" {
		return ""
	}
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

// splitHunks turns raw hunk text into line-level edits. Unprefixed lines are
// treated as added text so plain descriptions still carry content signals.
func splitHunks(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for _, s := range raw {
		switch {
		case s == "":
			continue
		case strings.HasPrefix(s, "@@"), strings.HasPrefix(s, `\ No newline`):
			continue
		case s[0] == '+':
			lines = append(lines, Line{Kind: LineAdd, Text: s[1:]})
		case s[0] == '-':
			lines = append(lines, Line{Kind: LineRemove, Text: s[1:]})
		case s[0] == ' ':
			lines = append(lines, Line{Kind: LineContext, Text: s[1:]})
		default:
			lines = append(lines, Line{Kind: LineAdd, Text: s})
		}
	}
	return lines
}
