package diffmodel

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	diffHeaderRe = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
	renameFromRe = regexp.MustCompile(`^rename from (.+)$`)
	renameToRe   = regexp.MustCompile(`^rename to (.+)$`)
	binaryRe     = regexp.MustCompile(`^Binary files (.+) and (.+) differ$`)
)

// ParseUnified parses unified diff text, as printed by `git diff --staged`,
// into records ready for NewSnapshot. Text outside a `diff --git` block is
// ignored.
func ParseUnified(input string) ([]Record, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	var records []Record
	i := 0

	for i < len(lines) {
		m := diffHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		rec := Record{OldPath: m[1], Path: m[2]}
		i++

		// Extended header lines, up to the first hunk or the next file.
		for i < len(lines) {
			line := lines[i]
			if strings.HasPrefix(line, "diff --git ") || strings.HasPrefix(line, "@@ ") {
				break
			}
			switch {
			case strings.HasPrefix(line, "new file mode"):
				rec.Status = string(StatusAdded)
			case strings.HasPrefix(line, "deleted file mode"):
				rec.Status = string(StatusDeleted)
			case renameFromRe.MatchString(line):
				rec.OldPath = renameFromRe.FindStringSubmatch(line)[1]
				rec.Status = string(StatusRenamed)
			case renameToRe.MatchString(line):
				rec.Path = renameToRe.FindStringSubmatch(line)[1]
				rec.Status = string(StatusRenamed)
			case binaryRe.MatchString(line):
				bm := binaryRe.FindStringSubmatch(line)
				rec.Binary = true
				if bm[1] == "/dev/null" {
					rec.Status = string(StatusAdded)
				}
				if bm[2] == "/dev/null" {
					rec.Status = string(StatusDeleted)
				}
			case strings.HasPrefix(line, "--- "):
				if parseFileName(line[4:]) == "/dev/null" {
					rec.Status = string(StatusAdded)
				}
			case strings.HasPrefix(line, "+++ "):
				if parseFileName(line[4:]) == "/dev/null" {
					rec.Status = string(StatusDeleted)
				}
			}
			i++
		}

		var hunk strings.Builder
		for i < len(lines) {
			line := lines[i]
			if strings.HasPrefix(line, "diff --git ") {
				break
			}
			if strings.HasPrefix(line, "@@ ") {
				if !hunkHeaderRe.MatchString(line) {
					return nil, errors.Mark(errors.Newf("%s: malformed hunk header %q", rec.Path, line), ErrInvalidRecord)
				}
				hunk.WriteString(line)
				hunk.WriteByte('\n')
				i++
				continue
			}
			if line != "" {
				switch line[0] {
				case '+':
					rec.Added++
				case '-':
					rec.Removed++
				}
				hunk.WriteString(line)
				hunk.WriteByte('\n')
			}
			i++
		}
		rec.Hunks = hunk.String()

		if rec.Status == "" {
			rec.Status = string(StatusModified)
		}
		if rec.Status != string(StatusRenamed) {
			rec.OldPath = ""
		}
		records = append(records, rec)
	}

	return records, nil
}

// parseFileName extracts the file name from a --- or +++ line value.
func parseFileName(s string) string {
	s = strings.TrimSpace(s)
	if s == "/dev/null" {
		return s
	}
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		return s[2:]
	}
	return s
}
