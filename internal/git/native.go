package git

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/binary"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"

	"github.com/agentx-labs/commitx/internal/diffmodel"
)

// NativeReader reads staged changes straight from the repository's index
// and HEAD tree. Renames are detected only when the content is unchanged.
type NativeReader struct {
	repo *gogit.Repository
	log  *zap.Logger
}

// OpenNative opens the repository containing dir.
func OpenNative(dir string, log *zap.Logger) (*NativeReader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, errors.Mark(errors.Wrapf(err, "opening %s", dir), ErrNotRepository)
		}
		return nil, errors.Wrapf(err, "opening %s", dir)
	}
	return &NativeReader{repo: repo, log: log}, nil
}

type entry struct {
	hash plumbing.Hash
	mode filemode.FileMode
}

// StagedRecords compares the index with HEAD. Records come back sorted by
// path, as git diff prints them.
func (n *NativeReader) StagedRecords(ctx context.Context) ([]diffmodel.Record, error) {
	head, err := n.headEntries()
	if err != nil {
		return nil, err
	}
	idx, err := n.repo.Storer.Index()
	if err != nil {
		return nil, errors.Wrap(err, "reading index")
	}

	staged := make(map[string]entry, len(idx.Entries))
	for _, e := range idx.Entries {
		if e.Stage != 0 {
			return nil, errors.WithHint(errors.Newf("%s: unmerged path", e.Name),
				"resolve the merge conflict before planning commits")
		}
		staged[e.Name] = entry{hash: e.Hash, mode: e.Mode}
	}

	var added, deleted []string
	var records []diffmodel.Record
	for name, e := range staged {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.mode == filemode.Submodule {
			continue
		}
		old, ok := head[name]
		switch {
		case !ok:
			added = append(added, name)
		case old.hash != e.hash:
			rec, err := n.record(name, diffmodel.StatusModified, old.hash, e.hash)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	for name, e := range head {
		if _, ok := staged[name]; !ok && e.mode != filemode.Submodule {
			deleted = append(deleted, name)
		}
	}
	sort.Strings(added)
	sort.Strings(deleted)

	// Pair identical blobs into renames.
	gone := make(map[plumbing.Hash][]string)
	for _, name := range deleted {
		h := head[name].hash
		gone[h] = append(gone[h], name)
	}
	renamed := make(map[string]bool)
	for _, name := range added {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := staged[name].hash
		if olds := gone[h]; len(olds) > 0 {
			gone[h] = olds[1:]
			renamed[olds[0]] = true
			records = append(records, diffmodel.Record{
				Path:    name,
				OldPath: olds[0],
				Status:  string(diffmodel.StatusRenamed),
			})
			continue
		}
		rec, err := n.record(name, diffmodel.StatusAdded, plumbing.ZeroHash, h)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	for _, name := range deleted {
		if renamed[name] {
			continue
		}
		rec, err := n.record(name, diffmodel.StatusDeleted, head[name].hash, plumbing.ZeroHash)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	n.log.Debug("read index", zap.Int("entries", len(idx.Entries)), zap.Int("staged", len(records)))
	return records, nil
}

// headEntries lists the files of the HEAD tree. An unborn branch has none.
func (n *NativeReader) headEntries() (map[string]entry, error) {
	out := make(map[string]entry)
	ref, err := n.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "resolving HEAD")
	}
	commit, err := n.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, errors.Wrapf(err, "reading commit %s", ref.Hash())
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Wrap(err, "reading HEAD tree")
	}
	err = tree.Files().ForEach(func(f *object.File) error {
		out[f.Name] = entry{hash: f.Hash, mode: f.Mode}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking HEAD tree")
	}
	return out, nil
}

func (n *NativeReader) record(name string, status diffmodel.Status, from, to plumbing.Hash) (diffmodel.Record, error) {
	rec := diffmodel.Record{Path: name, Status: string(status)}

	before, binBefore, err := n.blob(from)
	if err != nil {
		return rec, err
	}
	after, binAfter, err := n.blob(to)
	if err != nil {
		return rec, err
	}
	if binBefore || binAfter {
		rec.Binary = true
		return rec, nil
	}
	rec.Hunks, rec.Added, rec.Removed = lineDiff(before, after)
	return rec, nil
}

// blob returns the content of h, or "" for the zero hash.
func (n *NativeReader) blob(h plumbing.Hash) (string, bool, error) {
	if h.IsZero() {
		return "", false, nil
	}
	b, err := n.repo.BlobObject(h)
	if err != nil {
		return "", false, errors.Wrapf(err, "reading blob %s", h)
	}
	r, err := b.Reader()
	if err != nil {
		return "", false, errors.Wrapf(err, "reading blob %s", h)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, errors.Wrapf(err, "reading blob %s", h)
	}
	isBin, err := binary.IsBinary(bytes.NewReader(data))
	if err != nil {
		return "", false, errors.Wrapf(err, "sniffing blob %s", h)
	}
	return string(data), isBin, nil
}

// lineDiff renders the line-level difference between two texts as +/- lines.
func lineDiff(before, after string) (hunks string, added, removed int) {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(src, dst, false)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix byte
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = '+'
		case diffmatchpatch.DiffDelete:
			prefix = '-'
		default:
			continue
		}
		for _, r := range d.Text {
			i := int(r)
			if i < 0 || i >= len(lines) {
				continue
			}
			sb.WriteByte(prefix)
			sb.WriteString(strings.TrimRight(lines[i], "\r\n"))
			sb.WriteByte('\n')
			if prefix == '+' {
				added++
			} else {
				removed++
			}
		}
	}
	return sb.String(), added, removed
}
