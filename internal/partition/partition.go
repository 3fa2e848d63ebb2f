package partition

import (
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/agentx-labs/commitx/internal/changetype"
	"github.com/agentx-labs/commitx/internal/classify"
)

// Group is one proposed commit.
type Group struct {
	Files      []classify.Classification // input order
	Type       changetype.Type
	Confidence changetype.Confidence
	Concern    changetype.Concern
	Area       string
	Delta      int
	Oversized  bool // still above the threshold after splitting
}

// Paths returns every path the commit must record, renames included.
func (g Group) Paths() []string {
	var out []string
	for _, c := range g.Files {
		out = append(out, c.File.Paths()...)
	}
	return out
}

// FirstIndex returns the input index of the group's first file.
func (g Group) FirstIndex() int {
	if len(g.Files) == 0 {
		return -1
	}
	return g.Files[0].File.Index()
}

// Partitioner groups classifications into commits.
type Partitioner struct {
	threshold int
	log       *zap.Logger
}

// New returns a partitioner that splits groups above threshold changed
// lines. A nil logger discards output.
func New(threshold int, log *zap.Logger) *Partitioner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Partitioner{threshold: threshold, log: log}
}

type bucketKey struct {
	code    string
	variant changetype.Type // set for types ranked apart from their base
	concern changetype.Concern
}

func keyOf(c classify.Classification) bucketKey {
	k := bucketKey{code: c.Type.Code(), concern: c.Concern}
	if c.Type.Risk() != c.Type.Base().Risk() {
		k.variant = c.Type
	}
	return k
}

// Partition returns the commit groups for cs, ordered by ascending risk of
// their dominant type and then by the input position of their first file.
func (p *Partitioner) Partition(cs []classify.Classification) []Group {
	var keys []bucketKey
	buckets := make(map[bucketKey][]classify.Classification)
	for _, c := range cs {
		k := keyOf(c)
		if _, ok := buckets[k]; !ok {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], c)
	}

	var groups []Group
	for _, k := range keys {
		for _, area := range splitByBoundary(buckets[k]) {
			for _, bin := range p.splitBySize(area) {
				groups = append(groups, p.newGroup(bin, k.concern))
			}
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := groups[i].Type.Risk(), groups[j].Type.Risk()
		if ri != rj {
			return ri < rj
		}
		return groups[i].FirstIndex() < groups[j].FirstIndex()
	})
	return groups
}

func (p *Partitioner) newGroup(files []classify.Classification, concern changetype.Concern) Group {
	sortByIndex(files)
	g := Group{Files: files, Concern: concern}
	for _, c := range files {
		g.Delta += c.File.Delta()
		if g.Area == "" {
			g.Area = c.Area
		}
	}
	g.Type, g.Confidence = Dominant(files)
	g.Oversized = g.Delta > p.threshold
	if g.Oversized {
		p.log.Warn("commit group above threshold",
			zap.Stringer("type", g.Type),
			zap.Int("delta", g.Delta),
			zap.Int("threshold", p.threshold),
		)
	}
	return g
}

// Dominant returns the type carried by the most files, then by the highest
// confidence, then by priority, with that type's best confidence.
func Dominant(cs []classify.Classification) (changetype.Type, changetype.Confidence) {
	count := make(map[changetype.Type]int)
	conf := make(map[changetype.Type]changetype.Confidence)
	for _, c := range cs {
		count[c.Type]++
		if c.Confidence > conf[c.Type] {
			conf[c.Type] = c.Confidence
		}
	}

	var best changetype.Type
	for _, c := range cs {
		t := c.Type
		switch {
		case best == "":
			best = t
		case count[t] != count[best]:
			if count[t] > count[best] {
				best = t
			}
		case conf[t] != conf[best]:
			if conf[t] > conf[best] {
				best = t
			}
		case changetype.Outranks(t, best):
			best = t
		}
	}
	if best == "" {
		return changetype.Chore, changetype.Low
	}
	return best, conf[best]
}

// containers are top-level directories that hold unrelated features, so
// the feature root sits one level deeper.
var containers = map[string]bool{
	"src": true, "lib": true, "app": true, "apps": true,
	"packages": true, "modules": true, "source": true,
}

// root returns the feature directory p belongs to: its first path segment,
// or the first two below a container. Files at the repository root share
// the root "".
func root(p string) string {
	segs := strings.Split(p, "/")
	switch {
	case len(segs) == 1:
		return ""
	case containers[segs[0]] && len(segs) > 2:
		return segs[0] + "/" + segs[1]
	default:
		return segs[0]
	}
}

// splitByBoundary keeps files of different known areas apart, and files
// without an area apart by feature root. The two never mix.
func splitByBoundary(cs []classify.Classification) [][]classify.Classification {
	var order []string
	byKey := make(map[string][]classify.Classification)
	for _, c := range cs {
		key := "area:" + c.Area
		if c.Area == "" {
			key = "root:" + root(c.File.Path())
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], c)
	}

	out := make([][]classify.Classification, 0, len(order))
	for _, k := range order {
		files := byKey[k]
		sortByIndex(files)
		out = append(out, files)
	}
	return out
}

// unit is a file or a directory sub-tree that moves between bins as a whole.
type unit struct {
	key   string
	dir   bool
	files []classify.Classification
	delta int
}

// splitBySize packs files into bins of at most threshold changed lines
// without cutting through a directory unless that directory alone is too
// large. A single file above the threshold gets a bin of its own.
func (p *Partitioner) splitBySize(cs []classify.Classification) [][]classify.Classification {
	if p.threshold <= 0 || delta(cs) <= p.threshold || len(cs) == 1 {
		return [][]classify.Classification{cs}
	}

	units := unitsBelow(commonDir(cs), cs)
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].delta != units[j].delta {
			return units[i].delta > units[j].delta
		}
		return units[i].key < units[j].key
	})

	var packed, closed [][]classify.Classification
	var load []int
	for _, u := range units {
		if u.delta > p.threshold {
			if u.dir && len(u.files) > 1 {
				closed = append(closed, p.splitBySize(u.files)...)
			} else {
				closed = append(closed, u.files)
			}
			continue
		}
		placed := false
		for i := range packed {
			if load[i]+u.delta <= p.threshold {
				packed[i] = append(packed[i], u.files...)
				load[i] += u.delta
				placed = true
				break
			}
		}
		if !placed {
			packed = append(packed, append([]classify.Classification(nil), u.files...))
			load = append(load, u.delta)
		}
	}
	return append(closed, packed...)
}

// unitsBelow splits cs into the files directly inside dir and the sub-trees
// one level below it.
func unitsBelow(dir string, cs []classify.Classification) []*unit {
	var units []*unit
	byKey := make(map[string]*unit)
	for _, c := range cs {
		rel := c.File.Path()
		if dir != "" {
			rel = strings.TrimPrefix(rel, dir+"/")
		}
		key, isDir := rel, false
		if i := strings.IndexByte(rel, '/'); i >= 0 {
			key, isDir = rel[:i], true
		}
		u, ok := byKey[key]
		if !ok {
			u = &unit{key: key, dir: isDir}
			byKey[key] = u
			units = append(units, u)
		}
		u.files = append(u.files, c)
		u.delta += c.File.Delta()
	}
	return units
}

// commonDir returns the deepest directory containing every file, "" for the
// repository root.
func commonDir(cs []classify.Classification) string {
	var common []string
	for i, c := range cs {
		dir := path.Dir(c.File.Path())
		var segs []string
		if dir != "." {
			segs = strings.Split(dir, "/")
		}
		if i == 0 {
			common = segs
			continue
		}
		n := 0
		for n < len(common) && n < len(segs) && common[n] == segs[n] {
			n++
		}
		common = common[:n]
	}
	return strings.Join(common, "/")
}

func delta(cs []classify.Classification) int {
	n := 0
	for _, c := range cs {
		n += c.File.Delta()
	}
	return n
}

func sortByIndex(cs []classify.Classification) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].File.Index() < cs[j].File.Index() })
}
