package rules

// Table is the tunable rule table that drives feature extraction.
type Table struct {
	Version    int           `yaml:"version" json:"version"`
	Thresholds Thresholds    `yaml:"thresholds" json:"thresholds"`
	Paths      []PathRule    `yaml:"paths,omitempty" json:"paths,omitempty"`
	Keywords   []KeywordRule `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Ignore     []string      `yaml:"ignore,omitempty" json:"ignore,omitempty"`
	Areas      []AreaRule    `yaml:"areas,omitempty" json:"areas,omitempty"`
}

// Thresholds bucket a file's line delta. Large is also the partition cap.
type Thresholds struct {
	Small int `yaml:"small,omitempty" json:"small,omitempty"`
	Large int `yaml:"large,omitempty" json:"large,omitempty"`
}

// PathRule maps a glob pattern to a change type.
type PathRule struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Type    string `yaml:"type" json:"type"`
}

// KeywordRule maps hunk words (or multi-word phrases) to a change type.
type KeywordRule struct {
	Type  string   `yaml:"type" json:"type"`
	Words []string `yaml:"words" json:"words"`
}

// AreaRule names a top-level concern area, such as ui or backend. Files in
// different known areas are never committed together.
type AreaRule struct {
	Name     string   `yaml:"name" json:"name"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}
