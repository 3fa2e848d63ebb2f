// Package rules holds the tunable tables behind classification: path globs,
// content keywords, size thresholds and concern areas. The default table is
// embedded; a custom YAML table is validated against an embedded JSON Schema
// and merged over it section by section.
package rules
