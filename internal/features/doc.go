// Package features turns a staged file into classification signals: path
// glob matches, content keywords, size and shape, detected language,
// dependency version changes and concern area. Extraction is pure and
// deterministic for a given rule set.
package features
