// Package changetype holds the static change-type vocabulary: the glyph and
// conventional type code written into commit headers, the hard concern a type
// implies, its commit-ordering risk, and the fixed tie-break priority order.
package changetype
