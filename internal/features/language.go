package features

import (
	"path"

	"github.com/src-d/enry/v2"
)

// programming lists the enry language names treated as application code.
// Data, markup and prose languages are not listed.
var programming = map[string]bool{
	"C": true, "C#": true, "C++": true, "Clojure": true, "CoffeeScript": true,
	"Dart": true, "Elixir": true, "Elm": true, "Erlang": true, "F#": true,
	"Go": true, "Groovy": true, "Haskell": true, "Java": true, "JavaScript": true,
	"Julia": true, "Kotlin": true, "Lua": true, "Nim": true, "OCaml": true,
	"Objective-C": true, "PHP": true, "Perl": true, "Python": true, "R": true,
	"Ruby": true, "Rust": true, "Scala": true, "Swift": true, "TSX": true,
	"TypeScript": true, "Vue": true, "Svelte": true, "Zig": true,
}

// DetectLanguage returns the enry language of a file, using its changed
// text to break extension ties.
func DetectLanguage(p string, content []byte) string {
	return enry.GetLanguage(path.Base(p), content)
}

// IsProgramming reports whether lang is a programming language.
func IsProgramming(lang string) bool {
	return programming[lang]
}

// IsVendored reports whether p lives in vendored third-party code.
func IsVendored(p string) bool {
	return enry.IsVendor(p)
}

// IsDocumentation reports whether p is documentation by enry's heuristics.
func IsDocumentation(p string) bool {
	return enry.IsDocumentation(p)
}
