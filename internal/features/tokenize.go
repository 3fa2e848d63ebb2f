package features

import (
	"strings"
	"unicode"
)

// Tokenize splits s into lower-case words. Anything that is not a letter or
// digit separates words, and camelCase or PascalCase words are split at
// their case boundaries ("parseHTTPRequest" gives parse, http, request).
func Tokenize(s string) []string {
	var out []string
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		out = append(out, splitCamel(field)...)
	}
	return out
}

func splitCamel(word string) []string {
	runes := []rune(word)
	var out []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := unicode.IsLower(prev) && unicode.IsUpper(cur)
		// Acronym followed by a word: the last upper-case rune starts the word.
		if !boundary && unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			boundary = true
		}
		if boundary {
			out = append(out, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}
	return append(out, strings.ToLower(string(runes[start:])))
}
