package search

import (
	"strings"
	"unicode"
)

// Tokenize splits text into word tokens in order of appearance.
// A token is a maximal run of letters, numbers, underscores and apostrophes,
// so contractions like "don't" stay whole. Case is preserved.
func Tokenize(text string) []string {
	f := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c) && c != '_' && c != '\''
	}
	return strings.FieldsFunc(text, f)
}
