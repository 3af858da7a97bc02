package search

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultExactMatchWeight is the multiplier for equal tokens relative to substring matches.
	DefaultExactMatchWeight = 2
	// DefaultNameMatchWeight is the weight of name matches relative to description matches.
	DefaultNameMatchWeight = 5

	// Tokens shorter than this are treated as noise on both sides.
	minTokenLength = 2
)

// WordScorer computes lexical overlap between two word lists
type WordScorer struct {
	ExactMatchWeight int
}

// NewWordScorer returns a scorer using DefaultExactMatchWeight
func NewWordScorer() WordScorer {
	return WordScorer{ExactMatchWeight: DefaultExactMatchWeight}
}

// Score sums match contributions over every pair of retained query and field
// tokens. An exact (case-insensitive) match adds ExactMatchWeight*weight, a
// substring match in either direction adds weight. A query token matching
// several field tokens is counted once per match.
func (s WordScorer) Score(queryWords, fieldWords []string, weight int) int {
	query := normalize(queryWords)
	if len(query) == 0 {
		return 0
	}
	field := normalize(fieldWords)

	score := 0
	for _, q := range query {
		for _, f := range field {
			switch {
			case q == f:
				score += s.ExactMatchWeight * weight
			case strings.Contains(q, f) || strings.Contains(f, q):
				score += weight
			}
		}
	}
	return score
}

// normalize drops short tokens and lowercases the rest.
// Length is measured before lowercasing.
func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < minTokenLength {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}
