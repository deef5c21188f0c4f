// Package similarity converts edit distance between strings into a
// normalized similarity score.
package similarity

import (
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Distance returns Levenshtein edit distance between two strings,
// counted in runes.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// Similarity returns 1 - distance/maxLen. The result is in [0, 1].
// Identical strings give 1, if any of the strings is empty the result is 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1 - float64(Distance(a, b))/float64(maxLen)
}
