// Package relevance scores how well a species matches a search query.
//
// The score is a sum of independent signals: exact, prefix and substring
// matches of the whole query, matches of separate query words, and
// edit-distance similarity. Several signals can fire for one candidate.
package relevance

import (
	"strings"

	"github.com/gnames/gnspecies/pkg/similarity"
)

// Weights of scoring signals.
const (
	ExactScientific     = 1000.0
	ExactCommon         = 900.0
	PrefixScientific    = 500.0
	PrefixCommon        = 450.0
	SubstringScientific = 300.0
	SubstringCommon     = 250.0

	WordExactScientific     = 200.0
	WordPrefixScientific    = 100.0
	WordSubstringScientific = 50.0

	WordExactCommon     = 150.0
	WordPrefixCommon    = 75.0
	WordSubstringCommon = 35.0

	SimilarityScientific = 100.0
	SimilarityCommon     = 80.0
)

// DefaultMinScore is the default threshold of relevant results.
const DefaultMinScore = 100.0

// Candidate is a species as it is seen by the scorer.
type Candidate struct {
	ScientificName string
	CommonNames    []string
}

// NormalizeQuery lowercases and trims a query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Score computes relevance of a candidate for a query. The query is
// normalized by the function, empty query scores 0.
func Score(c Candidate, query string) float64 {
	q := NormalizeQuery(query)
	if q == "" {
		return 0
	}

	sci := strings.ToLower(c.ScientificName)
	commons := make([]string, 0, len(c.CommonNames))
	for _, v := range c.CommonNames {
		commons = append(commons, strings.ToLower(v))
	}
	qWords := strings.Fields(q)

	var res float64

	if sci == q {
		res += ExactScientific
	}
	if anyName(commons, func(s string) bool { return s == q }) {
		res += ExactCommon
	}
	if strings.HasPrefix(sci, q) {
		res += PrefixScientific
	}
	if anyName(commons, func(s string) bool { return strings.HasPrefix(s, q) }) {
		res += PrefixCommon
	}
	if strings.Contains(sci, q) {
		res += SubstringScientific
	}
	if anyName(commons, func(s string) bool { return strings.Contains(s, q) }) {
		res += SubstringCommon
	}

	res += wordsScore(strings.Fields(sci), qWords,
		WordExactScientific, WordPrefixScientific, WordSubstringScientific)
	for _, v := range commons {
		res += wordsScore(strings.Fields(v), qWords,
			WordExactCommon, WordPrefixCommon, WordSubstringCommon)
	}

	res += similarity.Similarity(sci, q) * SimilarityScientific
	for _, v := range commons {
		res += similarity.Similarity(v, q) * SimilarityCommon
	}

	return res
}

// wordsScore gives every query word the best of exact, prefix or
// substring weight it achieves against the words of a name.
func wordsScore(
	words, qWords []string,
	exact, prefix, substring float64,
) float64 {
	var res float64
	for _, qw := range qWords {
		switch {
		case anyName(words, func(w string) bool { return w == qw }):
			res += exact
		case anyName(words, func(w string) bool { return strings.HasPrefix(w, qw) }):
			res += prefix
		case anyName(words, func(w string) bool { return strings.Contains(w, qw) }):
			res += substring
		}
	}
	return res
}

func anyName(names []string, fn func(string) bool) bool {
	for _, v := range names {
		if fn(v) {
			return true
		}
	}
	return false
}
