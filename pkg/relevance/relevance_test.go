package relevance_test

import (
	"testing"

	"github.com/gnames/gnspecies/pkg/relevance"
	"github.com/gnames/gnspecies/pkg/similarity"
	"github.com/stretchr/testify/assert"
)

func TestScoreExactScientific(t *testing.T) {
	c := relevance.Candidate{ScientificName: "Panthera leo"}
	// exact 1000 + prefix 500 + substring 300 + two words 2*200 +
	// similarity 100
	assert.InDelta(t, 2300.0, relevance.Score(c, "panthera leo"), 1e-9)
	assert.InDelta(t, 2300.0, relevance.Score(c, "  PANTHERA LEO "), 1e-9)
}

func TestScoreCommonName(t *testing.T) {
	c := relevance.Candidate{
		ScientificName: "Panthera leo",
		CommonNames:    []string{"Lion", "African Lion"},
	}
	q := "lion"

	// common: exact 900, prefix 450, substring 250
	// word level: "lion" exact 150, "african lion" exact 150
	// scientific name gets only the similarity bonus
	want := 900.0 + 450 + 250 + 150 + 150 +
		similarity.Similarity("lion", q)*80 +
		similarity.Similarity("african lion", q)*80 +
		similarity.Similarity("panthera leo", q)*100
	assert.InDelta(t, want, relevance.Score(c, q), 1e-9)
}

func TestScoreWordLevel(t *testing.T) {
	c := relevance.Candidate{ScientificName: "Vulpes vulpes"}

	tests := []struct {
		msg   string
		query string
		min   float64
	}{
		{"word exact", "vulpes", 200},
		{"word prefix", "vulp", 100},
		{"word substring", "ulpe", 50},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.GreaterOrEqual(t, relevance.Score(c, tt.query), tt.min)
		})
	}
}

func TestScoreWordsAreExclusive(t *testing.T) {
	// only the exact word weight counts for "leo"
	c := relevance.Candidate{ScientificName: "Aaa leo"}
	sim := (1 - 4.0/7) * 100
	// substring 300, word exact 200
	assert.InDelta(t, 300+200+sim, relevance.Score(c, "leo"), 1e-9)
}

func TestScoreEmptyQuery(t *testing.T) {
	c := relevance.Candidate{ScientificName: "Panthera leo"}
	assert.Zero(t, relevance.Score(c, ""))
	assert.Zero(t, relevance.Score(c, "   "))
}

func TestScoreNonNegative(t *testing.T) {
	candidates := []relevance.Candidate{
		{},
		{ScientificName: "Quercus robur", CommonNames: []string{"oak", ""}},
		{ScientificName: "Homo sapiens", CommonNames: []string{"human"}},
	}
	queries := []string{"", "x", "xyzzynotaspecies", "oak", "homo sap"}
	for _, c := range candidates {
		for _, q := range queries {
			assert.GreaterOrEqual(t, relevance.Score(c, q), 0.0)
		}
	}
}

func TestScoreExactDominates(t *testing.T) {
	names := []string{"Lion", "Big cat"}
	exact := relevance.Candidate{ScientificName: "Panthera leo", CommonNames: names}
	others := []relevance.Candidate{
		{ScientificName: "Panthera leonina", CommonNames: names},
		{ScientificName: "Panthera pardus", CommonNames: names},
		{ScientificName: "Panthera le", CommonNames: names},
	}
	exactScore := relevance.Score(exact, "panthera leo")
	for _, c := range others {
		assert.Greater(t, exactScore, relevance.Score(c, "panthera leo"),
			c.ScientificName)
	}
}

func TestScoreDeterministic(t *testing.T) {
	c := relevance.Candidate{
		ScientificName: "Ursus arctos",
		CommonNames:    []string{"Brown bear", "Grizzly"},
	}
	first := relevance.Score(c, "bear")
	for range 10 {
		assert.Equal(t, first, relevance.Score(c, "bear"))
	}
}
