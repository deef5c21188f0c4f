package similarity_test

import (
	"testing"

	"github.com/gnames/gnspecies/pkg/similarity"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		res  int
	}{
		{"", "", 0},
		{"leo", "", 3},
		{"kitten", "sitting", 3},
		{"panthera leo", "panthera leo", 0},
		{"panthera", "pantera", 1},
		{"żółw", "zółw", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.res, similarity.Distance(tt.a, tt.b), tt.a+"/"+tt.b)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		msg  string
		a, b string
		res  float64
	}{
		{"both empty", "", "", 0},
		{"one empty", "lion", "", 0},
		{"equal", "lion", "lion", 1},
		{"one edit of four", "lion", "lyon", 0.75},
		{"nothing in common", "abc", "xyz", 0},
		{"different length", "leo", "panthera leo", 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			res := similarity.Similarity(tt.a, tt.b)
			assert.InDelta(t, tt.res, res, 1e-9)
			assert.GreaterOrEqual(t, res, 0.0)
			assert.LessOrEqual(t, res, 1.0)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"panthera leo", "panthera pardus"},
		{"red fox", "arctic fox"},
		{"quercus", "q"},
	}
	for _, p := range pairs {
		assert.Equal(t,
			similarity.Similarity(p[0], p[1]),
			similarity.Similarity(p[1], p[0]),
		)
	}
}
