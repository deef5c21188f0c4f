// Package search defines the species search contract and the final
// processing of results shared by cached and fresh searches.
package search

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/gnames/gnspecies/pkg/taxon"
)

// Searcher finds species by a scientific or common name.
type Searcher interface {
	// Search returns species relevant to the query. Kingdom limits
	// results to one kingdom, empty value or taxon.AllKingdoms disable
	// the limit. Empty query is an error, all other failures produce an
	// empty result.
	Search(ctx context.Context, query, kingdom string) ([]taxon.Result, error)
}

// Filter keeps results with a score of at least minScore that belong to
// the kingdom.
func Filter(results []taxon.Result, minScore float64, kingdom string) []taxon.Result {
	res := make([]taxon.Result, 0, len(results))
	for _, v := range results {
		if v.Score < minScore || !taxon.MatchKingdom(v.Kingdom, kingdom) {
			continue
		}
		res = append(res, v)
	}
	return res
}

// Sort orders results by descending score, then by kingdom priority if
// it is enabled, then by scientific name.
func Sort(results []taxon.Result, kingdomPriority bool) {
	slices.SortStableFunc(results, func(a, b taxon.Result) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if kingdomPriority {
			c := cmp.Compare(
				taxon.KingdomPriority(a.Kingdom),
				taxon.KingdomPriority(b.Kingdom),
			)
			if c != 0 {
				return c
			}
		}
		return strings.Compare(a.ScientificName, b.ScientificName)
	})
}
