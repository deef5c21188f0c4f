// Package normalizer reduces scientific names to "Genus species" form and
// merges duplicate records of the taxonomy provider.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/gnames/gnspecies/pkg/taxon"
)

var parensRe = regexp.MustCompile(`\([^()]*\)`)

// Normalize strips parenthetical annotations (authors, years, subgenera)
// and returns the first two words of a name. If less than two words
// remain, it returns false.
func Normalize(name string) (string, bool) {
	for {
		stripped := parensRe.ReplaceAllString(name, " ")
		if stripped == name {
			break
		}
		name = stripped
	}

	words := strings.Fields(name)
	if len(words) < 2 {
		return "", false
	}
	return words[0] + " " + words[1], true
}

// Merge groups records by their case-insensitive normalized name. Fields
// of a merged record come from the first record that has them, the key
// and the link are taken from the first record with a non-zero key.
// Records that cannot be normalized are dropped. The order of the first
// appearance is preserved.
func Merge(raws []taxon.RawTaxon) []taxon.Record {
	var res []taxon.Record
	idx := make(map[string]int)

	for _, raw := range raws {
		verbatim := strings.TrimSpace(raw.ScientificName)
		if verbatim == "" {
			verbatim = strings.TrimSpace(raw.CanonicalName)
		}
		name, ok := Normalize(verbatim)
		if !ok {
			continue
		}

		key := taxon.NameKey(name)
		i, ok := idx[key]
		if !ok {
			idx[key] = len(res)
			res = append(res, newRecord(name, verbatim, raw))
			continue
		}
		fill(&res[i], verbatim, raw)
	}
	return res
}

func newRecord(name, verbatim string, raw taxon.RawTaxon) taxon.Record {
	res := taxon.Record{
		ScientificName: name,
		Verbatim:       verbatim,
	}
	fill(&res, verbatim, raw)
	return res
}

func fill(rec *taxon.Record, verbatim string, raw taxon.RawTaxon) {
	if rec.Key == 0 && raw.Key != 0 {
		rec.Key = raw.Key
		rec.Link = strings.TrimSpace(raw.Link)
	}
	if rec.Verbatim == "" {
		rec.Verbatim = verbatim
	}
	if rec.Authorship == "" {
		rec.Authorship = strings.TrimSpace(raw.Authorship)
	}

	ranks := rawRanks(raw)
	for i := range rec.Ranks {
		if rec.Ranks[i] == "" {
			rec.Ranks[i] = strings.TrimSpace(ranks[i])
		}
	}

	rec.Vernaculars = UnionVernaculars(rec.Vernaculars, raw.Vernaculars)
}

func rawRanks(raw taxon.RawTaxon) [taxon.RanksNum]string {
	return [taxon.RanksNum]string{
		raw.Kingdom, raw.Phylum, raw.Class, raw.Order, raw.Family, raw.Genus,
	}
}

// UnionVernaculars appends names from add that are not in base yet.
// Blank names are skipped, comparison is case-insensitive.
func UnionVernaculars(base, add []taxon.Vernacular) []taxon.Vernacular {
	seen := make(map[string]struct{}, len(base))
	for _, v := range base {
		seen[taxon.NameKey(v.Name)] = struct{}{}
	}
	for _, v := range add {
		v.Name = strings.TrimSpace(v.Name)
		key := taxon.NameKey(v.Name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		base = append(base, v)
	}
	return base
}
