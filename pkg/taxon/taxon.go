// Package taxon defines data types of the species search engine and the
// contracts of its stores and upstream providers.
package taxon

import (
	"fmt"
	"strings"
	"time"

	"github.com/gnames/gnuuid"
)

// UnknownName replaces blank names of hierarchy nodes.
const UnknownName = "Unknown"

// CommonNameSource is the source label of common names coming from
// the taxonomy provider.
const CommonNameSource = "GBIF"

// Rank is a level of taxonomic hierarchy stored as a separate node.
type Rank int

const (
	Kingdom Rank = iota
	Phylum
	Class
	Order
	Family
	Genus
)

// RanksNum is the number of hierarchy ranks.
const RanksNum = int(Genus) + 1

// Ranks lists hierarchy ranks from the top down.
var Ranks = []Rank{Kingdom, Phylum, Class, Order, Family, Genus}

var rankNames = []string{"kingdom", "phylum", "class", "order", "family", "genus"}

func (r Rank) String() string {
	if r < Kingdom || r > Genus {
		return "unknown"
	}
	return rankNames[r]
}

// NodeName normalizes a name of a hierarchy node. Blank names become
// UnknownName.
func NodeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownName
	}
	return s
}

// NameKey is the case-insensitive identity of names and queries.
func NameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Node is a kingdom, phylum, class, order, family or genus.
type Node struct {
	ID       int
	Rank     Rank
	Name     string
	ParentID int
}

// Species is a record of a species with a canonical "Genus species" name.
type Species struct {
	ID             int
	ScientificName string
	// Kingdom is the kingdom name as the provider reported it, it is
	// used for filtering.
	Kingdom    string
	GenusID    int
	UsageKey   int
	Authorship string
	Link       string
}

// CommonName is a vernacular name of a species.
type CommonName struct {
	ID        string
	SpeciesID int
	Name      string
	Source    string
	Language  string
	Preferred bool
}

// CommonNameID generates a stable ID of a species' common name.
func CommonNameID(speciesID int, name string) string {
	return gnuuid.New(fmt.Sprintf("%d|%s", speciesID, NameKey(name))).String()
}

// CommonNames converts provider's vernaculars of a species into common
// names.
func CommonNames(speciesID int, vv []Vernacular) []CommonName {
	res := make([]CommonName, 0, len(vv))
	for _, v := range vv {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			continue
		}
		res = append(res, CommonName{
			ID:        CommonNameID(speciesID, name),
			SpeciesID: speciesID,
			Name:      name,
			Source:    CommonNameSource,
			Language:  v.Language,
			Preferred: v.Preferred,
		})
	}
	return res
}

// Vernacular is a common name as it comes from the provider.
type Vernacular struct {
	Name      string
	Language  string
	Preferred bool
}

// RawTaxon is a record from the taxonomy provider before normalization.
type RawTaxon struct {
	Key            int
	ScientificName string
	CanonicalName  string
	Authorship     string
	// Link is a page of the taxon at the provider's website.
	Link        string
	Kingdom     string
	Phylum      string
	Class       string
	Order       string
	Family      string
	Genus       string
	Species     string
	Vernaculars []Vernacular
}

// Record is a merged taxon ready to be saved in the hierarchy store.
type Record struct {
	// ScientificName is the normalized "Genus species" name.
	ScientificName string
	// Verbatim is the provider's scientific name with authorship.
	Verbatim string
	Key      int
	// Ranks keeps names of kingdom..genus in the order of Ranks.
	Ranks      [RanksNum]string
	Authorship string
	// Link is a page of the species at the provider's website.
	Link        string
	Vernaculars []Vernacular
}

// Rank returns the record's name for a rank.
func (r Record) Rank(rank Rank) string {
	return r.Ranks[rank]
}

// Tree is a species together with its ancestors and common names.
// Missing ancestors have empty names.
type Tree struct {
	SpeciesID   int      `json:"speciesId"`
	Kingdom     string   `json:"kingdom,omitempty"`
	Phylum      string   `json:"phylum,omitempty"`
	Class       string   `json:"class,omitempty"`
	Order       string   `json:"order,omitempty"`
	Family      string   `json:"family,omitempty"`
	Genus       string   `json:"genus,omitempty"`
	Species     string   `json:"species"`
	CommonNames []string `json:"commonNames"`
}

// SetRank assigns a name to the rank field of the tree.
func (t *Tree) SetRank(rank Rank, name string) {
	switch rank {
	case Kingdom:
		t.Kingdom = name
	case Phylum:
		t.Phylum = name
	case Class:
		t.Class = name
	case Order:
		t.Order = name
	case Family:
		t.Family = name
	case Genus:
		t.Genus = name
	}
}

// CacheEntry connects a query with a matched species and its score.
type CacheEntry struct {
	Query     string
	SpeciesID int
	Score     float64
	CreatedAt time.Time
}

// Image is a cached outcome of an image lookup. Nil URL means the
// provider has no image for the name.
type Image struct {
	ScientificName string
	URL            *string
	CachedAt       time.Time
}

// Result is a species returned by a search.
type Result struct {
	ScientificName string   `json:"scientificName"`
	Kingdom        string   `json:"kingdom"`
	Authorship     string   `json:"authorship,omitempty"`
	Link           string   `json:"link,omitempty"`
	CommonNames    []string `json:"commonNames"`
	ImageURL       *string  `json:"imageUrl"`
	Score          float64  `json:"score"`
	Classification Tree     `json:"classification"`
}
