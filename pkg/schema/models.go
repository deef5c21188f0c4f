// Package schema provides database models of the durable gnspecies store.
package schema

import (
	"time"

	"github.com/gnames/gnspecies/pkg/taxon"
)

// Node is a row of any hierarchy table. Tables differ only by name,
// see NodeTable.
type Node struct {
	ID int `gorm:"primaryKey;autoIncrement"`

	// Name as it was first seen.
	Name string `gorm:"type:varchar(255);not null"`

	// NameKey is lowercased name, unique together with ParentID.
	NameKey string `gorm:"type:varchar(255);not null"`

	// ParentID is the ID of the node one rank up, 0 for kingdoms.
	ParentID int `gorm:"not null;default:0"`
}

var nodeTables = map[taxon.Rank]string{
	taxon.Kingdom: "kingdoms",
	taxon.Phylum:  "phyla",
	taxon.Class:   "classes",
	taxon.Order:   "orders",
	taxon.Family:  "families",
	taxon.Genus:   "genera",
}

// NodeTable returns the table name for a rank.
func NodeTable(rank taxon.Rank) string {
	return nodeTables[rank]
}

// Species is a species with its canonical "Genus species" name.
type Species struct {
	ID             int    `gorm:"primaryKey;autoIncrement"`
	ScientificName string `gorm:"type:varchar(255);not null"`
	NameKey        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Kingdom        string `gorm:"type:varchar(255);index"`
	GenusID        int    `gorm:"not null;default:0"`
	UsageKey       int    `gorm:"not null;default:0"`
	Authorship     string `gorm:"type:varchar(255)"`
	Link           string `gorm:"type:varchar(255)"`
}

// TableName overrides the plural form gorm would pick.
func (Species) TableName() string {
	return "species"
}

// CommonName is a vernacular name of a species.
type CommonName struct {
	// ID is UUID v5 of species ID and lowercased name.
	ID        string `gorm:"type:varchar(36);primaryKey"`
	SpeciesID int    `gorm:"not null;uniqueIndex:idx_common_names_species_name"`
	Name      string `gorm:"type:varchar(255);not null"`
	NameKey   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_common_names_species_name"`
	Source    string `gorm:"type:varchar(50)"`
	Language  string `gorm:"type:varchar(20)"`
	Preferred bool

	// Seq keeps insertion order.
	Seq int `gorm:"not null;default:0"`
}

// SearchCacheEntry connects a query with a matched species.
type SearchCacheEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	QueryText string    `gorm:"type:varchar(255);not null"`
	QueryKey  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_search_cache_query_species"`
	SpeciesID int       `gorm:"not null;uniqueIndex:idx_search_cache_query_species"`
	Score     float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName sets the search cache table name.
func (SearchCacheEntry) TableName() string {
	return "search_cache"
}

// SpeciesImage is a cached image lookup. Nil URL means no image exists.
type SpeciesImage struct {
	NameKey        string    `gorm:"type:varchar(255);primaryKey"`
	ScientificName string    `gorm:"type:varchar(255);not null"`
	URL            *string   `gorm:"type:text"`
	CachedAt       time.Time `gorm:"not null"`
}
