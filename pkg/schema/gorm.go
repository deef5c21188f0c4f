package schema

import (
	"fmt"

	"github.com/gnames/gnspecies/pkg/taxon"
	"gorm.io/gorm"
)

// AllModels returns models of tables with a fixed name.
func AllModels() []any {
	return []any{
		&Species{},
		&CommonName{},
		&SearchCacheEntry{},
		&SpeciesImage{},
	}
}

// Tables returns names of all gnspecies tables.
func Tables() []string {
	res := make([]string, 0, len(taxon.Ranks)+4)
	for _, r := range taxon.Ranks {
		res = append(res, NodeTable(r))
	}
	return append(res, "species", "common_names", "search_cache", "species_images")
}

// Migrate runs GORM AutoMigrate to create or update schema. Hierarchy
// tables share the Node model and get their unique indexes by name.
func Migrate(db *gorm.DB) error {
	for _, r := range taxon.Ranks {
		table := NodeTable(r)
		if err := db.Table(table).AutoMigrate(&Node{}); err != nil {
			return err
		}
		q := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_name_parent "+
				"ON %s (name_key, parent_id)",
			table, table,
		)
		if err := db.Exec(q).Error; err != nil {
			return err
		}
	}
	return db.AutoMigrate(AllModels()...)
}
