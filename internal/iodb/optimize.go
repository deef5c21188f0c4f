package iodb

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gnspecies/pkg/schema"
)

// PurgeStats tells how many cache rows were removed.
type PurgeStats struct {
	QueryEntries int64
	Images       int64
}

// PurgeExpired removes expired query buckets and images. Lookup ignores
// them anyway, purging only gives the space back. Without TTL nothing
// expires.
func (s *Store) PurgeExpired(ctx context.Context) (PurgeStats, error) {
	var res PurgeStats
	db := s.db.WithContext(ctx)

	if s.queryTTL > 0 {
		cutoff := time.Now().Add(-s.queryTTL).UTC()
		// a bucket expires with its oldest entry
		oldest := db.Model(&schema.SearchCacheEntry{}).
			Select("query_key").
			Where("id IN (?)", db.Model(&schema.SearchCacheEntry{}).
				Select("MIN(id)").Group("query_key")).
			Where("created_at < ?", cutoff)
		q := db.Where("query_key IN (?)", oldest).
			Delete(&schema.SearchCacheEntry{})
		if q.Error != nil {
			return res, OptimizeError("purge query cache", q.Error)
		}
		res.QueryEntries = q.RowsAffected
	}

	if s.imageTTL > 0 {
		cutoff := time.Now().Add(-s.imageTTL).UTC()
		q := db.Where("cached_at < ?", cutoff).Delete(&schema.SpeciesImage{})
		if q.Error != nil {
			return res, OptimizeError("purge image cache", q.Error)
		}
		res.Images = q.RowsAffected
	}

	slog.Info("Expired cache purged",
		"query_entries", res.QueryEntries, "images", res.Images)
	return res, nil
}

// Vacuum reclaims storage and updates planner statistics. It cannot run
// inside a transaction.
func (s *Store) Vacuum(ctx context.Context) error {
	stmt := "VACUUM"
	if s.db.Dialector.Name() == "postgres" {
		stmt = "VACUUM ANALYZE"
	}

	start := time.Now()
	if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return OptimizeError("vacuum database", err)
	}
	slog.Info("Vacuum completed", "statement", stmt,
		"duration", time.Since(start).String())
	return nil
}
