package iodb

import (
	"context"
	"strings"
	"time"

	"github.com/gnames/gnspecies/pkg/schema"
	"github.com/gnames/gnspecies/pkg/taxon"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lookup returns entries of a query. With query TTL set, a query expires
// as a whole when its oldest entry gets too old.
func (s *Store) Lookup(
	ctx context.Context,
	query string,
) ([]taxon.CacheEntry, error) {
	var rows []schema.SearchCacheEntry
	err := s.db.WithContext(ctx).
		Where("query_key = ?", taxon.NameKey(query)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, ReadError("query cache", err)
	}
	if len(rows) == 0 || s.expired(rows[0].CreatedAt, s.queryTTL) {
		return nil, nil
	}

	res := make([]taxon.CacheEntry, len(rows))
	for i, v := range rows {
		res[i] = taxon.CacheEntry{
			Query:     v.QueryText,
			SpeciesID: v.SpeciesID,
			Score:     v.Score,
			CreatedAt: v.CreatedAt,
		}
	}
	return res, nil
}

func (s *Store) Append(ctx context.Context, entry taxon.CacheEntry) error {
	key := taxon.NameKey(entry.Query)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.queryTTL > 0 {
			if err := s.dropExpired(tx, key); err != nil {
				return err
			}
		}
		row := schema.SearchCacheEntry{
			QueryText: strings.TrimSpace(entry.Query),
			QueryKey:  key,
			SpeciesID: entry.SpeciesID,
			Score:     entry.Score,
			CreatedAt: entry.CreatedAt.UTC(),
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	})
	if err != nil {
		return WriteError("query cache", err)
	}
	return nil
}

func (s *Store) dropExpired(tx *gorm.DB, key string) error {
	var first schema.SearchCacheEntry
	ok, err := found(tx.Where("query_key = ?", key).Order("id").Take(&first).Error)
	if err != nil || !ok || !s.expired(first.CreatedAt, s.queryTTL) {
		return err
	}
	return tx.Where("query_key = ?", key).
		Delete(&schema.SearchCacheEntry{}).Error
}

func (s *Store) expired(t time.Time, ttl time.Duration) bool {
	return ttl > 0 && time.Since(t) > ttl
}

func (s *Store) GetImage(
	ctx context.Context,
	scientificName string,
) (taxon.Image, bool, error) {
	var row schema.SpeciesImage
	err := s.db.WithContext(ctx).
		Where("name_key = ?", taxon.NameKey(scientificName)).
		Take(&row).Error
	ok, err := found(err)
	if err != nil {
		return taxon.Image{}, false, ReadError("image cache", err)
	}
	if !ok || s.expired(row.CachedAt, s.imageTTL) {
		return taxon.Image{}, false, nil
	}
	return taxon.Image{
		ScientificName: row.ScientificName,
		URL:            row.URL,
		CachedAt:       row.CachedAt,
	}, true, nil
}

func (s *Store) SetImage(ctx context.Context, img taxon.Image) error {
	if img.CachedAt.IsZero() {
		img.CachedAt = time.Now()
	}
	row := schema.SpeciesImage{
		NameKey:        taxon.NameKey(img.ScientificName),
		ScientificName: strings.TrimSpace(img.ScientificName),
		URL:            img.URL,
		CachedAt:       img.CachedAt.UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name_key"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"scientific_name", "url", "cached_at"},
		),
	}).Create(&row).Error
	if err != nil {
		return WriteError("image cache", err)
	}
	return nil
}
