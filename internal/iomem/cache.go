package iomem

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/patrickmn/go-cache"
)

func (s *Store) Lookup(
	_ context.Context,
	query string,
) ([]taxon.CacheEntry, error) {
	v, ok := s.queries.Get(taxon.NameKey(query))
	if !ok {
		return nil, nil
	}
	return slices.Clone(v.([]taxon.CacheEntry)), nil
}

func (s *Store) Append(_ context.Context, entry taxon.CacheEntry) error {
	key := taxon.NameKey(entry.Query)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.Query = strings.TrimSpace(entry.Query)

	s.mu.Lock()
	defer s.mu.Unlock()

	v, exp, ok := s.queries.GetWithExpiration(key)
	ttl, alive := remaining(exp, time.Now())
	if !ok || !alive {
		s.queries.Set(key, []taxon.CacheEntry{entry}, cache.DefaultExpiration)
		return nil
	}

	entries := v.([]taxon.CacheEntry)
	if slices.ContainsFunc(entries, func(e taxon.CacheEntry) bool {
		return e.SpeciesID == entry.SpeciesID
	}) {
		return nil
	}
	entries = append(slices.Clone(entries), entry)

	// bucket keeps the expiration time it got with the first entry
	s.queries.Set(key, entries, ttl)
	return nil
}

// remaining returns the time a bucket has left. A zero expiration
// means the bucket never expires. go-cache treats zero and negative
// durations as "default" and "forever", so a bucket that ran out of
// time is reported as not alive.
func remaining(exp, now time.Time) (time.Duration, bool) {
	if exp.IsZero() {
		return cache.NoExpiration, true
	}
	ttl := exp.Sub(now)
	return ttl, ttl > 0
}

func (s *Store) GetImage(
	_ context.Context,
	scientificName string,
) (taxon.Image, bool, error) {
	v, ok := s.images.Get(taxon.NameKey(scientificName))
	if !ok {
		return taxon.Image{}, false, nil
	}
	return v.(taxon.Image), true, nil
}

func (s *Store) SetImage(_ context.Context, img taxon.Image) error {
	if img.CachedAt.IsZero() {
		img.CachedAt = time.Now()
	}
	s.images.Set(taxon.NameKey(img.ScientificName), img, cache.DefaultExpiration)
	return nil
}
