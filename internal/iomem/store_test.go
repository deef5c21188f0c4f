package iomem_test

import (
	"context"
	"testing"
	"time"

	"github.com/gnames/gnspecies/internal/iomem"
	"github.com/gnames/gnspecies/internal/iotesting"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ taxon.Store = &iomem.Store{}

func TestStore(t *testing.T) {
	iotesting.RunStoreTests(t, func(t *testing.T) taxon.Store {
		return iomem.New(config.CacheConfig{})
	})
}

func TestNodeIDsPerRank(t *testing.T) {
	ctx := context.Background()
	s := iomem.New(config.CacheConfig{})

	k, err := s.GetOrCreate(ctx, taxon.Kingdom, "Animalia", 0)
	require.NoError(t, err)
	p, err := s.GetOrCreate(ctx, taxon.Phylum, "Chordata", k)
	require.NoError(t, err)
	assert.Equal(t, 1, k)
	assert.Equal(t, 1, p, "every rank has its own IDs")

	k2, err := s.GetOrCreate(ctx, taxon.Kingdom, "animalia", 42)
	require.NoError(t, err)
	assert.Equal(t, k, k2, "kingdoms have no parents")
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	s := iomem.New(config.CacheConfig{QueryTTL: 1, ImageTTL: 1})

	err := s.Append(ctx, taxon.CacheEntry{
		Query: "lion", SpeciesID: 1, Score: 200, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	entries, err := s.Lookup(ctx, "lion")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
