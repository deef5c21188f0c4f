package iotesting

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreFactory creates an empty store for one test.
type StoreFactory func(t *testing.T) taxon.Store

// RunStoreTests checks that a taxon.Store implementation follows the
// contract of hierarchy store and caches.
func RunStoreTests(t *testing.T, newStore StoreFactory) {
	t.Run("GetOrCreateIdempotent", func(t *testing.T) {
		testGetOrCreate(t, newStore(t))
	})
	t.Run("GetOrCreateConcurrent", func(t *testing.T) {
		testGetOrCreateConcurrent(t, newStore(t))
	})
	t.Run("SaveSpecies", func(t *testing.T) {
		testSaveSpecies(t, newStore(t))
	})
	t.Run("SaveSpeciesBackfill", func(t *testing.T) {
		testSaveSpeciesBackfill(t, newStore(t))
	})
	t.Run("SaveSpeciesConcurrent", func(t *testing.T) {
		testSaveSpeciesConcurrent(t, newStore(t))
	})
	t.Run("CommonNames", func(t *testing.T) {
		testCommonNames(t, newStore(t))
	})
	t.Run("BuildTree", func(t *testing.T) {
		testBuildTree(t, newStore(t))
	})
	t.Run("QueryCache", func(t *testing.T) {
		testQueryCache(t, newStore(t))
	})
	t.Run("ImageCache", func(t *testing.T) {
		testImageCache(t, newStore(t))
	})
}

func testGetOrCreate(t *testing.T, s taxon.Store) {
	ctx := context.Background()

	kID, err := s.GetOrCreate(ctx, taxon.Kingdom, "Animalia", 0)
	require.NoError(t, err)
	famID, err := s.GetOrCreate(ctx, taxon.Family, "Felidae", kID)
	require.NoError(t, err)

	id1, err := s.GetOrCreate(ctx, taxon.Genus, "Panthera", famID)
	require.NoError(t, err)
	id2, err := s.GetOrCreate(ctx, taxon.Genus, "Panthera", famID)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	id3, err := s.GetOrCreate(ctx, taxon.Genus, "PANTHERA", famID)
	require.NoError(t, err)
	assert.Equal(t, id1, id3, "names are case-insensitive")

	otherFam, err := s.GetOrCreate(ctx, taxon.Family, "Canidae", kID)
	require.NoError(t, err)
	id4, err := s.GetOrCreate(ctx, taxon.Genus, "Panthera", otherFam)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id4, "same name under other parent")

	unknown1, err := s.GetOrCreate(ctx, taxon.Genus, "", famID)
	require.NoError(t, err)
	unknown2, err := s.GetOrCreate(ctx, taxon.Genus, "  ", famID)
	require.NoError(t, err)
	unknown3, err := s.GetOrCreate(ctx, taxon.Genus, taxon.UnknownName, famID)
	require.NoError(t, err)
	assert.Equal(t, unknown1, unknown2)
	assert.Equal(t, unknown1, unknown3)
	assert.NotEqual(t, id1, unknown1)
}

func testGetOrCreateConcurrent(t *testing.T, s taxon.Store) {
	ctx := context.Background()
	kID, err := s.GetOrCreate(ctx, taxon.Kingdom, "Plantae", 0)
	require.NoError(t, err)

	const workers = 10
	ids := make([]int, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.GetOrCreate(ctx, taxon.Phylum, "Tracheophyta", kID)
			assert.NoError(t, err)
			ids[i] = id
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func testSaveSpecies(t *testing.T, s taxon.Store) {
	ctx := context.Background()

	lion, err := s.SaveSpecies(ctx, Lion())
	require.NoError(t, err)
	assert.Positive(t, lion.ID)
	assert.Equal(t, "Panthera leo", lion.ScientificName)
	assert.Equal(t, "Animalia", lion.Kingdom)
	assert.Equal(t, 5219404, lion.UsageKey)
	assert.Equal(t, "(Linnaeus, 1758)", lion.Authorship)

	again, err := s.SaveSpecies(ctx, Record("panthera LEO", 0, Felidae))
	require.NoError(t, err)
	assert.Equal(t, lion.ID, again.ID)
	assert.Equal(t, "Panthera leo", again.ScientificName)

	tiger, err := s.SaveSpecies(ctx, Tiger())
	require.NoError(t, err)
	assert.NotEqual(t, lion.ID, tiger.ID)
	assert.Equal(t, lion.GenusID, tiger.GenusID, "same genus node")

	found, ok, err := s.SpeciesByName(ctx, "PANTHERA TIGRIS")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tiger.ID, found.ID)

	byID, ok, err := s.Species(ctx, lion.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lion, byID)

	_, ok, err = s.Species(ctx, 100_000)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.SpeciesByName(ctx, "Vulpes vulpes")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testSaveSpeciesBackfill(t *testing.T, s taxon.Store) {
	ctx := context.Background()

	rec := Lion()
	rec.Key = 0
	rec.Link = ""
	sp, err := s.SaveSpecies(ctx, rec)
	require.NoError(t, err)
	assert.Zero(t, sp.UsageKey)

	sp, err = s.SaveSpecies(ctx, Lion())
	require.NoError(t, err)
	assert.Equal(t, 5219404, sp.UsageKey)
	assert.Equal(t, "https://www.gbif.org/species/5219404", sp.Link)

	other := Lion()
	other.Key = 1
	sp, err = s.SaveSpecies(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 5219404, sp.UsageKey, "existing key is kept")
}

func testSaveSpeciesConcurrent(t *testing.T, s taxon.Store) {
	ctx := context.Background()

	const workers = 8
	ids := make([]int, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := Lion()
			if i%2 == 0 {
				rec = Tiger()
			}
			sp, err := s.SaveSpecies(ctx, rec)
			assert.NoError(t, err)
			ids[i] = sp.ID
		}()
	}
	wg.Wait()

	for i := 2; i < workers; i++ {
		assert.Equal(t, ids[i%2], ids[i])
	}
	assert.NotEqual(t, ids[0], ids[1])

	tree, ok, err := s.BuildTree(ctx, ids[1])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Lion", "African Lion"}, tree.CommonNames)
}

func testCommonNames(t *testing.T, s taxon.Store) {
	ctx := context.Background()

	oak, err := s.SaveSpecies(ctx, Oak())
	require.NoError(t, err)

	names, err := s.CommonNames(ctx, oak.ID)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "English oak", names[0].Name)
	assert.Equal(t, taxon.CommonNameSource, names[0].Source)
	assert.Equal(t, oak.ID, names[0].SpeciesID)

	add := taxon.CommonNames(oak.ID, []taxon.Vernacular{
		{Name: "english OAK"},
		{Name: "Stieleiche", Language: "deu"},
	})
	err = s.AddCommonNames(ctx, oak.ID, add)
	require.NoError(t, err)

	_, err = s.SaveSpecies(ctx, Oak())
	require.NoError(t, err)

	names, err = s.CommonNames(ctx, oak.ID)
	require.NoError(t, err)
	var res []string
	for _, v := range names {
		res = append(res, v.Name)
	}
	assert.Equal(t, []string{"English oak", "Pedunculate oak", "Stieleiche"}, res)
	assert.Equal(t, "deu", names[2].Language)

	names, err = s.CommonNames(ctx, 100_000)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func testBuildTree(t *testing.T, s taxon.Store) {
	ctx := context.Background()

	lion, err := s.SaveSpecies(ctx, Lion())
	require.NoError(t, err)

	tree, ok, err := s.BuildTree(ctx, lion.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, taxon.Tree{
		SpeciesID:   lion.ID,
		Kingdom:     "Animalia",
		Phylum:      "Chordata",
		Class:       "Mammalia",
		Order:       "Carnivora",
		Family:      "Felidae",
		Genus:       "Panthera",
		Species:     "Panthera leo",
		CommonNames: []string{"Lion", "African Lion"},
	}, tree)

	partial := Record("Aus bus", 0, [taxon.RanksNum]string{"Fungi"})
	sp, err := s.SaveSpecies(ctx, partial)
	require.NoError(t, err)
	assert.Equal(t, "Fungi", sp.Kingdom)

	tree, ok, err = s.BuildTree(ctx, sp.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Fungi", tree.Kingdom)
	assert.Equal(t, taxon.UnknownName, tree.Phylum)
	assert.Equal(t, taxon.UnknownName, tree.Genus)
	assert.Empty(t, tree.CommonNames)

	_, ok, err = s.BuildTree(ctx, 100_000)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testQueryCache(t *testing.T, s taxon.Store) {
	ctx := context.Background()

	entries, err := s.Lookup(ctx, "lion")
	require.NoError(t, err)
	assert.Empty(t, entries)

	lion, err := s.SaveSpecies(ctx, Lion())
	require.NoError(t, err)
	tiger, err := s.SaveSpecies(ctx, Tiger())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, s.Append(ctx, taxon.CacheEntry{
		Query: "Lion", SpeciesID: lion.ID, Score: 1500.5, CreatedAt: now,
	}))
	require.NoError(t, s.Append(ctx, taxon.CacheEntry{
		Query: "lion", SpeciesID: tiger.ID, Score: 120, CreatedAt: now,
	}))
	require.NoError(t, s.Append(ctx, taxon.CacheEntry{
		Query: "LION", SpeciesID: lion.ID, Score: 1, CreatedAt: now,
	}))

	for _, q := range []string{"lion", "LiOn", " lion "} {
		entries, err = s.Lookup(ctx, q)
		require.NoError(t, err)
		require.Len(t, entries, 2, q)
		assert.Equal(t, lion.ID, entries[0].SpeciesID)
		assert.Equal(t, 1500.5, entries[0].Score, "score is never updated")
		assert.Equal(t, "Lion", entries[0].Query)
		assert.Equal(t, tiger.ID, entries[1].SpeciesID)
	}

	entries, err = s.Lookup(ctx, "tiger")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testImageCache(t *testing.T, s taxon.Store) {
	ctx := context.Background()

	_, ok, err := s.GetImage(ctx, "Panthera leo")
	require.NoError(t, err)
	assert.False(t, ok)

	url := "https://example.org/lion.jpg"
	require.NoError(t, s.SetImage(ctx, taxon.Image{
		ScientificName: "Panthera leo", URL: &url,
	}))
	require.NoError(t, s.SetImage(ctx, taxon.Image{
		ScientificName: "Aus bus",
	}))

	img, ok, err := s.GetImage(ctx, "panthera leo")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, img.URL)
	assert.Equal(t, url, *img.URL)
	assert.False(t, img.CachedAt.IsZero())

	img, ok, err = s.GetImage(ctx, "Aus bus")
	require.NoError(t, err)
	require.True(t, ok, "no image is a cached result too")
	assert.Nil(t, img.URL)

	newURL := fmt.Sprintf("%s?v=2", url)
	require.NoError(t, s.SetImage(ctx, taxon.Image{
		ScientificName: "Panthera leo", URL: &newURL,
	}))
	img, _, err = s.GetImage(ctx, "Panthera leo")
	require.NoError(t, err)
	assert.Equal(t, newURL, *img.URL)
}
