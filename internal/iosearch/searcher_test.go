package iosearch_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gnames/gnspecies/internal/iomem"
	"github.com/gnames/gnspecies/internal/iosearch"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lionImage = "https://img.test/lion.jpg"

type env struct {
	searcher *iosearch.Searcher
	store    *iomem.Store
	taxa     *fakeTaxa
	images   *fakeImages
	reg      *prometheus.Registry
}

func newEnv(t *testing.T, opts ...config.Option) *env {
	t.Helper()
	cfg := config.New()
	cfg.Update(append([]config.Option{config.OptJobsNumber(4)}, opts...))

	res := &env{
		store: iomem.New(cfg.Cache),
		taxa: &fakeTaxa{
			raws: leoRaws(),
			vern: map[int][]taxon.Vernacular{
				5219404: {{Name: "lion"}, {Name: "León", Language: "spa"}},
				4000:    {{Name: "Rough hawkbit"}},
			},
		},
		images: newFakeImages(map[string]string{"Panthera leo": lionImage}),
		reg:    prometheus.NewRegistry(),
	}
	res.searcher = iosearch.New(cfg, res.store, res.taxa, res.images,
		iosearch.OptParser(fakeParser{}),
		iosearch.OptMetrics(iosearch.NewMetrics(res.reg)),
	)
	return res
}

func names(rr []taxon.Result) []string {
	res := make([]string, len(rr))
	for i, v := range rr {
		res[i] = v.ScientificName
	}
	return res
}

func TestEmptyQuery(t *testing.T) {
	e := newEnv(t)
	for _, q := range []string{"", "   ", "\t"} {
		res, err := e.searcher.Search(context.Background(), q, "")
		require.Error(t, err)
		assert.True(t, iosearch.IsEmptyQuery(err))
		assert.Nil(t, res)
	}
	assert.Zero(t, e.taxa.searches.Load())
}

func TestSearchMergesDuplicates(t *testing.T) {
	e := newEnv(t)
	res, err := e.searcher.Search(context.Background(), "leo", "animalia")
	require.NoError(t, err)
	require.Len(t, res, 1)

	lion := res[0]
	assert.Equal(t, "Panthera leo", lion.ScientificName)
	assert.Equal(t, "Animalia", lion.Kingdom)
	assert.Equal(t, "(Linnaeus, 1758)", lion.Authorship)
	assert.Equal(t, "https://www.gbif.org/species/5219404", lion.Link)
	assert.Equal(t, []string{"Lion", "León"}, lion.CommonNames)
	assert.Equal(t, "Felidae", lion.Classification.Family)
	assert.Equal(t, "Chordata", lion.Classification.Phylum)
	require.NotNil(t, lion.ImageURL)
	assert.Equal(t, lionImage, *lion.ImageURL)
	assert.GreaterOrEqual(t, lion.Score, 100.0)

	sp, ok, err := e.store.SpeciesByName(context.Background(), "panthera leo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5219404, sp.UsageKey)
}

func TestRepeatSearch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.searcher.Search(ctx, "leo", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Leontodon hispidus", "Panthera leo"}, names(first))
	assert.Nil(t, first[0].ImageURL)

	second, err := e.searcher.Search(ctx, "LEO ", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int32(1), e.taxa.searches.Load())
	assert.Equal(t, 1, e.images.callsNum("Panthera leo"))
	assert.Equal(t, 1, e.images.callsNum("Leontodon hispidus"),
		"missing image is cached too")

	expected := `
# HELP gnspecies_query_cache_total Query cache lookups by result
# TYPE gnspecies_query_cache_total counter
gnspecies_query_cache_total{result="hit"} 1
gnspecies_query_cache_total{result="miss"} 1
# HELP gnspecies_image_cache_total Image cache lookups by result
# TYPE gnspecies_image_cache_total counter
gnspecies_image_cache_total{result="hit"} 2
gnspecies_image_cache_total{result="miss"} 2
`
	err = testutil.GatherAndCompare(e.reg, strings.NewReader(expected),
		"gnspecies_query_cache_total", "gnspecies_image_cache_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(e.reg, "gnspecies_search_duration_seconds"))
}

func TestKingdomFilter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		kingdom string
		res     []string
	}{
		{"Plantae", []string{"Leontodon hispidus"}},
		{"animalia", []string{"Panthera leo"}},
		{"all", []string{"Leontodon hispidus", "Panthera leo"}},
		{"", []string{"Leontodon hispidus", "Panthera leo"}},
		{"Fungi", []string{}},
	}

	for _, tt := range tests {
		res, err := e.searcher.Search(ctx, "leo", tt.kingdom)
		require.NoError(t, err)
		assert.Equal(t, tt.res, names(res), tt.kingdom)
		for _, v := range res {
			assert.True(t, taxon.MatchKingdom(v.Kingdom, tt.kingdom))
		}
	}
	assert.Equal(t, int32(1), e.taxa.searches.Load(),
		"all records are cached regardless of the filter")
}

func TestMinScore(t *testing.T) {
	tests := []struct {
		msg      string
		minScore float64
		res      []string
	}{
		{"default", 100, []string{"Leontodon hispidus", "Panthera leo"}},
		{"zero", 0, []string{"Leontodon hispidus", "Panthera leo", "Vulpes vulpes"}},
		{"high", 5000, []string{}},
	}

	for _, tt := range tests {
		e := newEnv(t, config.OptSearchMinScore(tt.minScore))
		res, err := e.searcher.Search(context.Background(), "leo", "")
		require.NoError(t, err)
		assert.Equal(t, tt.res, names(res), tt.msg)
		for i := 1; i < len(res); i++ {
			assert.GreaterOrEqual(t, res[i-1].Score, res[i].Score, tt.msg)
		}
	}
}

func TestKingdomPriority(t *testing.T) {
	e := newEnv(t, config.OptSearchKingdomPriority(true), config.OptSearchMinScore(0))
	e.taxa.raws = []taxon.RawTaxon{
		{ScientificName: "Bus alpha", Kingdom: "Plantae"},
		{ScientificName: "Aus alpha", Kingdom: "Fungi"},
		{ScientificName: "Cus alpha", Kingdom: "Animalia"},
	}
	res, err := e.searcher.Search(context.Background(), "alpha", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cus alpha", "Bus alpha", "Aus alpha"}, names(res))
}

func TestZeroRecords(t *testing.T) {
	e := newEnv(t)
	e.taxa.raws = nil

	res, err := e.searcher.Search(context.Background(), "zzzz", "")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestUpstreamError(t *testing.T) {
	e := newEnv(t)
	e.taxa.err = errors.New("GBIF is down")

	res, err := e.searcher.Search(context.Background(), "leo", "")
	require.NoError(t, err)
	assert.Empty(t, res)

	expected := `
# HELP gnspecies_upstream_errors_total Failed requests to upstream providers
# TYPE gnspecies_upstream_errors_total counter
gnspecies_upstream_errors_total{provider="gbif"} 1
`
	err = testutil.GatherAndCompare(e.reg, strings.NewReader(expected),
		"gnspecies_upstream_errors_total")
	assert.NoError(t, err)

	// nothing was cached, the next search asks the provider again
	e.taxa.err = nil
	res, err = e.searcher.Search(context.Background(), "leo", "")
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, int32(2), e.taxa.searches.Load())
}

func TestImageProviderError(t *testing.T) {
	e := newEnv(t)
	e.images.err = errors.New("timeout")
	ctx := context.Background()

	for range 2 {
		res, err := e.searcher.Search(ctx, "leo", "animalia")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Nil(t, res[0].ImageURL)
	}
	assert.Equal(t, 1, e.images.callsNum("Panthera leo"))
}

func TestConcurrentSearches(t *testing.T) {
	e := newEnv(t)
	e.taxa.delay = 50 * time.Millisecond

	const workers = 8
	results := make([][]taxon.Result, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.searcher.Search(context.Background(), "Leo", "")
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), e.taxa.searches.Load())
	for _, v := range results {
		assert.Equal(t, []string{"Leontodon hispidus", "Panthera leo"}, names(v))
	}
	assert.Equal(t, 1, e.images.callsNum("Panthera leo"))
}

func TestCancelledSearch(t *testing.T) {
	e := newEnv(t)
	e.taxa.delay = 100 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res, err := e.searcher.Search(ctx, "leo", "")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	// the shared upstream call outlives the caller and fills the whole bucket
	assert.Eventually(t, func() bool {
		entries, err := e.store.Lookup(context.Background(), "leo")
		return err == nil && len(entries) == 3
	}, 2*time.Second, 10*time.Millisecond)

	res, err = e.searcher.Search(context.Background(), "leo", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Leontodon hispidus", "Panthera leo"}, names(res))
	assert.Equal(t, int32(1), e.taxa.searches.Load())
}

func TestCancelledCallerKeepsSharedSearch(t *testing.T) {
	e := newEnv(t)
	e.taxa.delay = 200 * time.Millisecond

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		res, err := e.searcher.Search(ctx, "leo", "")
		assert.NoError(t, err)
		assert.Empty(t, res)
	}()

	// joins the upstream call started by the short-lived caller
	time.Sleep(10 * time.Millisecond)
	res, err := e.searcher.Search(context.Background(), "leo", "")
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, []string{"Leontodon hispidus", "Panthera leo"}, names(res))
	assert.Equal(t, int32(1), e.taxa.searches.Load())
}

func TestCancelledCallerKeepsSharedImage(t *testing.T) {
	e := newEnv(t)
	e.images.delay = 200 * time.Millisecond
	ctx := context.Background()

	// fill the query cache, images are looked up later
	_, err := e.searcher.Search(ctx, "leo", "plantae")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		res, err := e.searcher.Search(ctx, "leo", "animalia")
		assert.NoError(t, err)
		if assert.Len(t, res, 1) {
			assert.Nil(t, res[0].ImageURL)
		}
	}()

	time.Sleep(10 * time.Millisecond)
	res, err := e.searcher.Search(ctx, "leo", "animalia")
	wg.Wait()

	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NotNil(t, res[0].ImageURL)
	assert.Equal(t, lionImage, *res[0].ImageURL)
	assert.Equal(t, 1, e.images.callsNum("Panthera leo"))

	img, ok, err := e.store.GetImage(ctx, "Panthera leo")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, img.URL)
	assert.Equal(t, lionImage, *img.URL)
}
