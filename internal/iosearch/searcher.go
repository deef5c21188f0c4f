// Package iosearch implements search.Searcher. It reads the query cache
// first and goes to the taxonomy provider only when the cache has nothing
// for a query. Fresh records are normalized, saved to the hierarchy
// store, scored and cached before they are returned.
package iosearch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/normalizer"
	"github.com/gnames/gnspecies/pkg/parserpool"
	"github.com/gnames/gnspecies/pkg/relevance"
	"github.com/gnames/gnspecies/pkg/search"
	"github.com/gnames/gnspecies/pkg/taxon"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Searcher is the search orchestrator.
type Searcher struct {
	store   taxon.Store
	taxa    taxon.TaxonomyProvider
	parser  parserpool.Pool
	images  *imageResolver
	metrics *Metrics
	group   singleflight.Group

	minScore        float64
	kingdomPriority bool
	jobs            int
}

var _ search.Searcher = (*Searcher)(nil)

// Option changes optional parts of Searcher.
type Option func(*Searcher)

// OptParser sets gnparser pool that extracts authorship from names
// when the provider does not give it.
func OptParser(p parserpool.Pool) Option {
	return func(s *Searcher) {
		s.parser = p
	}
}

// OptMetrics sets Prometheus metrics.
func OptMetrics(m *Metrics) Option {
	return func(s *Searcher) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New creates a Searcher.
func New(
	cfg *config.Config,
	store taxon.Store,
	taxa taxon.TaxonomyProvider,
	images taxon.ImageProvider,
	opts ...Option,
) *Searcher {
	res := &Searcher{
		store:           store,
		taxa:            taxa,
		minScore:        cfg.Search.MinScore,
		kingdomPriority: cfg.Search.KingdomPriority,
		jobs:            max(cfg.JobsNumber, 1),
	}
	for _, opt := range opts {
		opt(res)
	}
	if res.metrics == nil {
		res.metrics = NewMetrics(nil)
	}
	res.images = &imageResolver{
		cache:    store,
		provider: images,
		metrics:  res.metrics,
	}
	return res
}

func (s *Searcher) Search(
	ctx context.Context,
	query, kingdom string,
) ([]taxon.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, EmptyQueryError()
	}
	start := time.Now()
	defer func() {
		s.metrics.duration.Observe(time.Since(start).Seconds())
	}()

	res, err := s.cached(ctx, query)
	if err != nil {
		slog.Warn("Cannot read query cache", "query", query, "error", err)
		return []taxon.Result{}, nil
	}
	s.metrics.cache(s.metrics.queryCache, len(res) > 0)
	if len(res) == 0 {
		res = s.fresh(ctx, query)
	}

	res = search.Filter(res, s.minScore, kingdom)
	search.Sort(res, s.kingdomPriority)
	s.resolveImages(ctx, res)
	return res, nil
}

// cached reads results of a query from the query cache. Entries that
// point to missing species are skipped.
func (s *Searcher) cached(ctx context.Context, query string) ([]taxon.Result, error) {
	entries, err := s.store.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	res := make([]taxon.Result, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.SpeciesID]; ok {
			continue
		}
		seen[e.SpeciesID] = struct{}{}

		sp, ok, err := s.store.Species(ctx, e.SpeciesID)
		if err != nil {
			return nil, err
		}
		var tree taxon.Tree
		if ok {
			tree, ok, err = s.store.BuildTree(ctx, e.SpeciesID)
			if err != nil {
				return nil, err
			}
		}
		if !ok {
			slog.Debug("Cached species not found",
				"query", query, "species_id", e.SpeciesID)
			continue
		}
		res = append(res, result(sp, tree, e.Score))
	}
	return res, nil
}

func result(sp taxon.Species, tree taxon.Tree, score float64) taxon.Result {
	return taxon.Result{
		ScientificName: sp.ScientificName,
		Kingdom:        sp.Kingdom,
		Authorship:     sp.Authorship,
		Link:           sp.Link,
		CommonNames:    tree.CommonNames,
		Score:          score,
		Classification: tree,
	}
}

// fresh gets records from the taxonomy provider, saves them and reads
// them back the same way cached results are read. Simultaneous searches
// of the same query share one upstream call. The shared call belongs to
// no single caller: it runs without their cancellation and is bounded by
// the provider timeout. A cancelled caller stops waiting for it.
func (s *Searcher) fresh(ctx context.Context, query string) []taxon.Result {
	key := relevance.NormalizeQuery(query)
	wctx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		// a previous flight could finish after the caller's lookup
		entries, err := s.store.Lookup(wctx, query)
		if err == nil && len(entries) > 0 {
			return nil, nil
		}
		return nil, s.ingest(wctx, query)
	})

	select {
	case <-ctx.Done():
		return []taxon.Result{}
	case r := <-ch:
		if r.Err != nil {
			return []taxon.Result{}
		}
	}

	res, err := s.cached(ctx, query)
	if err != nil {
		slog.Warn("Cannot read query cache", "query", query, "error", err)
		return []taxon.Result{}
	}
	return res
}

// ingest processes every record of the upstream answer, so a query
// bucket is never left with a part of the candidates.
func (s *Searcher) ingest(ctx context.Context, query string) error {
	raws, err := s.taxa.Search(ctx, query)
	if err != nil {
		s.metrics.upstreamErrors.WithLabelValues("gbif").Inc()
		slog.Warn("Taxonomy search failed", "query", query, "error", err)
		return err
	}
	records := normalizer.Merge(raws)
	slog.Debug("Taxonomy search",
		"query", query, "records", len(raws), "species", len(records))

	var g errgroup.Group
	g.SetLimit(s.jobs)
	for _, rec := range records {
		g.Go(func() error {
			s.process(ctx, query, rec)
			return nil
		})
	}
	return g.Wait()
}

// process enriches a record and runs the write unit. The write unit is
// not interrupted by cancellation.
func (s *Searcher) process(ctx context.Context, query string, rec taxon.Record) {
	if rec.Key != 0 {
		vv, err := s.taxa.Vernaculars(ctx, rec.Key)
		if err != nil {
			s.metrics.upstreamErrors.WithLabelValues("gbif").Inc()
			slog.Debug("Vernacular names lookup failed",
				"name", rec.ScientificName, "key", rec.Key, "error", err)
		}
		rec.Vernaculars = normalizer.UnionVernaculars(rec.Vernaculars, vv)
	}
	if rec.Authorship == "" && s.parser != nil {
		rec.Authorship = s.parser.Authorship(rec.Verbatim, rec.Rank(taxon.Kingdom))
	}

	wctx := context.WithoutCancel(ctx)
	sp, err := s.store.SaveSpecies(wctx, rec)
	if err != nil {
		slog.Warn("Cannot save species", "name", rec.ScientificName, "error", err)
		return
	}
	tree, ok, err := s.store.BuildTree(wctx, sp.ID)
	if err != nil || !ok {
		slog.Warn("Cannot build classification",
			"name", sp.ScientificName, "error", err)
		return
	}

	cand := relevance.Candidate{
		ScientificName: sp.ScientificName,
		CommonNames:    tree.CommonNames,
	}
	entry := taxon.CacheEntry{
		Query:     query,
		SpeciesID: sp.ID,
		Score:     relevance.Score(cand, query),
		CreatedAt: time.Now(),
	}
	if err = s.store.Append(wctx, entry); err != nil {
		slog.Warn("Cannot cache search result",
			"query", query, "name", sp.ScientificName, "error", err)
	}
}

func (s *Searcher) resolveImages(ctx context.Context, res []taxon.Result) {
	var g errgroup.Group
	g.SetLimit(s.jobs)
	for i := range res {
		g.Go(func() error {
			res[i].ImageURL = s.images.resolve(ctx, res[i].ScientificName)
			return nil
		})
	}
	_ = g.Wait()
}
