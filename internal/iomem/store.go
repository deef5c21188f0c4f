// Package iomem implements taxon.Store in process memory. All mutations
// go through one mutex, query and image caches use go-cache to expire
// old data when a TTL is configured.
package iomem

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/patrickmn/go-cache"
)

type nodeKey struct {
	name     string
	parentID int
}

// Store keeps taxonomic data and caches in memory.
type Store struct {
	mu sync.Mutex

	nodeIDs [taxon.RanksNum]map[nodeKey]int
	nodes   [taxon.RanksNum]map[int]taxon.Node

	species      map[int]taxon.Species
	speciesByKey map[string]int
	commonNames  map[int][]taxon.CommonName

	queries *cache.Cache
	images  *cache.Cache
}

// New creates an empty in-memory store.
func New(cfg config.CacheConfig) *Store {
	res := &Store{
		species:      make(map[int]taxon.Species),
		speciesByKey: make(map[string]int),
		commonNames:  make(map[int][]taxon.CommonName),
		queries:      newCache(cfg.QueryTTL),
		images:       newCache(cfg.ImageTTL),
	}
	for i := range taxon.Ranks {
		res.nodeIDs[i] = make(map[nodeKey]int)
		res.nodes[i] = make(map[int]taxon.Node)
	}
	return res
}

func newCache(hours int) *cache.Cache {
	if hours <= 0 {
		return cache.New(cache.NoExpiration, 0)
	}
	ttl := time.Duration(hours) * time.Hour
	return cache.New(ttl, ttl*2)
}

// Close is a no-op, it makes Store a taxon.Store.
func (s *Store) Close() error {
	return nil
}

func (s *Store) GetOrCreate(
	_ context.Context,
	rank taxon.Rank,
	name string,
	parentID int,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreate(rank, name, parentID), nil
}

func (s *Store) getOrCreate(rank taxon.Rank, name string, parentID int) int {
	name = taxon.NodeName(name)
	if rank == taxon.Kingdom {
		parentID = 0
	}
	key := nodeKey{name: taxon.NameKey(name), parentID: parentID}
	if id, ok := s.nodeIDs[rank][key]; ok {
		return id
	}

	id := len(s.nodes[rank]) + 1
	s.nodeIDs[rank][key] = id
	s.nodes[rank][id] = taxon.Node{
		ID: id, Rank: rank, Name: name, ParentID: parentID,
	}
	return id
}

func (s *Store) SaveSpecies(
	_ context.Context,
	rec taxon.Record,
) (taxon.Species, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := taxon.NameKey(rec.ScientificName)
	if id, ok := s.speciesByKey[key]; ok {
		sp := s.species[id]
		if sp.UsageKey == 0 && rec.Key != 0 {
			sp.UsageKey = rec.Key
			sp.Link = rec.Link
			s.species[id] = sp
		}
		s.addCommonNames(id, taxon.CommonNames(id, rec.Vernaculars))
		return sp, nil
	}

	var parentID int
	for _, r := range taxon.Ranks {
		parentID = s.getOrCreate(r, rec.Rank(r), parentID)
	}

	id := len(s.species) + 1
	sp := taxon.Species{
		ID:             id,
		ScientificName: rec.ScientificName,
		Kingdom:        rec.Rank(taxon.Kingdom),
		GenusID:        parentID,
		UsageKey:       rec.Key,
		Authorship:     rec.Authorship,
		Link:           rec.Link,
	}
	s.species[id] = sp
	s.speciesByKey[key] = id
	s.addCommonNames(id, taxon.CommonNames(id, rec.Vernaculars))
	return sp, nil
}

func (s *Store) Species(_ context.Context, id int) (taxon.Species, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.species[id]
	return sp, ok, nil
}

func (s *Store) SpeciesByName(
	_ context.Context,
	name string,
) (taxon.Species, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.speciesByKey[taxon.NameKey(name)]
	if !ok {
		return taxon.Species{}, false, nil
	}
	return s.species[id], true, nil
}

func (s *Store) AddCommonNames(
	_ context.Context,
	speciesID int,
	names []taxon.CommonName,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.species[speciesID]; !ok {
		return nil
	}
	s.addCommonNames(speciesID, names)
	return nil
}

func (s *Store) addCommonNames(speciesID int, names []taxon.CommonName) {
	existing := s.commonNames[speciesID]
	for _, cn := range names {
		key := taxon.NameKey(cn.Name)
		if key == "" {
			continue
		}
		dup := slices.ContainsFunc(existing, func(v taxon.CommonName) bool {
			return taxon.NameKey(v.Name) == key
		})
		if dup {
			continue
		}
		cn.SpeciesID = speciesID
		if cn.ID == "" {
			cn.ID = taxon.CommonNameID(speciesID, cn.Name)
		}
		existing = append(existing, cn)
	}
	s.commonNames[speciesID] = existing
}

func (s *Store) CommonNames(
	_ context.Context,
	speciesID int,
) ([]taxon.CommonName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.commonNames[speciesID]), nil
}

func (s *Store) BuildTree(
	_ context.Context,
	speciesID int,
) (taxon.Tree, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.species[speciesID]
	if !ok {
		return taxon.Tree{}, false, nil
	}

	res := taxon.Tree{
		SpeciesID:   sp.ID,
		Species:     sp.ScientificName,
		CommonNames: []string{},
	}
	id := sp.GenusID
	for i := len(taxon.Ranks) - 1; i >= 0 && id != 0; i-- {
		node, ok := s.nodes[i][id]
		if !ok {
			break
		}
		res.SetRank(taxon.Ranks[i], node.Name)
		id = node.ParentID
	}

	for _, cn := range s.commonNames[speciesID] {
		res.CommonNames = append(res.CommonNames, cn.Name)
	}
	return res, true, nil
}
