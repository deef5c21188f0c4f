package taxon

import "context"

// Hierarchy keeps taxonomic nodes, species and their common names.
// Implementations must be safe for concurrent use and must never create
// two nodes with the same (case-insensitive name, parent) pair.
type Hierarchy interface {
	// GetOrCreate returns the ID of a node, creating the node if needed.
	// Blank names are stored as UnknownName.
	GetOrCreate(ctx context.Context, rank Rank, name string, parentID int) (int, error)

	// SaveSpecies stores the node chain, the species and its common names
	// as one unit. An existing species gets a missing upstream key
	// backfilled, otherwise it stays unchanged.
	SaveSpecies(ctx context.Context, rec Record) (Species, error)

	// Species returns a species by ID.
	Species(ctx context.Context, id int) (Species, bool, error)

	// SpeciesByName finds a species by its case-insensitive name.
	SpeciesByName(ctx context.Context, name string) (Species, bool, error)

	// AddCommonNames adds names unknown for the species yet. Comparison
	// is case-insensitive.
	AddCommonNames(ctx context.Context, speciesID int, names []CommonName) error

	// CommonNames returns common names of a species in insertion order.
	CommonNames(ctx context.Context, speciesID int) ([]CommonName, error)

	// BuildTree walks from a species up to its kingdom. It does not
	// modify the store.
	BuildTree(ctx context.Context, speciesID int) (Tree, bool, error)
}

// QueryCache maps query texts to matched species and their scores.
type QueryCache interface {
	// Lookup returns entries of a query in insertion order. Comparison
	// of queries is case-insensitive.
	Lookup(ctx context.Context, query string) ([]CacheEntry, error)

	// Append adds an entry. Entries are never updated, appending an
	// existing query/species pair does nothing.
	Append(ctx context.Context, entry CacheEntry) error
}

// ImageCache keeps outcomes of image lookups, including "no image".
type ImageCache interface {
	GetImage(ctx context.Context, scientificName string) (Image, bool, error)
	SetImage(ctx context.Context, img Image) error
}

// Store provides all storage capabilities of the search engine.
type Store interface {
	Hierarchy
	QueryCache
	ImageCache
	Close() error
}

// TaxonomyProvider is an upstream taxonomy service.
type TaxonomyProvider interface {
	// Search returns raw records of accepted species matching the query.
	Search(ctx context.Context, query string) ([]RawTaxon, error)

	// Vernaculars returns common names for a provider key.
	Vernaculars(ctx context.Context, key int) ([]Vernacular, error)
}

// ImageProvider is an upstream service with species photos.
type ImageProvider interface {
	// Image returns a URL of a representative image or an empty string
	// when the provider has none.
	Image(ctx context.Context, scientificName string) (string, error)
}
