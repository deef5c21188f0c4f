// Package gnspecies searches species by scientific or common name and
// aggregates their taxonomic data and images from upstream providers.
package gnspecies

var (
	// Version of gnspecies, set during the build.
	Version = "v0.1.0"

	// Build timestamp, set during the build.
	Build = "n/a"
)
