// Package config provides configuration management for gnspecies.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid
// - All mutations go through Option functions
// - Invalid options are rejected with gn.Warn(), config stays valid
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Environment Variables
//
// Use GNSPECIES_ prefix with underscores for nesting:
//
//	GNSPECIES_STORE_BACKEND=sqlite
//	GNSPECIES_DATABASE_HOST=localhost
//	GNSPECIES_SEARCH_MIN_SCORE=100
//	GNSPECIES_LOG_LEVEL=info
//	GNSPECIES_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete gnspecies configuration.
type Config struct {
	// Store selects where taxonomic data and caches live.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Database contains PostgreSQL connection settings, used by the
	// postgres store backend.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Providers contains settings for upstream taxonomy and image APIs.
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`

	// Search contains result filtering and ordering settings.
	Search SearchConfig `mapstructure:"search" yaml:"search"`

	// Cache contains expiration settings of query and image caches.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Server contains REST API settings.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent upstream requests allowed
	// within a single search.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `yaml:"-"`
}

// StoreConfig selects the backend of the hierarchy store and caches.
type StoreConfig struct {
	// Backend can be 'memory', 'sqlite' or 'postgres'.
	Backend string `mapstructure:"backend" yaml:"backend"`

	// SQLitePath is a path to SQLite database file. If empty, the file
	// is created in the cache directory.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// ImageCache can be 'store' (keep images together with other data)
	// or 'badger' (persistent key-value store in the cache directory).
	ImageCache string `mapstructure:"image_cache" yaml:"image_cache"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// ProvidersConfig contains settings of upstream services.
type ProvidersConfig struct {
	// GBIFURL is the base URL of GBIF API.
	GBIFURL string `mapstructure:"gbif_url" yaml:"gbif_url"`

	// INatURL is the base URL of iNaturalist API.
	INatURL string `mapstructure:"inat_url" yaml:"inat_url"`

	// Timeout in seconds for every upstream request.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// SearchLimit is the maximum number of records requested from
	// the taxonomy provider per query.
	SearchLimit int `mapstructure:"search_limit" yaml:"search_limit"`
}

// SearchConfig contains settings for filtering and ordering of results.
type SearchConfig struct {
	// MinScore is the relevance threshold. Results with a lower score
	// are not returned.
	MinScore float64 `mapstructure:"min_score" yaml:"min_score"`

	// KingdomPriority adds ordering by kingdom (Animalia, Plantae,
	// Fungi, ...) between score and scientific name.
	KingdomPriority bool `mapstructure:"kingdom_priority" yaml:"kingdom_priority"`
}

// CacheConfig sets expiration of cached data. Zero means data never
// expires.
type CacheConfig struct {
	// QueryTTL is the lifetime of query cache entries in hours.
	QueryTTL int `mapstructure:"query_ttl" yaml:"query_ttl"`

	// ImageTTL is the lifetime of cached image URLs in hours.
	ImageTTL int `mapstructure:"image_ttl" yaml:"image_ttl"`
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	// Port of the REST API.
	Port int `mapstructure:"port" yaml:"port"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Store: StoreConfig{
			Backend:    "memory",
			ImageCache: "store",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "gnspecies",
			SSLMode:  "disable",
		},
		Providers: ProvidersConfig{
			GBIFURL:     "https://api.gbif.org/v1",
			INatURL:     "https://api.inaturalist.org/v1",
			Timeout:     10,
			SearchLimit: 100,
		},
		Search: SearchConfig{
			MinScore: 100.0,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
