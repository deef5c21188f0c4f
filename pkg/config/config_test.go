package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/gnspecies/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "gnspecies"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "gnspecies"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "gnspecies", "logs"),
		},
		{
			msg: "sqlite file",
			fn:  config.SQLiteFilePath,
			res: filepath.Join(tempHome, ".cache", "gnspecies", "gnspecies.sqlite"),
		},
		{
			msg: "image cache dir",
			fn:  config.ImageCacheDir,
			res: filepath.Join(tempHome, ".cache", "gnspecies", "images"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "store", cfg.Store.ImageCache)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "gnspecies", cfg.Database.Database)
	assert.Equal(t, "https://api.gbif.org/v1", cfg.Providers.GBIFURL)
	assert.Equal(t, "https://api.inaturalist.org/v1", cfg.Providers.INatURL)
	assert.Equal(t, 10, cfg.Providers.Timeout)
	assert.Equal(t, 100, cfg.Providers.SearchLimit)
	assert.Equal(t, 100.0, cfg.Search.MinScore)
	assert.False(t, cfg.Search.KingdomPriority)
	assert.Zero(t, cfg.Cache.QueryTTL)
	assert.Zero(t, cfg.Cache.ImageTTL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestOptionStoreBackend(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sqlite", "sqlite", "sqlite"},
		{"postgres uppercase", " POSTGRES ", "postgres"},
		{"unknown backend", "mongo", "memory"},
		{"empty", "", "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptStoreBackend(tt.input)})
			assert.Equal(t, tt.expected, cfg.Store.Backend)
		})
	}
}

func TestOptionProvidersURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"valid url", "http://localhost:9000/v1", "http://localhost:9000/v1"},
		{"trailing slash", "https://example.org/api/", "https://example.org/api"},
		{"no scheme", "example.org", "https://api.gbif.org/v1"},
		{"empty", "", "https://api.gbif.org/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptProvidersGBIFURL(tt.input)})
			assert.Equal(t, tt.expected, cfg.Providers.GBIFURL)
		})
	}
}

func TestOptionSearchMinScore(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"sets value", 50, 50},
		{"zero disables threshold", 0, 0},
		{"ignores negative", -1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptSearchMinScore(tt.input)})
			assert.Equal(t, tt.expected, cfg.Search.MinScore)
		})
	}
}

func TestOptionPositiveInts(t *testing.T) {
	tests := []struct {
		name  string
		opt   func(int) config.Option
		get   func(*config.Config) int
		input int
		want  int
	}{
		{
			name:  "timeout",
			opt:   config.OptProvidersTimeout,
			get:   func(c *config.Config) int { return c.Providers.Timeout },
			input: 3,
			want:  3,
		},
		{
			name:  "timeout zero ignored",
			opt:   config.OptProvidersTimeout,
			get:   func(c *config.Config) int { return c.Providers.Timeout },
			input: 0,
			want:  10,
		},
		{
			name:  "server port",
			opt:   config.OptServerPort,
			get:   func(c *config.Config) int { return c.Server.Port },
			input: 9999,
			want:  9999,
		},
		{
			name:  "jobs number negative ignored",
			opt:   config.OptJobsNumber,
			get:   func(c *config.Config) int { return c.JobsNumber },
			input: -2,
			want:  runtime.NumCPU(),
		},
		{
			name:  "query ttl",
			opt:   config.OptCacheQueryTTL,
			get:   func(c *config.Config) int { return c.Cache.QueryTTL },
			input: 24,
			want:  24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt(tt.input)})
			assert.Equal(t, tt.want, tt.get(cfg))
		})
	}
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"debug", "debug", "debug"},
		{"uppercase", "WARN", "warn"},
		{"invalid", "verbose", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogLevel(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestToOptions(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{
		config.OptStoreBackend("sqlite"),
		config.OptStoreSQLitePath("/tmp/species.sqlite"),
		config.OptStoreImageCache("badger"),
		config.OptSearchMinScore(50),
		config.OptSearchKingdomPriority(true),
		config.OptCacheImageTTL(72),
		config.OptProvidersSearchLimit(20),
		config.OptLogFormat("text"),
		config.OptHomeDir("/home/user"),
	})

	cfg := config.New()
	cfg.Update(src.ToOptions())

	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/species.sqlite", cfg.Store.SQLitePath)
	assert.Equal(t, "badger", cfg.Store.ImageCache)
	assert.Equal(t, 50.0, cfg.Search.MinScore)
	assert.True(t, cfg.Search.KingdomPriority)
	assert.Equal(t, 72, cfg.Cache.ImageTTL)
	assert.Equal(t, 20, cfg.Providers.SearchLimit)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.HomeDir, "HomeDir is runtime-only")
}
