package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptStoreBackend sets the backend of the hierarchy store and caches.
// Valid values: "memory", "sqlite", "postgres".
func OptStoreBackend(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Store.Backend", s) {
			c.Store.Backend = s
		}
	}
}

// OptStoreSQLitePath sets the path to the SQLite database file.
func OptStoreSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Store.SQLitePath = s
		}
	}
}

// OptStoreImageCache sets where image URLs are cached.
// Valid values: "store", "badger".
func OptStoreImageCache(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Store.ImageCache", s) {
			c.Store.ImageCache = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptProvidersGBIFURL sets the base URL of GBIF API.
func OptProvidersGBIFURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("GBIF URL", s) {
			c.Providers.GBIFURL = s
		}
	}
}

// OptProvidersINatURL sets the base URL of iNaturalist API.
func OptProvidersINatURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("iNaturalist URL", s) {
			c.Providers.INatURL = s
		}
	}
}

// OptProvidersTimeout sets the timeout of upstream requests in seconds.
func OptProvidersTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Providers Timeout", i) {
			c.Providers.Timeout = i
		}
	}
}

// OptProvidersSearchLimit sets the maximum number of records requested
// from the taxonomy provider.
func OptProvidersSearchLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Search Limit", i) {
			c.Providers.SearchLimit = i
		}
	}
}

// OptSearchMinScore sets the minimal relevance score of returned results.
// Zero disables the threshold.
func OptSearchMinScore(f float64) Option {
	return func(c *Config) {
		if isValidNonNegative("Search Min Score", f) {
			c.Search.MinScore = f
		}
	}
}

// OptSearchKingdomPriority toggles ordering by kingdom priority.
func OptSearchKingdomPriority(b bool) Option {
	return func(c *Config) {
		c.Search.KingdomPriority = b
	}
}

// OptCacheQueryTTL sets the lifetime of query cache entries in hours.
// Zero means entries never expire.
func OptCacheQueryTTL(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Cache Query TTL", float64(i)) {
			c.Cache.QueryTTL = i
		}
	}
}

// OptCacheImageTTL sets the lifetime of cached image URLs in hours.
// Zero means images never expire.
func OptCacheImageTTL(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Cache Image TTL", float64(i)) {
			c.Cache.ImageTTL = i
		}
	}
}

// OptServerPort sets the port of REST API.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent upstream requests.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
