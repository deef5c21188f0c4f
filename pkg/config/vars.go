package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gnspecies"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnspecies by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gnspecies by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnspecies/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnspecies/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLiteFilePath returns the default location of SQLite store.
// Returns ~/.cache/gnspecies/gnspecies.sqlite by default.
func SQLiteFilePath(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), AppName+".sqlite")
}

// ImageCacheDir returns the directory of the persistent image cache.
// Returns ~/.cache/gnspecies/images by default.
func ImageCacheDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "images")
}
