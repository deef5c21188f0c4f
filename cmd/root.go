/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/internal/iofs"
	"github.com/gnames/gnspecies/internal/iologger"
	app "github.com/gnames/gnspecies/pkg"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnspecies",
		Short:   "GNspecies finds species by scientific or common names",
		Long: `GNspecies finds species by scientific or vernacular names, ranks
them by relevance and shows their classification, common names and images.

Data comes from GBIF (taxonomy, vernacular names) and iNaturalist
(images). Results are kept in a local store, so repeated queries do
not go to the network.

Commands:
  search:   find species from command line
  serve:    run REST API
  warm:     fill the cache with queries from a file
  create:   create SQL schema of the store
  optimize: purge expired cache, compact the store
  config:   show effective configuration

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNSPECIES_*)
  3. Config file (~/.config/gnspecies/config.yaml)
  4. Built-in defaults

Nested fields use underscores (store.backend -> GNSPECIES_STORE_BACKEND).`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnspecies version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnspecies")

	rootCmd.AddCommand(
		getSearchCmd(),
		getServeCmd(),
		getWarmCmd(),
		getCreateCmd(),
		getOptimizeCmd(),
		getConfigCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))
	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions().
	v.SetEnvPrefix("GNSPECIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Store configuration
	v.BindEnv("store.backend", "GNSPECIES_STORE_BACKEND")
	v.BindEnv("store.sqlite_path", "GNSPECIES_STORE_SQLITE_PATH")
	v.BindEnv("store.image_cache", "GNSPECIES_STORE_IMAGE_CACHE")

	// Database configuration
	v.BindEnv("database.host", "GNSPECIES_DATABASE_HOST")
	v.BindEnv("database.port", "GNSPECIES_DATABASE_PORT")
	v.BindEnv("database.user", "GNSPECIES_DATABASE_USER")
	v.BindEnv("database.password", "GNSPECIES_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNSPECIES_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNSPECIES_DATABASE_SSL_MODE")

	// Upstream providers
	v.BindEnv("providers.gbif_url", "GNSPECIES_PROVIDERS_GBIF_URL")
	v.BindEnv("providers.inat_url", "GNSPECIES_PROVIDERS_INAT_URL")
	v.BindEnv("providers.timeout", "GNSPECIES_PROVIDERS_TIMEOUT")
	v.BindEnv("providers.search_limit", "GNSPECIES_PROVIDERS_SEARCH_LIMIT")

	// Search and caches
	v.BindEnv("search.min_score", "GNSPECIES_SEARCH_MIN_SCORE")
	v.BindEnv("search.kingdom_priority", "GNSPECIES_SEARCH_KINGDOM_PRIORITY")
	v.BindEnv("cache.query_ttl", "GNSPECIES_CACHE_QUERY_TTL")
	v.BindEnv("cache.image_ttl", "GNSPECIES_CACHE_IMAGE_TTL")

	v.BindEnv("server.port", "GNSPECIES_SERVER_PORT")

	// Log configuration
	v.BindEnv("log.level", "GNSPECIES_LOG_LEVEL")
	v.BindEnv("log.format", "GNSPECIES_LOG_FORMAT")
	v.BindEnv("log.destination", "GNSPECIES_LOG_DESTINATION")

	v.BindEnv("jobs_number", "GNSPECIES_JOBS_NUMBER")

	v.AutomaticEnv()
}
