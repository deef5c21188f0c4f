// Package iotesting provides shared test utilities for store
// implementations and integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"strconv"

	"github.com/gnames/gnspecies/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnspecies_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Database credentials can be changed by GNSPECIES_DATABASE_HOST, _PORT,
// _USER and _PASSWORD variables, the database name is always
// TestDatabaseName.
func GetTestConfig(opts ...config.Option) *config.Config {
	cfg := config.New()
	cfg.Update(envOptions())
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptDatabaseDatabase(TestDatabaseName)})
	return cfg
}

func envOptions() []config.Option {
	var res []config.Option
	if s := os.Getenv("GNSPECIES_DATABASE_HOST"); s != "" {
		res = append(res, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("GNSPECIES_DATABASE_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			res = append(res, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("GNSPECIES_DATABASE_USER"); s != "" {
		res = append(res, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("GNSPECIES_DATABASE_PASSWORD"); s != "" {
		res = append(res, config.OptDatabasePassword(s))
	}
	return res
}
