// Package iostore opens the store configured by a user: the backend of
// hierarchy and query cache, and the place of the image cache.
package iostore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gnames/gnspecies/internal/iobadger"
	"github.com/gnames/gnspecies/internal/iodb"
	"github.com/gnames/gnspecies/internal/iomem"
	"github.com/gnames/gnspecies/internal/ioschema"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/taxon"
)

// store combines a backend with a separate image cache.
type store struct {
	taxon.Store
	images *iobadger.Cache
}

func (s *store) GetImage(
	ctx context.Context,
	scientificName string,
) (taxon.Image, bool, error) {
	return s.images.GetImage(ctx, scientificName)
}

func (s *store) SetImage(ctx context.Context, img taxon.Image) error {
	return s.images.SetImage(ctx, img)
}

func (s *store) Close() error {
	return errors.Join(s.images.Close(), s.Store.Close())
}

// Open creates taxon.Store according to the config. SQLite schema is
// created on the fly, PostgreSQL schema has to exist already.
func Open(ctx context.Context, cfg *config.Config) (taxon.Store, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("Store is open", "backend", cfg.Store.Backend,
		"image_cache", cfg.Store.ImageCache)

	if cfg.Store.ImageCache != "badger" {
		return backend, nil
	}

	dir := config.ImageCacheDir(cfg.HomeDir)
	images := iobadger.New(dir, cfg.Cache.ImageTTL)
	if err = images.Open(); err != nil {
		backend.Close()
		return nil, err
	}
	return &store{Store: backend, images: images}, nil
}

// OpenSQL opens SQL backend without checking its schema. It is used to
// create or recreate tables.
func OpenSQL(ctx context.Context, cfg *config.Config) (*iodb.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		return iodb.OpenPostgres(ctx, cfg)
	case "sqlite":
		return iodb.OpenSQLite(sqlitePath(cfg), cfg.Cache)
	default:
		return nil, BackendError(cfg.Store.Backend)
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (taxon.Store, error) {
	if cfg.Store.Backend == "memory" {
		return iomem.New(cfg.Cache), nil
	}

	db, err := OpenSQL(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Store.Backend == "sqlite" {
		err = ioschema.NewManager(db.DB()).Migrate(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}

	has, err := db.HasTables(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if !has {
		db.Close()
		return nil, NoTablesError(cfg.Database.Database)
	}
	return db, nil
}

func sqlitePath(cfg *config.Config) string {
	if cfg.Store.SQLitePath != "" {
		return cfg.Store.SQLitePath
	}
	return config.SQLiteFilePath(cfg.HomeDir)
}
