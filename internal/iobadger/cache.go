// Package iobadger keeps outcomes of image lookups in a Badger key-value
// store, so they survive restarts of a service with a volatile store.
package iobadger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/gnames/gnsys"
)

const imagePrefix = "img/"

// image is the stored form of taxon.Image. GOB cannot tell a nil
// pointer from a missing field, so "no image" gets its own flag.
type image struct {
	ScientificName string
	URL            string
	HasURL         bool
	CachedAt       time.Time
}

// Cache implements taxon.ImageCache.
type Cache struct {
	dir string
	ttl time.Duration
	db  *badger.DB
	enc gnfmt.GNgob
}

// New creates a cache in dir, an empty dir means in-memory storage.
// TTL is in hours, 0 keeps images forever.
func New(dir string, ttlHours int) *Cache {
	return &Cache{
		dir: dir,
		ttl: time.Duration(ttlHours) * time.Hour,
	}
}

// Open opens the Badger database, creating its directory if needed.
func (c *Cache) Open() error {
	if c.db != nil {
		slog.Warn("Image cache is already open")
		return nil
	}

	var options badger.Options
	if c.dir == "" {
		options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := gnsys.MakeDir(c.dir); err != nil {
			return OpenError(c.dir, err)
		}
		options = badger.DefaultOptions(c.dir)
	}
	options.Logger = nil

	db, err := badger.Open(options)
	if err != nil {
		return OpenError(c.dir, err)
	}
	c.db = db
	slog.Debug("Image cache opened", "dir", c.dir)
	return nil
}

// Close closes the Badger database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Cache) GetImage(
	_ context.Context,
	scientificName string,
) (taxon.Image, bool, error) {
	if c.db == nil {
		return taxon.Image{}, false, NotOpenError()
	}

	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(scientificName))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return taxon.Image{}, false, nil
	}
	if err != nil {
		return taxon.Image{}, false, ReadError(scientificName, err)
	}

	var img image
	if err = c.enc.Decode(val, &img); err != nil {
		return taxon.Image{}, false, ReadError(scientificName, err)
	}
	res := taxon.Image{
		ScientificName: img.ScientificName,
		CachedAt:       img.CachedAt,
	}
	if img.HasURL {
		res.URL = &img.URL
	}
	return res, true, nil
}

func (c *Cache) SetImage(_ context.Context, img taxon.Image) error {
	if c.db == nil {
		return NotOpenError()
	}
	if img.CachedAt.IsZero() {
		img.CachedAt = time.Now()
	}

	data := image{
		ScientificName: strings.TrimSpace(img.ScientificName),
		CachedAt:       img.CachedAt,
	}
	if img.URL != nil {
		data.URL = *img.URL
		data.HasURL = true
	}
	val, err := c.enc.Encode(data)
	if err != nil {
		return WriteError(img.ScientificName, err)
	}

	entry := badger.NewEntry(key(img.ScientificName), val)
	if c.ttl > 0 {
		entry = entry.WithTTL(c.ttl)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
	if err != nil {
		return WriteError(img.ScientificName, err)
	}
	return nil
}

// Compact runs value log garbage collection while Badger finds something
// to rewrite. Expired images are dropped during compaction.
func (c *Cache) Compact() error {
	if c.db == nil {
		return NotOpenError()
	}
	for {
		err := c.db.RunValueLogGC(0.5)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite),
			errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return WriteError("value log", err)
		}
	}
}

func key(name string) []byte {
	return []byte(imagePrefix + taxon.NameKey(name))
}
