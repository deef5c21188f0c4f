// Package iodb implements taxon.Store on top of a SQL database. It uses
// gorm with PostgreSQL (through pgxpool) or SQLite (modernc) drivers.
package iodb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/schema"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Store keeps taxonomic hierarchy and caches in SQL tables.
type Store struct {
	db   *gorm.DB
	pool *pgxpool.Pool
	sql  *sql.DB

	queryTTL time.Duration
	imageTTL time.Duration
}

// OpenPostgres connects to PostgreSQL database from the config. It does
// not create tables, see ioschema.
func OpenPostgres(ctx context.Context, cfg *config.Config) (*Store, error) {
	d := cfg.Database
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
	target := fmt.Sprintf("%s:%d/%s", d.Host, d.Port, d.Database)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, ConnectionError(target, err)
	}
	poolConfig.MaxConns = int32(max(cfg.JobsNumber, 4))
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, ConnectionError(target, err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, ConnectionError(target, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		gormConfig(),
	)
	if err != nil {
		db.Close()
		pool.Close()
		return nil, ConnectionError(target, err)
	}

	res := newStore(gormDB, cfg.Cache)
	res.pool = pool
	res.sql = db
	return res, nil
}

// OpenSQLite opens SQLite database at path, ":memory:" creates a
// private in-memory database. SQLite allows only one writer, so the
// store keeps a single connection.
func OpenSQLite(path string, cache config.CacheConfig) (*Store, error) {
	gormDB, err := gorm.Open(
		sqlite.Dialector{DriverName: "sqlite", DSN: path},
		gormConfig(),
	)
	if err != nil {
		return nil, ConnectionError(path, err)
	}
	db, err := gormDB.DB()
	if err != nil {
		return nil, ConnectionError(path, err)
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, ConnectionError(path, err)
	}

	res := newStore(gormDB, cache)
	res.sql = db
	return res, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
}

func newStore(db *gorm.DB, cache config.CacheConfig) *Store {
	return &Store{
		db:       db,
		queryTTL: time.Duration(cache.QueryTTL) * time.Hour,
		imageTTL: time.Duration(cache.ImageTTL) * time.Hour,
	}
}

// DB returns gorm handle of the store.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases database connections.
func (s *Store) Close() error {
	var err error
	if s.sql != nil {
		err = s.sql.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

func (s *Store) GetOrCreate(
	ctx context.Context,
	rank taxon.Rank,
	name string,
	parentID int,
) (int, error) {
	id, err := getOrCreate(s.db.WithContext(ctx), rank, name, parentID)
	if err != nil {
		return 0, WriteError(rank.String(), err)
	}
	return id, nil
}

func getOrCreate(
	tx *gorm.DB,
	rank taxon.Rank,
	name string,
	parentID int,
) (int, error) {
	name = taxon.NodeName(name)
	if rank == taxon.Kingdom {
		parentID = 0
	}
	key := taxon.NameKey(name)
	table := schema.NodeTable(rank)

	var node schema.Node
	found, err := takeNode(tx, table, key, parentID, &node)
	if err != nil || found {
		return node.ID, err
	}

	node = schema.Node{Name: name, NameKey: key, ParentID: parentID}
	res := tx.Table(table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&node)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		return node.ID, nil
	}

	// somebody else inserted the node first
	node = schema.Node{}
	found, err = takeNode(tx, table, key, parentID, &node)
	if err == nil && !found {
		err = fmt.Errorf("node %s/%q disappeared", table, name)
	}
	return node.ID, err
}

func takeNode(
	tx *gorm.DB,
	table, key string,
	parentID int,
	node *schema.Node,
) (bool, error) {
	err := tx.Table(table).
		Where("name_key = ? AND parent_id = ?", key, parentID).
		Take(node).Error
	return found(err)
}

func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *Store) SaveSpecies(
	ctx context.Context,
	rec taxon.Record,
) (taxon.Species, error) {
	var row schema.Species
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = saveSpecies(tx, rec)
		if err != nil {
			return err
		}
		names := taxon.CommonNames(row.ID, rec.Vernaculars)
		return addCommonNames(tx, row.ID, names)
	})
	if err != nil {
		return taxon.Species{}, WriteError(rec.ScientificName, err)
	}
	return toSpecies(row), nil
}

func saveSpecies(tx *gorm.DB, rec taxon.Record) (schema.Species, error) {
	key := taxon.NameKey(rec.ScientificName)

	var row schema.Species
	ok, err := found(tx.Where("name_key = ?", key).Take(&row).Error)
	if err != nil {
		return row, err
	}
	if ok {
		return row, backfill(tx, &row, rec)
	}

	var parentID int
	for _, r := range taxon.Ranks {
		parentID, err = getOrCreate(tx, r, rec.Rank(r), parentID)
		if err != nil {
			return row, err
		}
	}

	row = schema.Species{
		ScientificName: rec.ScientificName,
		NameKey:        key,
		Kingdom:        rec.Rank(taxon.Kingdom),
		GenusID:        parentID,
		UsageKey:       rec.Key,
		Authorship:     rec.Authorship,
		Link:           rec.Link,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return row, res.Error
	}
	if res.RowsAffected > 0 {
		return row, nil
	}

	row = schema.Species{}
	ok, err = found(tx.Where("name_key = ?", key).Take(&row).Error)
	if err == nil && !ok {
		err = fmt.Errorf("species %q disappeared", rec.ScientificName)
	}
	if err != nil {
		return row, err
	}
	return row, backfill(tx, &row, rec)
}

func backfill(tx *gorm.DB, row *schema.Species, rec taxon.Record) error {
	if row.UsageKey != 0 || rec.Key == 0 {
		return nil
	}
	err := tx.Model(&schema.Species{}).
		Where("id = ? AND usage_key = 0", row.ID).
		Updates(map[string]any{"usage_key": rec.Key, "link": rec.Link}).
		Error
	if err != nil {
		return err
	}
	row.UsageKey = rec.Key
	row.Link = rec.Link
	return nil
}

func (s *Store) Species(ctx context.Context, id int) (taxon.Species, bool, error) {
	var row schema.Species
	ok, err := found(s.db.WithContext(ctx).Take(&row, id).Error)
	if err != nil {
		return taxon.Species{}, false, ReadError("species", err)
	}
	return toSpecies(row), ok, nil
}

func (s *Store) SpeciesByName(
	ctx context.Context,
	name string,
) (taxon.Species, bool, error) {
	var row schema.Species
	err := s.db.WithContext(ctx).
		Where("name_key = ?", taxon.NameKey(name)).
		Take(&row).Error
	ok, err := found(err)
	if err != nil {
		return taxon.Species{}, false, ReadError("species", err)
	}
	return toSpecies(row), ok, nil
}

func toSpecies(row schema.Species) taxon.Species {
	return taxon.Species{
		ID:             row.ID,
		ScientificName: row.ScientificName,
		Kingdom:        row.Kingdom,
		GenusID:        row.GenusID,
		UsageKey:       row.UsageKey,
		Authorship:     row.Authorship,
		Link:           row.Link,
	}
}

func (s *Store) AddCommonNames(
	ctx context.Context,
	speciesID int,
	names []taxon.CommonName,
) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&schema.Species{}).
			Where("id = ?", speciesID).
			Count(&count).Error
		if err != nil || count == 0 {
			return err
		}
		return addCommonNames(tx, speciesID, names)
	})
	if err != nil {
		return WriteError("common names", err)
	}
	return nil
}

func addCommonNames(tx *gorm.DB, speciesID int, names []taxon.CommonName) error {
	if len(names) == 0 {
		return nil
	}

	var seq int
	err := tx.Model(&schema.CommonName{}).
		Where("species_id = ?", speciesID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&seq).Error
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(names))
	for _, cn := range names {
		key := taxon.NameKey(cn.Name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		seq++
		row := schema.CommonName{
			ID:        taxon.CommonNameID(speciesID, cn.Name),
			SpeciesID: speciesID,
			Name:      cn.Name,
			NameKey:   key,
			Source:    cn.Source,
			Language:  cn.Language,
			Preferred: cn.Preferred,
			Seq:       seq,
		}
		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) CommonNames(
	ctx context.Context,
	speciesID int,
) ([]taxon.CommonName, error) {
	rows, err := commonNames(s.db.WithContext(ctx), speciesID)
	if err != nil {
		return nil, ReadError("common names", err)
	}
	res := make([]taxon.CommonName, len(rows))
	for i, v := range rows {
		res[i] = taxon.CommonName{
			ID:        v.ID,
			SpeciesID: v.SpeciesID,
			Name:      v.Name,
			Source:    v.Source,
			Language:  v.Language,
			Preferred: v.Preferred,
		}
	}
	return res, nil
}

func commonNames(tx *gorm.DB, speciesID int) ([]schema.CommonName, error) {
	var rows []schema.CommonName
	err := tx.Where("species_id = ?", speciesID).
		Order("seq, id").
		Find(&rows).Error
	return rows, err
}

func (s *Store) BuildTree(
	ctx context.Context,
	speciesID int,
) (taxon.Tree, bool, error) {
	db := s.db.WithContext(ctx)

	var sp schema.Species
	ok, err := found(db.Take(&sp, speciesID).Error)
	if err != nil {
		return taxon.Tree{}, false, ReadError("species", err)
	}
	if !ok {
		return taxon.Tree{}, false, nil
	}

	res := taxon.Tree{
		SpeciesID:   sp.ID,
		Species:     sp.ScientificName,
		CommonNames: []string{},
	}
	id := sp.GenusID
	for i := len(taxon.Ranks) - 1; i >= 0 && id != 0; i-- {
		rank := taxon.Ranks[i]
		var node schema.Node
		err = db.Table(schema.NodeTable(rank)).Take(&node, id).Error
		ok, err = found(err)
		if err != nil {
			return taxon.Tree{}, false, ReadError(rank.String(), err)
		}
		if !ok {
			break
		}
		res.SetRank(rank, node.Name)
		id = node.ParentID
	}

	names, err := commonNames(db, speciesID)
	if err != nil {
		return taxon.Tree{}, false, ReadError("common names", err)
	}
	for _, v := range names {
		res.CommonNames = append(res.CommonNames, v.Name)
	}
	return res, true, nil
}
