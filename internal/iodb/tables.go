package iodb

import (
	"context"
	"slices"

	"github.com/gnames/gnspecies/pkg/schema"
)

// HasTables checks if any of gnspecies tables exist.
func (s *Store) HasTables(ctx context.Context) (bool, error) {
	tables, err := s.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return false, TableCheckError(err)
	}
	for _, v := range schema.Tables() {
		if slices.Contains(tables, v) {
			return true, nil
		}
	}
	return false, nil
}

// DropAllTables removes gnspecies tables, other tables stay intact.
func (s *Store) DropAllTables(ctx context.Context) error {
	m := s.db.WithContext(ctx).Migrator()
	for _, v := range schema.Tables() {
		if err := m.DropTable(v); err != nil {
			return DropTableError(v, err)
		}
	}
	return nil
}
