// Package ioschema creates and migrates tables of the SQL store with
// gorm AutoMigrate.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/gnspecies/pkg/schema"
	"gorm.io/gorm"
)

// Manager creates or updates the database schema.
type Manager struct {
	db *gorm.DB
}

// NewManager creates a Manager for a gorm connection.
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Create creates all tables and their unique indexes. Existing tables
// are kept, gorm only adds what is missing.
func (m *Manager) Create(ctx context.Context) error {
	if m.db == nil {
		return NotConnectedError()
	}
	if err := schema.Migrate(m.db.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}
	slog.Info("Database schema is created", "tables", len(schema.Tables()))
	return nil
}

// Migrate updates schema to the current models.
func (m *Manager) Migrate(ctx context.Context) error {
	if m.db == nil {
		return NotConnectedError()
	}
	if err := schema.Migrate(m.db.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}
	return nil
}
