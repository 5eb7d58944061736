package datastore

import (
	"path/filepath"

	"github.com/wildsnap/wildsnap-go/internal/conf"
	"github.com/wildsnap/wildsnap-go/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteStore implements the datastore Interface for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

// Open sets up the SQLite database connection and runs migrations.
func (store *SQLiteStore) Open() error {
	path := store.Settings.Output.SQLite.Path
	if path == "" {
		return errors.Newf("sqlite path is not configured").
			Category(errors.CategoryConfiguration).
			Component("datastore").
			Build()
	}

	// Keep relative paths relative to the working directory
	if !filepath.IsAbs(path) && path != ":memory:" {
		path = filepath.Clean(path)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: createGormLogger()})
	if err != nil {
		return errors.Newf("failed to open SQLite database: %w", err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("path", path).
			Build()
	}

	// An in-memory database exists per connection, so the pool must be
	// capped at one to keep every query on the same database.
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return dbError(err, "configure connection pool")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "SQLite", path)
}

// Close closes the underlying SQLite database connection.
func (store *SQLiteStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return dbError(err, "close")
	}
	return sqlDB.Close()
}
