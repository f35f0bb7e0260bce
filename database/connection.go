// Package database provides database connection management for the
// bazaar-radar demand opportunity system.
//
// The connection layer uses GORM. PostgreSQL is the production backend;
// when no DATABASE_URL is configured the app falls back to a local SQLite
// file so development setups work without any infrastructure.
//
// Data models (User, TrackedKeyword, Alert, DemandSignal, AlertWebhook) are
// defined in the models_pkg package to avoid circular import dependencies
// with the per-domain repositories.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "bazaar-radar/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes a database connection. A non-empty dsn selects
// PostgreSQL; otherwise sqlitePath selects the SQLite fallback.
func Connect(dsn, sqlitePath string) (*Database, error) {
	var dialector gorm.Dialector
	if dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(sqlitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// InitSchema runs auto-migration for all persisted models.
func (d *Database) InitSchema() error {
	if err := d.db.AutoMigrate(
		&models.User{},
		&models.TrackedKeyword{},
		&models.Alert{},
		&models.DemandSignal{},
		&models.AlertWebhook{},
	); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
