// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping for Postgres
// (the production store) and SQLite (pure Go driver, used for development
// and tests), plus schema migrations.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/arielbeck/go-halakha-backend/internal/config"
	"github.com/arielbeck/go-halakha-backend/internal/domain"
)

// Open connects to the configured database. Postgres DSNs go through pgx;
// anything configured with the sqlite driver opens a local file. When tracing
// is enabled the GORM OTel plugin is attached so queries show up as spans.
func Open(dbCfg config.DBConfig, otelEnabled bool) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch dbCfg.Driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dbCfg.DSN), &gorm.Config{})
	case "sqlite":
		db, err = OpenSQLite(dbCfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", dbCfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if otelEnabled {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	return db, nil
}

// AutoMigrate creates or updates the schema for all domain models, join
// tables included.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Source{},
		&domain.Question{},
		&domain.Answer{},
		&domain.Tag{},
		&domain.Theme{},
		&domain.Halakha{},
		&domain.PublishRecord{},
	)
}
