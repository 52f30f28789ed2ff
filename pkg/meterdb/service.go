// MeterDB stores cumulative feed standings and the power derived from them.
// Timestamps are kept as Unix seconds, so sub-second precision is dropped.
package meterdb

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/NotCoffee418/dbmigrator"
	"github.com/NotCoffee418/household_power/pkg/pathing"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type MeterDB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open creates or opens the database at path and applies pending migrations.
func Open(path string, logger zerolog.Logger) (*MeterDB, error) {
	if err := pathing.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// Apply migrations
	dbmigrator.SetDatabaseType(dbmigrator.SQLite)
	<-dbmigrator.MigrateUpCh(
		db,
		migrationFS,
		"migrations",
	)

	// MigrateUpCh does not report failures, check the schema is there
	var tables int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('energy_readings', 'power_readings')",
	).Scan(&tables)
	if err != nil {
		db.Close()
		return nil, err
	}
	if tables != 2 {
		db.Close()
		return nil, fmt.Errorf("meterdb: migrations not applied to %s", path)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	logger.Debug().Str("path", path).Msg("meter database ready")
	return &MeterDB{db: db, logger: logger}, nil
}

func (m *MeterDB) Close() error {
	return m.db.Close()
}
