// Package database opens the ticket store connection for the configured
// driver and brings its schema up to date.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"instapic-ticketing/internal/config"
	"instapic-ticketing/internal/database/migrations"
	"instapic-ticketing/internal/logger"
	ticket_db "instapic-ticketing/internal/tickets/db"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	connectRetries = 5
	retryDelay     = 2 * time.Second
)

// Open connects to the store, retrying while the database comes up.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	switch cfg.Driver {
	case DriverSQLite:
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// sqlite allows a single writer
		sqldb.SetMaxOpenConns(1)
		if err := sqldb.PingContext(ctx); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		log.Info("DATABASE", fmt.Sprintf("SQLite store opened at %s", cfg.DSN))
		return bun.NewDB(sqldb, sqlitedialect.New()), nil

	case DriverPostgres:
		sqldb, err := connectPostgres(ctx, cfg.DSN, log)
		if err != nil {
			return nil, err
		}
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
		return bun.NewDB(sqldb, pgdialect.New()), nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func connectPostgres(ctx context.Context, dsn string, log *logger.Logger) (*sql.DB, error) {
	var lastErr error
	for i := 0; i < connectRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, connectRetries))

		sqldb, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = sqldb.PingContext(ctx); err == nil {
				log.Info("DATABASE", "PostgreSQL connection successful")
				return sqldb, nil
			}
			sqldb.Close()
		}

		lastErr = err
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < connectRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", connectRetries, lastErr)
}

// Migrate applies the embedded SQL migrations on postgres and creates the
// table directly on sqlite.
func Migrate(ctx context.Context, cfg config.DatabaseConfig, bunDB *bun.DB, log *logger.Logger) error {
	if cfg.Driver == DriverSQLite {
		store := &ticket_db.DB{Bun: bunDB}
		if err := store.CreateSchema(ctx); err != nil {
			return err
		}
		log.LogDatabase("MIGRATE", "tickets", "SQLite schema ensured")
		return nil
	}

	runner, err := NewMigrationRunner(cfg, log)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.MigrateUp()
}

// NewMigrationRunner opens the dedicated connection golang-migrate owns.
func NewMigrationRunner(cfg config.DatabaseConfig, log *logger.Logger) (*migrations.Runner, error) {
	if cfg.Driver != DriverPostgres {
		return nil, fmt.Errorf("migrations require the postgres driver, got %q", cfg.Driver)
	}
	sqldb, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}
	return migrations.NewRunner(sqldb, log), nil
}
