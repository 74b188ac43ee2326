// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors, connection setup, and database
// migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/dbx"
	"github.com/sprayworks/foamdesk/internal/server/migrations"
	"github.com/sprayworks/foamdesk/internal/server/repositories/accounts"
	"github.com/sprayworks/foamdesk/internal/server/repositories/customers"
	"github.com/sprayworks/foamdesk/internal/server/repositories/estimates"
	"github.com/sprayworks/foamdesk/internal/server/repositories/inventory"
	"github.com/sprayworks/foamdesk/internal/server/repositories/settings"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Open resolves a database handle from the configured DSN. No query runs at
// this stage; sql.Open is lazy. An empty DSN yields ErrConfigMissing so the
// caller can log and degrade instead of terminating.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, common.ErrConfigMissing
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Customers returns a customers.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Customers(db dbx.DBTX) customers.Repository {
	return customers.NewPostgresRepository(db)
}

// Estimates returns an estimates.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Estimates(db dbx.DBTX) estimates.Repository {
	return estimates.NewPostgresRepository(db)
}

// Inventory returns an inventory.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Inventory(db dbx.DBTX) inventory.Repository {
	return inventory.NewPostgresRepository(db)
}

// Settings returns a settings.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
