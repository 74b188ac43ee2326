// Package accounts provides the PostgreSQL-backed repository for account
// rows. The application runs single-tenant: resolution picks any existing
// row, creating a default one on first use.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/dbx"
	"github.com/sprayworks/foamdesk/internal/server/models"
)

// PostgresRepository implements account storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// First returns any single account row, or common.ErrNotFound if the users
// table is empty.
func (r *PostgresRepository) First(ctx context.Context) (*models.Account, error) {
	query := `
		SELECT id, username, COALESCE(company_name, ''), created_at FROM users
		LIMIT 1
	`
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query).
		Scan(&account.ID, &account.Username, &account.CompanyName, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// GetByUsername returns the account with the given username, or
// common.ErrNotFound.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `
		SELECT id, username, COALESCE(company_name, ''), created_at FROM users
		WHERE username = $1
	`
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&account.ID, &account.Username, &account.CompanyName, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// Create inserts a new account row and fills in the generated id.
// Username uniqueness is enforced by the store.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO users (username, password_hash, company_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.PasswordHash, account.CompanyName).Scan(&account.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}
