// Package settings provides the PostgreSQL-backed repository for the
// per-account configuration singleton, plus the codec that splits the flat
// settings record across the two normalized JSON columns.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/dbx"
)

// PostgresRepository implements settings storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). At most one row exists per account.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the raw company-profile and pricing JSON groups for accountID,
// or common.ErrNotFound if no row has been saved yet.
func (r *PostgresRepository) Get(ctx context.Context, accountID string) (json.RawMessage, json.RawMessage, error) {
	query := `
		SELECT company_details, pricing_config
		FROM settings
		WHERE user_id = $1
	`
	var company, pricing []byte
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&company, &pricing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	return json.RawMessage(company), json.RawMessage(pricing), nil
}

// Put writes both JSON groups as one upsert keyed on the account id, fully
// replacing prior content and refreshing updated_at.
func (r *PostgresRepository) Put(ctx context.Context, accountID string, company, pricing json.RawMessage) error {
	query := `
		INSERT INTO settings (user_id, company_details, pricing_config)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET
			company_details = EXCLUDED.company_details,
			pricing_config = EXCLUDED.pricing_config,
			updated_at = CURRENT_TIMESTAMP;
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, []byte(company), []byte(pricing)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
