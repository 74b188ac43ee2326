// Package inventory provides the PostgreSQL-backed repository for stock
// records, scoped to one account.
package inventory

import (
	"context"
	"fmt"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/dbx"
	"github.com/sprayworks/foamdesk/internal/server/models"
)

// PostgresRepository implements inventory storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectByAccount returns all inventory items for accountID.
func (r *PostgresRepository) SelectByAccount(ctx context.Context, accountID string) ([]models.InventoryItem, error) {
	query := `
		SELECT id, name, category, quantity, unit, COALESCE(min_level, 0), updated_at
		FROM inventory
		WHERE user_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select inventory: %w", err)
	}
	defer rows.Close()

	var result []models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.Quantity, &item.Unit, &item.MinLevel, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountByAccount returns the number of inventory rows for accountID.
// A count of zero marks a fresh account eligible for catalog seeding.
func (r *PostgresRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	query := `SELECT COUNT(*) FROM inventory WHERE user_id = $1`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Upsert inserts an item keyed by its caller-generated id, or overwrites
// every mutable field if the id already exists, refreshing updated_at either
// way. If the conflicting row belongs to another account, no row is updated
// and ErrOwnership is returned.
func (r *PostgresRepository) Upsert(ctx context.Context, accountID string, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory (id, user_id, name, category, quantity, unit, min_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			quantity = EXCLUDED.quantity,
			unit = EXCLUDED.unit,
			min_level = EXCLUDED.min_level,
			updated_at = CURRENT_TIMESTAMP
			WHERE inventory.user_id = EXCLUDED.user_id;
	`
	res, err := r.db.ExecContext(ctx, query,
		item.ID, accountID, item.Name, item.Category, item.Quantity, item.Unit, item.MinLevel)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrOwnership
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// Delete removes the item with the given id outright.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM inventory WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByAccount removes every inventory item owned by accountID.
func (r *PostgresRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM inventory WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
