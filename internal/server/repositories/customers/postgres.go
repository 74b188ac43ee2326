// Package customers provides the PostgreSQL-backed repository for customer
// records, scoped to one account.
package customers

import (
	"context"
	"fmt"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/dbx"
	"github.com/sprayworks/foamdesk/internal/server/models"
)

// PostgresRepository implements customer storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectByAccount returns all customers for accountID, newest first.
func (r *PostgresRepository) SelectByAccount(ctx context.Context, accountID string) ([]models.Customer, error) {
	query := `
		SELECT id, name, COALESCE(company_name, ''), COALESCE(email, ''), COALESCE(phone, ''),
			COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip, ''),
			COALESCE(notes, ''), created_at
		FROM customers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select customers: %w", err)
	}
	defer rows.Close()

	var result []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.CompanyName, &c.Email, &c.Phone,
			&c.Address, &c.City, &c.State, &c.Zip, &c.Notes, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert inserts a customer keyed by its caller-generated id, or overwrites
// every mutable field if the id already exists. Account scoping and the
// creation timestamp are never touched on update. If the conflicting row
// belongs to another account, no row is updated and ErrOwnership is returned.
func (r *PostgresRepository) Upsert(ctx context.Context, accountID string, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, user_id, name, company_name, email, phone, address, city, state, zip, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, COALESCE($12, CURRENT_TIMESTAMP))
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			company_name = EXCLUDED.company_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip = EXCLUDED.zip,
			notes = EXCLUDED.notes
			WHERE customers.user_id = EXCLUDED.user_id;
	`
	var createdAt any
	if !customer.CreatedAt.IsZero() {
		createdAt = customer.CreatedAt
	}
	res, err := r.db.ExecContext(ctx, query,
		customer.ID, accountID, customer.Name, customer.CompanyName, customer.Email, customer.Phone,
		customer.Address, customer.City, customer.State, customer.Zip, customer.Notes, createdAt)
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

// Delete removes the customer with the given id outright. Referencing
// estimates keep their dangling customer_id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM customers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByAccount removes every customer owned by accountID.
func (r *PostgresRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM customers WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
