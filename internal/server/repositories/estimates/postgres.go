// Package estimates provides the PostgreSQL-backed repository for job
// estimates, scoped to one account. The calculation payload and line-item
// sequence are stored as JSON and round-tripped verbatim.
package estimates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/dbx"
	"github.com/sprayworks/foamdesk/internal/server/models"
)

// PostgresRepository implements estimate storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectByAccount returns all estimates for accountID ordered by issue date,
// newest first.
func (r *PostgresRepository) SelectByAccount(ctx context.Context, accountID string) ([]models.Estimate, error) {
	query := `
		SELECT id, number, COALESCE(customer_id::text, ''), date, status,
			COALESCE(job_name, ''), COALESCE(job_address, ''), location, images,
			calc_data,
			COALESCE(total_board_feet_open, 0), COALESCE(total_board_feet_closed, 0),
			COALESCE(sets_required_open, 0), COALESCE(sets_required_closed, 0),
			items, subtotal, tax, total, COALESCE(notes, ''), created_at
		FROM estimates
		WHERE user_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select estimates: %w", err)
	}
	defer rows.Close()

	var result []models.Estimate
	for rows.Next() {
		var e models.Estimate
		var location, images, calcData, items []byte
		if err := rows.Scan(
			&e.ID, &e.Number, &e.CustomerID, &e.Date, &e.Status,
			&e.JobName, &e.JobAddress, &location, &images,
			&calcData,
			&e.TotalBoardFeetOpen, &e.TotalBoardFeetClosed,
			&e.SetsRequiredOpen, &e.SetsRequiredClosed,
			&items, &e.Subtotal, &e.Tax, &e.Total, &e.Notes, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.Location = json.RawMessage(location)
		e.Images = json.RawMessage(images)
		e.CalcData = json.RawMessage(calcData)
		e.Items = json.RawMessage(items)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert inserts an estimate keyed by its caller-generated id, or replaces
// every field except id, account scoping and creation timestamp if the id
// already exists. Status is stored as given; transition policy belongs to
// the caller. If the conflicting row belongs to another account, no row is
// updated and ErrOwnership is returned.
func (r *PostgresRepository) Upsert(ctx context.Context, accountID string, estimate *models.Estimate) error {
	query := `
		INSERT INTO estimates (
			id, user_id, customer_id, number, date, status,
			job_name, job_address, location, images,
			calc_data,
			total_board_feet_open, total_board_feet_closed,
			sets_required_open, sets_required_closed,
			items, subtotal, tax, total, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id)
		DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			number = EXCLUDED.number,
			date = EXCLUDED.date,
			status = EXCLUDED.status,
			job_name = EXCLUDED.job_name,
			job_address = EXCLUDED.job_address,
			location = EXCLUDED.location,
			images = EXCLUDED.images,
			calc_data = EXCLUDED.calc_data,
			total_board_feet_open = EXCLUDED.total_board_feet_open,
			total_board_feet_closed = EXCLUDED.total_board_feet_closed,
			sets_required_open = EXCLUDED.sets_required_open,
			sets_required_closed = EXCLUDED.sets_required_closed,
			items = EXCLUDED.items,
			subtotal = EXCLUDED.subtotal,
			tax = EXCLUDED.tax,
			total = EXCLUDED.total,
			notes = EXCLUDED.notes
			WHERE estimates.user_id = EXCLUDED.user_id;
	`
	var customerID any
	if estimate.CustomerID != "" {
		customerID = estimate.CustomerID
	}
	res, err := r.db.ExecContext(ctx, query,
		estimate.ID, accountID, customerID, estimate.Number, estimate.Date, estimate.Status,
		estimate.JobName, estimate.JobAddress, jsonOrNull(estimate.Location), jsonOrNull(estimate.Images),
		jsonOrDefault(estimate.CalcData, "{}"),
		estimate.TotalBoardFeetOpen, estimate.TotalBoardFeetClosed,
		estimate.SetsRequiredOpen, estimate.SetsRequiredClosed,
		jsonOrDefault(estimate.Items, "[]"), estimate.Subtotal, estimate.Tax, estimate.Total, estimate.Notes)
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

// Delete removes the estimate with the given id outright.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM estimates WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByAccount removes every estimate owned by accountID.
func (r *PostgresRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM estimates WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// jsonOrNull passes an optional JSON blob through as-is, mapping an empty
// payload to SQL NULL.
func jsonOrNull(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// jsonOrDefault substitutes a fallback document for NOT NULL JSON columns.
func jsonOrDefault(raw json.RawMessage, fallback string) []byte {
	if len(raw) == 0 {
		return []byte(fallback)
	}
	return []byte(raw)
}
