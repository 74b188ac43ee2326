package repomanager

import (
	"context"
	"database/sql"

	"github.com/sprayworks/foamdesk/internal/dbx"
	"github.com/sprayworks/foamdesk/internal/server/repositories/accounts"
	"github.com/sprayworks/foamdesk/internal/server/repositories/customers"
	"github.com/sprayworks/foamdesk/internal/server/repositories/estimates"
	"github.com/sprayworks/foamdesk/internal/server/repositories/inventory"
	"github.com/sprayworks/foamdesk/internal/server/repositories/settings"
)

// RepositoryManager vends per-entity repositories bound to a DBTX, so the
// same constructors serve both plain connections and transactions.
type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	Customers(db dbx.DBTX) customers.Repository
	Estimates(db dbx.DBTX) estimates.Repository
	Inventory(db dbx.DBTX) inventory.Repository
	Settings(db dbx.DBTX) settings.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
