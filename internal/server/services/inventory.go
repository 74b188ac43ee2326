package services

import (
	"context"
	"database/sql"

	"github.com/sprayworks/foamdesk/internal/logging"
	"github.com/sprayworks/foamdesk/internal/server/models"
	"github.com/sprayworks/foamdesk/internal/server/repositories/repomanager"
)

// InventoryService exposes account-scoped inventory operations. Fresh
// accounts are seeded with the built-in starter catalog once, explicitly,
// so plain repository reads stay side-effect free.
type InventoryService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	resolver *AccountService
	logger   logging.Logger
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(db *sql.DB, rm repomanager.RepositoryManager, resolver *AccountService, logger logging.Logger) *InventoryService {
	return &InventoryService{db: db, rm: rm, resolver: resolver, logger: logger}
}

// EnsureSeeded upserts the starter catalog for the active account if it has
// zero inventory rows. Each starter item carries a fixed identifier, so
// repeating the call updates in place instead of duplicating. Safe to call
// on every startup.
func (s *InventoryService) EnsureSeeded(ctx context.Context) error {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return err
	}
	return s.ensureSeededFor(ctx, accountID)
}

func (s *InventoryService) ensureSeededFor(ctx context.Context, accountID string) error {
	repo := s.rm.Inventory(s.db)

	n, err := repo.CountByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// One upsert per item, matching record-granularity semantics elsewhere.
	for _, item := range models.StarterCatalog() {
		if err := repo.Upsert(ctx, accountID, &item); err != nil {
			return err
		}
	}
	s.logger.Info(ctx, "seeded starter inventory catalog", "account_id", accountID)
	return nil
}

// List returns all inventory items for the active account, seeding the
// starter catalog first when the account is fresh. Without a resolvable
// account the result is empty.
func (s *InventoryService) List(ctx context.Context) []models.InventoryItem {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return []models.InventoryItem{}
	}
	if err := s.ensureSeededFor(ctx, accountID); err != nil {
		s.logger.Error(ctx, "error seeding inventory", "error", err)
	}
	result, err := s.rm.Inventory(s.db).SelectByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error(ctx, "error fetching inventory", "error", err)
		return []models.InventoryItem{}
	}
	if result == nil {
		result = []models.InventoryItem{}
	}
	return result
}

// Save upserts an inventory item under the active account, refreshing its
// last-modified timestamp.
func (s *InventoryService) Save(ctx context.Context, item *models.InventoryItem) error {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return err
	}
	return s.rm.Inventory(s.db).Upsert(ctx, accountID, item)
}

// Delete removes an inventory item by id.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.resolver.ActiveAccountID(ctx); err != nil {
		return err
	}
	return s.rm.Inventory(s.db).Delete(ctx, id)
}
