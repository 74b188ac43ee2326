package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/sprayworks/foamdesk/internal/logging"
	"github.com/sprayworks/foamdesk/internal/server/models"
	"github.com/sprayworks/foamdesk/internal/server/repositories/repomanager"
)

// UnknownCustomerName is what consumers render when an estimate references
// a customer that no longer exists.
const UnknownCustomerName = "Unknown"

// EstimateService exposes account-scoped estimate operations. The opaque
// calculation payload and line items pass through this layer untouched.
type EstimateService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	resolver *AccountService
	logger   logging.Logger
}

// NewEstimateService constructs an EstimateService.
func NewEstimateService(db *sql.DB, rm repomanager.RepositoryManager, resolver *AccountService, logger logging.Logger) *EstimateService {
	return &EstimateService{db: db, rm: rm, resolver: resolver, logger: logger}
}

// List returns all estimates for the active account ordered by issue date,
// newest first. Without a resolvable account the result is empty.
func (s *EstimateService) List(ctx context.Context) []models.Estimate {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return []models.Estimate{}
	}
	result, err := s.rm.Estimates(s.db).SelectByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error(ctx, "error fetching estimates", "error", err)
		return []models.Estimate{}
	}
	if result == nil {
		result = []models.Estimate{}
	}
	return result
}

// Save upserts an estimate under the active account. Status is stored as
// given without transition checks. A missing issue date defaults to now.
func (s *EstimateService) Save(ctx context.Context, estimate *models.Estimate) error {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return err
	}
	if estimate.Date.IsZero() {
		estimate.Date = time.Now().UTC()
	}
	if estimate.Status == "" {
		estimate.Status = models.StatusDraft
	}
	return s.rm.Estimates(s.db).Upsert(ctx, accountID, estimate)
}

// Delete removes an estimate by id.
func (s *EstimateService) Delete(ctx context.Context, id string) error {
	if _, err := s.resolver.ActiveAccountID(ctx); err != nil {
		return err
	}
	return s.rm.Estimates(s.db).Delete(ctx, id)
}

// CustomerName resolves the display name for an estimate's customer
// reference, falling back to UnknownCustomerName on a dangling id.
func CustomerName(estimate models.Estimate, customers []models.Customer) string {
	if estimate.CustomerID == "" {
		return UnknownCustomerName
	}
	for _, c := range customers {
		if c.ID == estimate.CustomerID {
			return c.Name
		}
	}
	return UnknownCustomerName
}
