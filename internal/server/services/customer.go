package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/sprayworks/foamdesk/internal/logging"
	"github.com/sprayworks/foamdesk/internal/server/models"
	"github.com/sprayworks/foamdesk/internal/server/repositories/repomanager"
)

// CustomerService exposes account-scoped customer operations. Reads fail
// soft: any resolution or query failure is logged and surfaced as an empty
// list, never as an error crossing to the presentation layer.
type CustomerService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	resolver *AccountService
	logger   logging.Logger
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(db *sql.DB, rm repomanager.RepositoryManager, resolver *AccountService, logger logging.Logger) *CustomerService {
	return &CustomerService{db: db, rm: rm, resolver: resolver, logger: logger}
}

// List returns all customers for the active account, newest first. Without
// a resolvable account the result is empty.
func (s *CustomerService) List(ctx context.Context) []models.Customer {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return []models.Customer{}
	}
	result, err := s.rm.Customers(s.db).SelectByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error(ctx, "error fetching customers", "error", err)
		return []models.Customer{}
	}
	if result == nil {
		result = []models.Customer{}
	}
	return result
}

// Save upserts a customer under the active account. The id must be assigned
// by the caller; a missing creation timestamp is filled in.
func (s *CustomerService) Save(ctx context.Context, customer *models.Customer) error {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return err
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	return s.rm.Customers(s.db).Upsert(ctx, accountID, customer)
}

// Delete removes a customer by id. Estimates referencing it keep their
// customer_id and render as "Unknown" downstream.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if _, err := s.resolver.ActiveAccountID(ctx); err != nil {
		return err
	}
	return s.rm.Customers(s.db).Delete(ctx, id)
}
