package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/dbx"
	"github.com/sprayworks/foamdesk/internal/logging"
	"github.com/sprayworks/foamdesk/internal/server/config"
	"github.com/sprayworks/foamdesk/internal/server/models"
	"github.com/sprayworks/foamdesk/internal/server/repositories/accounts"
	"github.com/sprayworks/foamdesk/internal/server/repositories/customers"
	"github.com/sprayworks/foamdesk/internal/server/repositories/estimates"
	"github.com/sprayworks/foamdesk/internal/server/repositories/inventory"
	"github.com/sprayworks/foamdesk/internal/server/repositories/settings"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeAccountsRepo struct {
	mu   sync.Mutex
	rows []*models.Account
	seq  int

	firstErr  error
	createErr error
	// beforeCreateFail simulates a concurrent insert landing between the
	// empty First and the failing Create.
	beforeCreateFail func(f *fakeAccountsRepo)
}

func (f *fakeAccountsRepo) First(ctx context.Context) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.firstErr != nil {
		return nil, f.firstErr
	}
	if len(f.rows) == 0 {
		return nil, common.ErrNotFound
	}
	return f.rows[0], nil
}

func (f *fakeAccountsRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeAccountsRepo) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		if f.beforeCreateFail != nil {
			f.beforeCreateFail(f)
		}
		return nil, f.createErr
	}
	f.seq++
	account.ID = fmt.Sprintf("acct-%d", f.seq)
	f.rows = append(f.rows, account)
	return account, nil
}

// insertLocked is for beforeCreateFail hooks, which run with mu held.
func (f *fakeAccountsRepo) insertLocked(account *models.Account) {
	f.seq++
	account.ID = fmt.Sprintf("acct-%d", f.seq)
	f.rows = append(f.rows, account)
}

type fakeCustomersRepo struct {
	mu             sync.Mutex
	byAccount      map[string][]models.Customer
	selectErr      error
	failOnUpsertID string
	deletedAll     []string
}

func (f *fakeCustomersRepo) SelectByAccount(ctx context.Context, accountID string) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return append([]models.Customer(nil), f.byAccount[accountID]...), nil
}

func (f *fakeCustomersRepo) Upsert(ctx context.Context, accountID string, c *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == f.failOnUpsertID && f.failOnUpsertID != "" {
		return fmt.Errorf("db error: forced failure")
	}
	if f.byAccount == nil {
		f.byAccount = map[string][]models.Customer{}
	}
	for i, existing := range f.byAccount[accountID] {
		if existing.ID == c.ID {
			f.byAccount[accountID][i] = *c
			return nil
		}
	}
	f.byAccount[accountID] = append(f.byAccount[accountID], *c)
	return nil
}

func (f *fakeCustomersRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for acct, list := range f.byAccount {
		for i, c := range list {
			if c.ID == id {
				f.byAccount[acct] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (f *fakeCustomersRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedAll = append(f.deletedAll, accountID)
	delete(f.byAccount, accountID)
	return nil
}

type fakeEstimatesRepo struct {
	mu         sync.Mutex
	byAccount  map[string][]models.Estimate
	deleteErr  error
	deletedAll []string
	upserts    int
}

func (f *fakeEstimatesRepo) SelectByAccount(ctx context.Context, accountID string) ([]models.Estimate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Estimate(nil), f.byAccount[accountID]...), nil
}

func (f *fakeEstimatesRepo) Upsert(ctx context.Context, accountID string, e *models.Estimate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.byAccount == nil {
		f.byAccount = map[string][]models.Estimate{}
	}
	for i, existing := range f.byAccount[accountID] {
		if existing.ID == e.ID {
			f.byAccount[accountID][i] = *e
			return nil
		}
	}
	f.byAccount[accountID] = append(f.byAccount[accountID], *e)
	return nil
}

func (f *fakeEstimatesRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for acct, list := range f.byAccount {
		for i, e := range list {
			if e.ID == id {
				f.byAccount[acct] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (f *fakeEstimatesRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedAll = append(f.deletedAll, accountID)
	delete(f.byAccount, accountID)
	return nil
}

type fakeInventoryRepo struct {
	mu         sync.Mutex
	byAccount  map[string][]models.InventoryItem
	upserts    int
	deletedAll []string
}

func (f *fakeInventoryRepo) SelectByAccount(ctx context.Context, accountID string) ([]models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.InventoryItem(nil), f.byAccount[accountID]...), nil
}

func (f *fakeInventoryRepo) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byAccount[accountID])), nil
}

func (f *fakeInventoryRepo) Upsert(ctx context.Context, accountID string, item *models.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.byAccount == nil {
		f.byAccount = map[string][]models.InventoryItem{}
	}
	for i, existing := range f.byAccount[accountID] {
		if existing.ID == item.ID {
			f.byAccount[accountID][i] = *item
			return nil
		}
	}
	f.byAccount[accountID] = append(f.byAccount[accountID], *item)
	return nil
}

func (f *fakeInventoryRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for acct, list := range f.byAccount {
		for i, item := range list {
			if item.ID == id {
				f.byAccount[acct] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (f *fakeInventoryRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedAll = append(f.deletedAll, accountID)
	delete(f.byAccount, accountID)
	return nil
}

type settingsRow struct {
	company json.RawMessage
	pricing json.RawMessage
}

type fakeSettingsRepo struct {
	mu        sync.Mutex
	byAccount map[string]settingsRow
	puts      int
}

func (f *fakeSettingsRepo) Get(ctx context.Context, accountID string) (json.RawMessage, json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.byAccount[accountID]
	if !ok {
		return nil, nil, common.ErrNotFound
	}
	return row.company, row.pricing, nil
}

func (f *fakeSettingsRepo) Put(ctx context.Context, accountID string, company, pricing json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.byAccount == nil {
		f.byAccount = map[string]settingsRow{}
	}
	f.byAccount[accountID] = settingsRow{company: company, pricing: pricing}
	return nil
}

// fakeRepoManager hands back the same fakes for any DBTX, so transaction
// scoped calls land on the same in-memory state.
type fakeRepoManager struct {
	accounts  *fakeAccountsRepo
	customers *fakeCustomersRepo
	estimates *fakeEstimatesRepo
	inventory *fakeInventoryRepo
	settings  *fakeSettingsRepo
}

func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository    { return m.accounts }
func (m *fakeRepoManager) Customers(dbx.DBTX) customers.Repository  { return m.customers }
func (m *fakeRepoManager) Estimates(dbx.DBTX) estimates.Repository  { return m.estimates }
func (m *fakeRepoManager) Inventory(dbx.DBTX) inventory.Repository  { return m.inventory }
func (m *fakeRepoManager) Settings(dbx.DBTX) settings.Repository    { return m.settings }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// harness wires every service over shared fakes and a mock connection.
type harness struct {
	db   *sql.DB
	mock sqlmock.Sqlmock
	rm   *fakeRepoManager
	cfg  *config.Config

	account   *AccountService
	customers *CustomerService
	estimates *EstimateService
	inventory *InventoryService
	settings  *SettingsService
	backup    *BackupService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	rm := &fakeRepoManager{
		accounts:  &fakeAccountsRepo{},
		customers: &fakeCustomersRepo{},
		estimates: &fakeEstimatesRepo{},
		inventory: &fakeInventoryRepo{},
		settings:  &fakeSettingsRepo{},
	}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	logger := nopLogger{}

	h := &harness{db: db, mock: mock, rm: rm, cfg: cfg}
	h.account = NewAccountService(db, rm, cfg, logger)
	h.customers = NewCustomerService(db, rm, h.account, logger)
	h.estimates = NewEstimateService(db, rm, h.account, logger)
	h.inventory = NewInventoryService(db, rm, h.account, logger)
	h.settings = NewSettingsService(db, rm, h.account, logger)
	h.backup = NewBackupService(db, rm, h.account, h.customers, h.estimates, h.inventory, h.settings, cfg, logger)
	return h
}
