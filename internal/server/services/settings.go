package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/logging"
	"github.com/sprayworks/foamdesk/internal/server/models"
	"github.com/sprayworks/foamdesk/internal/server/repositories/repomanager"
	"github.com/sprayworks/foamdesk/internal/server/repositories/settings"
)

// SettingsService loads and saves the per-account configuration singleton,
// applying the split/merge codec between the flat record and the two
// persisted JSON groups.
type SettingsService struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	resolver *AccountService
	logger   logging.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(db *sql.DB, rm repomanager.RepositoryManager, resolver *AccountService, logger logging.Logger) *SettingsService {
	return &SettingsService{db: db, rm: rm, resolver: resolver, logger: logger}
}

// Load returns the merged settings for the active account: built-in
// defaults overlaid by the persisted company profile, overlaid by the
// persisted pricing group. Missing account or missing row both yield the
// defaults.
func (s *SettingsService) Load(ctx context.Context) models.Settings {
	defaults := models.DefaultSettings()

	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return defaults
	}
	company, pricing, err := s.rm.Settings(s.db).Get(ctx, accountID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "error fetching settings", "error", err)
		}
		return defaults
	}
	merged, err := settings.Merge(defaults, company, pricing)
	if err != nil {
		s.logger.Error(ctx, "error merging settings", "error", err)
		return defaults
	}
	return merged
}

// Save splits the flat record into the two fixed JSON groups and writes
// both as one upsert, fully replacing prior content. Fields outside the two
// groups are dropped.
func (s *SettingsService) Save(ctx context.Context, value models.Settings) error {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return err
	}
	company, pricing, err := settings.Split(value)
	if err != nil {
		return err
	}
	return s.rm.Settings(s.db).Put(ctx, accountID, company, pricing)
}
