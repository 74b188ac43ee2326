// Package services contains server-side business logic: account resolution,
// entity operations with fail-soft reads, and whole-account bulk operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/logging"
	"github.com/sprayworks/foamdesk/internal/server/auth"
	"github.com/sprayworks/foamdesk/internal/server/config"
	"github.com/sprayworks/foamdesk/internal/server/models"
	"github.com/sprayworks/foamdesk/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultUsername = "demo_user"
	defaultPassword = "demo_password"
	defaultCompany  = "Demo Company"
)

// AccountService resolves the single active account, creating a default one
// on first use. It is the scoping source for every repository call.
//
// Demo-mode simplification: the default account carries placeholder
// credentials. A production deployment must put real authentication in
// front of this before any persistence happens.
type AccountService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	config *config.Config
	logger logging.Logger
}

// NewAccountService constructs an AccountService. db may be nil when the
// DSN was never configured; every operation then degrades instead of
// panicking.
func NewAccountService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AccountService {
	return &AccountService{db: db, rm: rm, config: cfg, logger: logger}
}

// ActiveAccountID returns the identifier of the single active account,
// inserting the default account row if none exists yet. Two concurrent
// cold-start callers may race on that insert; username uniqueness makes the
// loser fail, and it falls back to re-selecting the winner's row.
func (s *AccountService) ActiveAccountID(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", common.ErrConfigMissing
	}
	repo := s.rm.Accounts(s.db)

	account, err := repo.First(ctx)
	if err == nil {
		return account.ID, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error(ctx, "error resolving active account", "error", err)
		return "", err
	}

	created, err := repo.Create(ctx, &models.Account{
		Username:     defaultUsername,
		PasswordHash: placeholderHash(),
		CompanyName:  defaultCompany,
	})
	if err == nil {
		return created.ID, nil
	}

	// Lost the cold-start race: someone else inserted the default row.
	if account, e := repo.First(ctx); e == nil {
		return account.ID, nil
	}
	s.logger.Error(ctx, "error creating default account", "error", err)
	return "", err
}

// CurrentUser returns the session view of the active account, or nil when
// no account exists yet.
func (s *AccountService) CurrentUser(ctx context.Context) (*models.SessionUser, error) {
	if s.db == nil {
		return nil, common.ErrConfigMissing
	}
	account, err := s.rm.Accounts(s.db).First(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error(ctx, "error fetching current user", "error", err)
		return nil, err
	}
	return &models.SessionUser{Username: account.Username, Company: account.CompanyName}, nil
}

// Login ensures an account exists for username (creating one with
// placeholder credentials if needed) and mints a session token for it.
func (s *AccountService) Login(ctx context.Context, username, company string) (string, *models.SessionUser, error) {
	if s.db == nil {
		return "", nil, common.ErrConfigMissing
	}
	repo := s.rm.Accounts(s.db)

	account, err := repo.GetByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		account, err = repo.Create(ctx, &models.Account{
			Username:     username,
			PasswordHash: placeholderHash(),
			CompanyName:  company,
		})
	}
	if err != nil {
		return "", nil, fmt.Errorf("login error: %w", err)
	}

	token, err := auth.GenerateToken(account.ID, []byte(s.config.SecretKey), s.config.TokenValidityDuration)
	if err != nil {
		return "", nil, fmt.Errorf("token error: %w", err)
	}
	return token, &models.SessionUser{Username: account.Username, Company: account.CompanyName}, nil
}

// placeholderHash returns a bcrypt hash of the demo password. Cost stays at
// the default; these credentials never guard real data.
func placeholderHash() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on invalid cost; unreachable with DefaultCost.
		return ""
	}
	return string(hash)
}
