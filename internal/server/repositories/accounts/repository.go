package accounts

import (
	"context"

	"github.com/sprayworks/foamdesk/internal/server/models"
)

type Repository interface {
	First(ctx context.Context) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
}
