package inventory

import (
	"context"

	"github.com/sprayworks/foamdesk/internal/server/models"
)

type Repository interface {
	SelectByAccount(ctx context.Context, accountID string) ([]models.InventoryItem, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
	Upsert(ctx context.Context, accountID string, item *models.InventoryItem) error
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
