package estimates

import (
	"context"

	"github.com/sprayworks/foamdesk/internal/server/models"
)

type Repository interface {
	SelectByAccount(ctx context.Context, accountID string) ([]models.Estimate, error)
	Upsert(ctx context.Context, accountID string, estimate *models.Estimate) error
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
