package customers

import (
	"context"

	"github.com/sprayworks/foamdesk/internal/server/models"
)

type Repository interface {
	SelectByAccount(ctx context.Context, accountID string) ([]models.Customer, error)
	Upsert(ctx context.Context, accountID string, customer *models.Customer) error
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
