package settings

import (
	"context"
	"encoding/json"
)

type Repository interface {
	Get(ctx context.Context, accountID string) (company, pricing json.RawMessage, err error)
	Put(ctx context.Context, accountID string, company, pricing json.RawMessage) error
}
