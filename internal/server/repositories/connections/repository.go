package connections

import (
	"context"
	"time"

	"github.com/centrinote/centrinote/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, conn *models.Connection) (*models.Connection, error)
	Deactivate(ctx context.Context, userID string, at time.Time) error
	GetByUser(ctx context.Context, userID string) (*models.Connection, error)
}
