package meetings

import (
	"context"

	"github.com/centrinote/centrinote/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	ListByUser(ctx context.Context, userID string) ([]*models.Meeting, error)
	Get(ctx context.Context, userID, id string) (*models.Meeting, error)
	Delete(ctx context.Context, userID, id string) error
	SetRecordingKey(ctx context.Context, userID, id, key string) error
}
