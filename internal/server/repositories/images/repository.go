package images

import (
	"context"

	"github.com/prodshot/prodshot/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, userID int64, filename string) (*models.ImageRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.ImageRecord, error)
	GetByFilename(ctx context.Context, userID int64, filename string) (*models.ImageRecord, error)
	GetByID(ctx context.Context, userID int64, id int64) (*models.ImageRecord, error)
	Delete(ctx context.Context, userID int64, id int64) error
}
