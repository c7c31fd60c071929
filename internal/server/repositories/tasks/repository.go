package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByOwner(ctx context.Context, userID int64, status *models.Status, limit, offset int) ([]*models.Task, error)
	CountByOwner(ctx context.Context, userID int64, status *models.Status) (int, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}
