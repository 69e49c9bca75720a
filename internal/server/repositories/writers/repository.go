package writers

import (
	"context"

	"github.com/dmitrijs2005/mylibrary/internal/server/models"
)

type Repository interface {
	Find(ctx context.Context, id string) (*models.Writer, error)
	Create(ctx context.Context, w *models.Writer) (*models.Writer, error)
	List(ctx context.Context) ([]*models.Writer, error)
	UpdatePassword(ctx context.Context, id, password string) error
	Delete(ctx context.Context, id string) error
}
