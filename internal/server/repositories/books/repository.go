package books

import (
	"context"

	"github.com/dmitrijs2005/mylibrary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	List(ctx context.Context) ([]*models.Book, error)
	ListByWriter(ctx context.Context, writerID string) ([]*models.Book, error)
	ListByGenre(ctx context.Context, genre models.Genre) ([]*models.Book, error)
	SearchByTitle(ctx context.Context, q string) ([]*models.Book, error)
	ListAuthors(ctx context.Context) ([]*models.AuthorSummary, error)
	DeleteByWriter(ctx context.Context, writerID string) (int64, error)
}
