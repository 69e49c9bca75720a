package httpapi

import (
	"context"

	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/dmitrijs2005/mylibrary/internal/server/services"
)

// The handler depends on these narrow views of the services package so the
// routes can be exercised against fakes.

type Authenticator interface {
	SignIn(ctx context.Context, identifier, secret string) (*auth.Session, error)
	Authenticate(token string) (*auth.Session, error)
	LifetimeSeconds() int
}

type WriterAdmin interface {
	Register(ctx context.Context, id, password string) (*models.Writer, error)
	List(ctx context.Context) ([]*models.Writer, error)
	ChangePassword(ctx context.Context, id, password string) error
	Remove(ctx context.Context, id string) error
}

type Library interface {
	Publish(ctx context.Context, id *auth.Identity, in services.PublishInput) (*models.Book, error)
	Get(ctx context.Context, id string) (*models.Book, error)
	List(ctx context.Context, genre string) ([]*models.Book, error)
	ByWriter(ctx context.Context, writerID string) ([]*models.Book, error)
	Search(ctx context.Context, q string) ([]*models.Book, error)
	Authors(ctx context.Context) ([]*models.AuthorSummary, error)
}

type Uploads interface {
	PresignUpload(ctx context.Context, id *auth.Identity, fileName, contentType string, size int64) (*services.UploadTicket, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}
