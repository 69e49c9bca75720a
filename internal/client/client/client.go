// Package client talks to the library gRPC API. It keeps the session token
// in memory only and attaches it to every call.
package client

import (
	"context"

	"github.com/dmitrijs2005/mylibrary/internal/api"
)

// Client is what the CLI needs from the server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	SignIn(ctx context.Context, id, password string) (*api.SignInResponse, error)
	SignOut()
	WhoAmI(ctx context.Context) (*api.WhoAmIResponse, error)
	ListWriters(ctx context.Context) ([]api.Writer, error)
	RegisterWriter(ctx context.Context, id, password string) (*api.Writer, error)
	RemoveWriter(ctx context.Context, id string) error
	ListBooks(ctx context.Context, filter api.ListBooksRequest) ([]api.Book, error)
	PublishBook(ctx context.Context, req *api.PublishBookRequest) (*api.Book, error)
	RequestUpload(ctx context.Context, fileName string, size int64) (*api.RequestUploadResponse, error)
	DocumentURL(ctx context.Context, key string) (string, error)
}
