package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/api"
	"github.com/dmitrijs2005/mylibrary/internal/client/client"
	"github.com/dmitrijs2005/mylibrary/internal/client/config"
)

type fakeClient struct {
	signInID, signInPW string
	signInErr          error
	signedOut          bool

	whoErr error

	writers    []api.Writer
	writersErr error
	registered string
	removed    string

	filter    api.ListBooksRequest
	books     []api.Book
	published *api.PublishBookRequest

	uploadName string
	uploadSize int64
	docKey     string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error               { return nil }
func (f *fakeClient) Ping(context.Context) error { return nil }
func (f *fakeClient) SignOut()                   { f.signedOut = true }
func (f *fakeClient) RemoveWriter(_ context.Context, id string) error {
	f.removed = id
	return nil
}

func (f *fakeClient) SignIn(_ context.Context, id, pw string) (*api.SignInResponse, error) {
	f.signInID, f.signInPW = id, pw
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &api.SignInResponse{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        api.User{ID: id, DisplayName: id, Role: "writer"},
	}, nil
}

func (f *fakeClient) WhoAmI(context.Context) (*api.WhoAmIResponse, error) {
	if f.whoErr != nil {
		return nil, f.whoErr
	}
	return &api.WhoAmIResponse{User: api.User{ID: "admin", DisplayName: "Administrator", Role: "admin"}, ShowAdmin: true}, nil
}

func (f *fakeClient) ListWriters(context.Context) ([]api.Writer, error) {
	return f.writers, f.writersErr
}

func (f *fakeClient) RegisterWriter(_ context.Context, id, _ string) (*api.Writer, error) {
	f.registered = id
	return &api.Writer{ID: id}, nil
}

func (f *fakeClient) ListBooks(_ context.Context, filter api.ListBooksRequest) ([]api.Book, error) {
	f.filter = filter
	return f.books, nil
}

func (f *fakeClient) PublishBook(_ context.Context, req *api.PublishBookRequest) (*api.Book, error) {
	f.published = req
	return &api.Book{ID: "b1", Title: req.Title}, nil
}

func (f *fakeClient) RequestUpload(_ context.Context, name string, size int64) (*api.RequestUploadResponse, error) {
	f.uploadName, f.uploadSize = name, size
	return &api.RequestUploadResponse{Key: "books/w1/2024/05/x.pdf", UploadURL: "https://s3/put", DocumentURL: "https://s3/get"}, nil
}

func (f *fakeClient) DocumentURL(_ context.Context, key string) (string, error) {
	f.docKey = key
	return "https://s3/get/" + key, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DownloadDir = t.TempDir()
	return c
}

func newTestApp(t *testing.T, fc *fakeClient, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return newApp(testConfig(t), fc, strings.NewReader(input), &out), &out
}

// stubPassword makes getPassword return pw without touching the terminal.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}
