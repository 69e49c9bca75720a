package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mylibrary/internal/api"
	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/dmitrijs2005/mylibrary/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC codes. Unclassified errors are logged
// and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func toUser(id *auth.Identity) api.User {
	return api.User{ID: id.Identifier, DisplayName: id.DisplayName, Role: id.Role.String()}
}

// toBook presigns stored PDFs on read. A presign failure leaves the URL
// empty; the key still lets the client ask again through DocumentURL.
func (s *GRPCServer) toBook(ctx context.Context, b *models.Book) api.Book {
	docURL := b.DocumentURL
	if b.DocumentKey != "" {
		u, err := s.attachments.PresignDownload(ctx, b.DocumentKey)
		if err != nil {
			s.logger.Warn(ctx, "presign on read failed", "book", b.ID, "error", err)
		}
		docURL = u
	}
	return api.Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         string(b.Genre),
		Synopsis:      b.Synopsis,
		DocumentURL:   docURL,
		DocumentKey:   b.DocumentKey,
		WriterID:      b.WriterID,
		PublishedDate: b.PublishedDate,
	}
}

func (s *GRPCServer) SignIn(ctx context.Context, req *api.SignInRequest) (*api.SignInResponse, error) {

	session, err := s.auth.SignIn(ctx, req.ID, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, common.SignInFailedMessage)
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &api.SignInResponse{
		AccessToken: session.Token,
		ExpiresAt:   session.ExpiresAt,
		User:        toUser(&session.Identity),
	}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *api.Empty) (*api.WhoAmIResponse, error) {
	id := auth.IdentityFrom(ctx)
	if id == nil {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	return &api.WhoAmIResponse{User: toUser(id), ShowAdmin: auth.ShowAdmin(id)}, nil
}

func (s *GRPCServer) ListWriters(ctx context.Context, _ *api.Empty) (*api.ListWritersResponse, error) {
	list, err := s.writers.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &api.ListWritersResponse{Writers: make([]api.Writer, 0, len(list))}
	for _, w := range list {
		resp.Writers = append(resp.Writers, api.Writer{ID: w.ID, CreatedAt: w.CreatedAt})
	}
	return resp, nil
}

func (s *GRPCServer) RegisterWriter(ctx context.Context, req *api.RegisterWriterRequest) (*api.Writer, error) {
	w, err := s.writers.Register(ctx, req.ID, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Registered", "writer", w.ID)
	return &api.Writer{ID: w.ID, CreatedAt: w.CreatedAt}, nil
}

func (s *GRPCServer) RemoveWriter(ctx context.Context, req *api.RemoveWriterRequest) (*api.Empty, error) {
	if err := s.writers.Remove(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) ListBooks(ctx context.Context, req *api.ListBooksRequest) (*api.ListBooksResponse, error) {
	var (
		list []*models.Book
		err  error
	)
	switch {
	case req.WriterID != "" && req.Genre == "":
		list, err = s.books.ByWriter(ctx, req.WriterID)
	case req.Query != "" && req.Genre == "":
		list, err = s.books.Search(ctx, req.Query)
	default:
		list, err = s.books.List(ctx, req.Genre)
	}
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &api.ListBooksResponse{Books: make([]api.Book, 0, len(list))}
	for _, b := range list {
		resp.Books = append(resp.Books, s.toBook(ctx, b))
	}
	return resp, nil
}

func (s *GRPCServer) PublishBook(ctx context.Context, req *api.PublishBookRequest) (*api.Book, error) {
	b, err := s.books.Publish(ctx, auth.IdentityFrom(ctx), services.PublishInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Synopsis:    req.Synopsis,
		DocumentURL: req.DocumentURL,
		DocumentKey: req.DocumentKey,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := s.toBook(ctx, b)
	return &out, nil
}

func (s *GRPCServer) RequestUpload(ctx context.Context, req *api.RequestUploadRequest) (*api.RequestUploadResponse, error) {
	t, err := s.attachments.PresignUpload(ctx, auth.IdentityFrom(ctx), req.FileName, req.ContentType, req.Size)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.RequestUploadResponse{Key: t.Key, UploadURL: t.UploadURL, DocumentURL: t.DocumentURL, ExpiresAt: t.ExpiresAt}, nil
}

func (s *GRPCServer) DocumentURL(ctx context.Context, req *api.DocumentURLRequest) (*api.DocumentURLResponse, error) {
	u, err := s.attachments.PresignDownload(ctx, req.Key)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.DocumentURLResponse{URL: u}, nil
}
