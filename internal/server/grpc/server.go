// Package grpc serves the MyLibrary API to the command-line client.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/mylibrary/internal/api"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/dmitrijs2005/mylibrary/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type authService interface {
	SignIn(ctx context.Context, identifier, secret string) (*auth.Session, error)
	Authenticate(token string) (*auth.Session, error)
}

type writerService interface {
	Register(ctx context.Context, id, password string) (*models.Writer, error)
	List(ctx context.Context) ([]*models.Writer, error)
	Remove(ctx context.Context, id string) error
}

type bookService interface {
	Publish(ctx context.Context, id *auth.Identity, in services.PublishInput) (*models.Book, error)
	List(ctx context.Context, genre string) ([]*models.Book, error)
	ByWriter(ctx context.Context, writerID string) ([]*models.Book, error)
	Search(ctx context.Context, q string) ([]*models.Book, error)
}

type attachmentService interface {
	PresignUpload(ctx context.Context, id *auth.Identity, fileName, contentType string, size int64) (*services.UploadTicket, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

type GRPCServer struct {
	address     string
	auth        authService
	writers     writerService
	books       bookService
	attachments attachmentService
	guard       *auth.Guard
	logger      logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, a authService, w writerService, b bookService, at attachmentService) *GRPCServer {
	logger := l.With("module", "grpc_server")
	return &GRPCServer{
		address:     address,
		auth:        a,
		writers:     w,
		books:       b,
		attachments: at,
		guard:       auth.NewGuard(logger),
		logger:      logger,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessInterceptor))

	api.RegisterLibraryServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve runs on an existing listener until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
