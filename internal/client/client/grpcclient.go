package client

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/mylibrary/internal/api"
	"github.com/dmitrijs2005/mylibrary/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *api.LibraryServiceClient
	health      healthpb.HealthClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	s.accessToken = t
	s.mu.Unlock()
}

// accessTokenInterceptor attaches the current token. An expired token is
// dropped so the user is asked to sign in again; there is no refresh.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if t := s.token(); t != "" {
		ctx = withAccessToken(ctx, t)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)

	if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated && st.Message() == "token expired" {
		s.setToken("")
	}

	return err
}

func NewLibraryClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(extra ...grpc.DialOption) error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewLibraryServiceClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// mapError turns gRPC statuses into the package errors. Messages of
// InvalidArgument statuses carry field errors and are passed through.
func (s *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unauthenticated:
		switch st.Message() {
		case "token expired":
			return ErrSessionExpired
		case common.SignInFailedMessage:
			return ErrUnauthorized
		}
		return ErrNotSignedIn
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return errors.New(st.Message())
	default:
		return err
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) SignIn(ctx context.Context, id, password string) (*api.SignInResponse, error) {
	resp, err := s.client.SignIn(ctx, &api.SignInRequest{ID: id, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.setToken(resp.AccessToken)
	return resp, nil
}

// SignOut forgets the token. Sessions are stateless, so nothing is sent.
func (s *GRPCClient) SignOut() {
	s.setToken("")
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*api.WhoAmIResponse, error) {
	resp, err := s.client.WhoAmI(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListWriters(ctx context.Context) ([]api.Writer, error) {
	resp, err := s.client.ListWriters(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Writers, nil
}

func (s *GRPCClient) RegisterWriter(ctx context.Context, id, password string) (*api.Writer, error) {
	resp, err := s.client.RegisterWriter(ctx, &api.RegisterWriterRequest{ID: id, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) RemoveWriter(ctx context.Context, id string) error {
	if _, err := s.client.RemoveWriter(ctx, &api.RemoveWriterRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ListBooks(ctx context.Context, filter api.ListBooksRequest) ([]api.Book, error) {
	resp, err := s.client.ListBooks(ctx, &filter)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Books, nil
}

func (s *GRPCClient) PublishBook(ctx context.Context, req *api.PublishBookRequest) (*api.Book, error) {
	resp, err := s.client.PublishBook(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) RequestUpload(ctx context.Context, fileName string, size int64) (*api.RequestUploadResponse, error) {
	resp, err := s.client.RequestUpload(ctx, &api.RequestUploadRequest{
		FileName:    fileName,
		ContentType: "application/pdf",
		Size:        size,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) DocumentURL(ctx context.Context, key string) (string, error) {
	resp, err := s.client.DocumentURL(ctx, &api.DocumentURLRequest{Key: key})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}
