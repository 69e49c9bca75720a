package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/api"
	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var methodRequirements = map[string]auth.Requirement{
	api.MethodSignIn:         auth.RequireNone,
	api.MethodListBooks:      auth.RequireNone,
	api.MethodDocumentURL:    auth.RequireNone,
	api.MethodWhoAmI:         auth.RequireAuthenticated,
	api.MethodPublishBook:    auth.RequireAuthenticated,
	api.MethodRequestUpload:  auth.RequireAuthenticated,
	api.MethodListWriters:    auth.RequireAdmin,
	api.MethodRegisterWriter: auth.RequireAdmin,
	api.MethodRemoveWriter:   auth.RequireAdmin,
}

// requirementFor fails closed for service methods missing from the table.
// Other services (health) are open.
func requirementFor(method string) auth.Requirement {
	if r, ok := methodRequirements[method]; ok {
		return r
	}
	if strings.HasPrefix(method, "/"+api.ServiceName+"/") {
		return auth.RequireAdmin
	}
	return auth.RequireNone
}

func accessToken(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) accessInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	requirement := requirementFor(info.FullMethod)

	session, err := s.auth.Authenticate(accessToken(ctx))
	if err != nil && requirement != auth.RequireNone {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	var id *auth.Identity
	if session != nil {
		identity := session.Identity
		id = &identity
		ctx = auth.WithIdentity(ctx, id)
	}

	d := s.guard.Check(ctx, id, requirement, info.FullMethod)
	if !d.Allowed {
		if errors.Is(d.Reason, common.ErrForbidden) {
			return nil, status.Error(codes.PermissionDenied, "forbidden")
		}
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start).String(),
	)
	return resp, err
}
