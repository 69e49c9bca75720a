// Package services contains the server-side business logic shared by the
// HTTP and gRPC transports.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
)

// AuthService signs callers in and resolves their session tokens.
type AuthService struct {
	verifier *auth.Verifier
	issuer   *auth.SessionIssuer
	logger   logging.Logger
}

func NewAuthService(v *auth.Verifier, i *auth.SessionIssuer, logger logging.Logger) *AuthService {
	return &AuthService{verifier: v, issuer: i, logger: logger.With("module", "auth")}
}

// SignIn verifies the credentials and issues a session. Every verification
// failure is returned as common.ErrorUnauthorized so callers cannot tell a
// missing account from a wrong secret; the precise reason is only logged.
func (s *AuthService) SignIn(ctx context.Context, identifier, secret string) (*auth.Session, error) {
	id, err := s.verifier.Verify(ctx, identifier, secret)
	if err != nil {
		s.logger.Info(ctx, "sign-in failed", "identifier", identifier, "reason", err.Error())
		return nil, common.ErrorUnauthorized
	}

	session, err := s.issuer.Issue(*id)
	if err != nil {
		s.logger.Error(ctx, "session issue failed", "identifier", identifier, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "signed in", "identifier", id.Identifier, "role", id.Role.String())
	return session, nil
}

// Authenticate decodes a session token. An empty token yields (nil, nil), an
// anonymous caller. Expired and invalid tokens return
// common.ErrTokenExpired and common.ErrInvalidToken.
func (s *AuthService) Authenticate(token string) (*auth.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.issuer.Decode(token)
	if err != nil {
		if !errors.Is(err, common.ErrTokenExpired) {
			err = common.ErrInvalidToken
		}
		return nil, err
	}
	return session, nil
}

// LifetimeSeconds is the lifetime of issued sessions, for cookie Max-Age.
func (s *AuthService) LifetimeSeconds() int {
	return int(s.issuer.Lifetime().Seconds())
}
