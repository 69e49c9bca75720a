package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload of a session token. The identifier travels as
// the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
	DisplayName string `json:"name"`
	Role        Role   `json:"role"`
}

// Session is an issued session together with its encoded token.
type Session struct {
	Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
	Token     string
}

// SessionIssuer signs and decodes session tokens with a process-wide key.
type SessionIssuer struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

var (
	errEmptySecret     = errors.New("session secret must not be empty")
	errShortLifetime   = errors.New("session lifetime must be at least one second")
	errIncompleteClaim = errors.New("session claims incomplete")
)

// NewSessionIssuer derives the signing key from secret. Rotating the secret
// invalidates every outstanding token.
func NewSessionIssuer(secret []byte, lifetime time.Duration) (*SessionIssuer, error) {
	if len(secret) == 0 {
		return nil, errEmptySecret
	}
	if lifetime < time.Second {
		return nil, errShortLifetime
	}
	return &SessionIssuer{
		key:      cryptox.DeriveSigningKey(secret),
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Lifetime returns the configured session lifetime.
func (s *SessionIssuer) Lifetime() time.Duration { return s.lifetime }

// Issue signs a token for id. The role inside the token is fixed from here on.
func (s *SessionIssuer) Issue(id Identity) (*Session, error) {
	if id.Identifier == "" || !id.Role.Valid() {
		return nil, errIncompleteClaim
	}

	// JWT dates have second precision
	issued := s.now().Truncate(time.Second)
	expires := issued.Add(s.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Identifier,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		DisplayName: id.DisplayName,
		Role:        id.Role,
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return nil, err
	}

	return &Session{Identity: id, IssuedAt: issued, ExpiresAt: expires, Token: signed}, nil
}

// Decode verifies a token and returns the session it carries.
// It returns common.ErrTokenExpired for a well-signed token past its expiry
// and common.ErrInvalidToken for anything else that does not verify.
func (s *SessionIssuer) Decode(token string) (*Session, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" || !claims.Role.Valid() || claims.IssuedAt == nil {
		return nil, common.ErrInvalidToken
	}

	return &Session{
		Identity: Identity{
			Identifier:  claims.Subject,
			DisplayName: claims.DisplayName,
			Role:        claims.Role,
		},
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Token:     token,
	}, nil
}
