package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/cryptox"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
)

const (
	bootstrapSecret      = "admin"
	bootstrapDisplayName = "Administrator"
)

// CredentialRecord is what the user store holds for one account.
type CredentialRecord struct {
	Identifier   string
	StoredSecret string
}

// UserStore looks up a credential record by identifier. Implementations
// return common.ErrorNotFound when no record exists.
type UserStore interface {
	Find(ctx context.Context, identifier string) (*CredentialRecord, error)
}

// Verifier checks presented credentials.
type Verifier struct {
	store          UserStore
	logger         logging.Logger
	bootstrapAdmin bool
}

type VerifierOption func(*Verifier)

// WithBootstrapAdmin toggles the built-in admin/admin account. It is on by
// default.
func WithBootstrapAdmin(enabled bool) VerifierOption {
	return func(v *Verifier) { v.bootstrapAdmin = enabled }
}

func NewVerifier(store UserStore, logger logging.Logger, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		store:          store,
		logger:         logger.With("module", "verifier"),
		bootstrapAdmin: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify returns the identity for a valid identifier/secret pair.
//
// Failures are common.ErrMissingCredentials (either value empty, the store is
// not consulted), common.ErrorNotFound, common.ErrBadSecret and
// common.ErrStoreError. Store errors are logged here and never returned raw.
// Verify does not retry.
func (v *Verifier) Verify(ctx context.Context, identifier, secret string) (*Identity, error) {
	if identifier == "" || secret == "" {
		return nil, common.ErrMissingCredentials
	}

	if v.bootstrapAdmin && identifier == AdminIdentifier && secret == bootstrapSecret {
		return &Identity{
			Identifier:  AdminIdentifier,
			DisplayName: bootstrapDisplayName,
			Role:        ComputeRole(identifier),
		}, nil
	}

	rec, err := v.store.Find(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		v.logger.Error(ctx, "user store lookup failed", "identifier", identifier, "error", err)
		return nil, common.ErrStoreError
	}
	if rec == nil {
		return nil, common.ErrorNotFound
	}

	if !cryptox.EqualSecrets(rec.StoredSecret, secret) {
		return nil, common.ErrBadSecret
	}

	return &Identity{
		Identifier:  rec.Identifier,
		DisplayName: rec.Identifier,
		Role:        ComputeRole(rec.Identifier),
	}, nil
}
