package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/repositories/repomanager"
)

// CredentialStore serves the verifier's lookups from the writers table.
type CredentialStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCredentialStore(db *sql.DB, m repomanager.RepositoryManager) *CredentialStore {
	return &CredentialStore{db: db, repomanager: m}
}

func (s *CredentialStore) Find(ctx context.Context, identifier string) (*auth.CredentialRecord, error) {
	w, err := s.repomanager.Writers(s.db).Find(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &auth.CredentialRecord{Identifier: w.ID, StoredSecret: w.Password}, nil
}
