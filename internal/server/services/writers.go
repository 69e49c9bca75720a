package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mylibrary/internal/dbx"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/dmitrijs2005/mylibrary/internal/server/repositories/repomanager"
)

// WriterService backs the admin area: the writer directory, registration,
// password changes and removal.
type WriterService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewWriterService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *WriterService {
	return &WriterService{db: db, repomanager: m, logger: logger.With("module", "writers")}
}

type registration struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a writer account. The identifier "admin" is reserved for
// the built-in administrator.
func (s *WriterService) Register(ctx context.Context, id, password string) (*models.Writer, error) {
	id = strings.TrimSpace(id)

	if err := validateStruct(&registration{ID: id, Password: password}); err != nil {
		return nil, err
	}
	if id == auth.AdminIdentifier {
		return nil, &ValidationError{Fields: map[string]string{"id": "is reserved"}}
	}

	w, err := s.repomanager.Writers(s.db).Create(ctx, &models.Writer{ID: id, Password: password})
	if err != nil {
		return nil, fmt.Errorf("error creating writer: %w", err)
	}

	s.logger.Info(ctx, "writer registered", "identifier", id)
	return w, nil
}

// List returns the writer directory. Stored passwords are never included.
func (s *WriterService) List(ctx context.Context) ([]*models.Writer, error) {
	list, err := s.repomanager.Writers(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing writers: %w", err)
	}
	return list, nil
}

// ChangePassword replaces a writer's password. Sessions already issued stay
// valid until they expire.
func (s *WriterService) ChangePassword(ctx context.Context, id, password string) error {
	if err := validateStruct(&registration{ID: id, Password: password}); err != nil {
		return err
	}
	if err := s.repomanager.Writers(s.db).UpdatePassword(ctx, id, password); err != nil {
		return fmt.Errorf("error updating writer: %w", err)
	}
	s.logger.Info(ctx, "writer password changed", "identifier", id)
	return nil
}

// Remove deletes a writer together with all of their books.
func (s *WriterService) Remove(ctx context.Context, id string) error {
	var removedBooks int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Books(tx).DeleteByWriter(ctx, id)
		if err != nil {
			return err
		}
		removedBooks = n
		return s.repomanager.Writers(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error removing writer: %w", err)
	}

	s.logger.Info(ctx, "writer removed", "identifier", id, "books", removedBooks)
	return nil
}
