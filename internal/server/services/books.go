package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/dmitrijs2005/mylibrary/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PublishInput is what a writer submits. The owning writer is never part of
// it; it always comes from the session. A PDF is referenced either by the
// storage key of an upload or by an external URL, not both.
type PublishInput struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre" validate:"required,oneof=FICTION NON_FICTION SCIFI FANTASY MYSTERY ROMANCE HORROR HISTORY"`
	Synopsis    string `json:"synopsis" validate:"required"`
	DocumentURL string `json:"documentUrl" validate:"omitempty,http_url,excluded_with=DocumentKey"`
	DocumentKey string `json:"documentKey" validate:"omitempty,startswith=books/,pdf_file"`
}

type BookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	newID       func() string
	now         func() time.Time
}

func NewBookService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *BookService {
	return &BookService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "books"),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Publish stores a new book owned by the signed-in writer.
func (s *BookService) Publish(ctx context.Context, id *auth.Identity, in PublishInput) (*models.Book, error) {
	if id == nil {
		return nil, common.ErrUnauthenticated
	}

	book, err := validatePublish(id.Identifier, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Writers(s.db).Find(ctx, id.Identifier); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, &ValidationError{Fields: map[string]string{"writer": "account has no writer record"}}
		}
		return nil, fmt.Errorf("error loading writer: %w", err)
	}

	book.ID = s.newID()
	book.WriterID = id.Identifier
	book.PublishedDate = s.now().UTC()

	if err := s.repomanager.Books(s.db).Create(ctx, book); err != nil {
		return nil, fmt.Errorf("error creating book: %w", err)
	}

	s.logger.Info(ctx, "book published", "id", book.ID, "writer", book.WriterID)
	return book, nil
}

func validatePublish(writerID string, in PublishInput) (*models.Book, error) {
	in = PublishInput{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Genre:       strings.ToUpper(strings.TrimSpace(in.Genre)),
		Synopsis:    strings.TrimSpace(in.Synopsis),
		DocumentURL: strings.TrimSpace(in.DocumentURL),
		DocumentKey: strings.TrimSpace(in.DocumentKey),
	}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if in.DocumentKey != "" && !ownsDocument(writerID, in.DocumentKey) {
		return nil, &ValidationError{Fields: map[string]string{"documentKey": "is not one of your uploads"}}
	}

	return &models.Book{
		Title:       in.Title,
		Author:      in.Author,
		Genre:       models.Genre(in.Genre),
		Synopsis:    in.Synopsis,
		DocumentURL: in.DocumentURL,
		DocumentKey: in.DocumentKey,
	}, nil
}

func (s *BookService) Get(ctx context.Context, id string) (*models.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	b, err := s.repomanager.Books(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading book: %w", err)
	}
	return b, nil
}

// List returns all books, or only one genre when genre is non-empty.
func (s *BookService) List(ctx context.Context, genre string) ([]*models.Book, error) {
	repo := s.repomanager.Books(s.db)
	if genre == "" {
		return wrapList(repo.List(ctx))
	}
	g, ok := models.ParseGenre(genre)
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{"genre": "is not a known genre"}}
	}
	return wrapList(repo.ListByGenre(ctx, g))
}

// ByWriter returns a writer's books, newest first.
func (s *BookService) ByWriter(ctx context.Context, writerID string) ([]*models.Book, error) {
	return wrapList(s.repomanager.Books(s.db).ListByWriter(ctx, writerID))
}

// Search matches titles case-insensitively. A blank query returns nothing.
func (s *BookService) Search(ctx context.Context, q string) ([]*models.Book, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	return wrapList(s.repomanager.Books(s.db).SearchByTitle(ctx, q))
}

func (s *BookService) Authors(ctx context.Context) ([]*models.AuthorSummary, error) {
	list, err := s.repomanager.Books(s.db).ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing authors: %w", err)
	}
	return list, nil
}

func wrapList(list []*models.Book, err error) ([]*models.Book, error) {
	if err != nil {
		return nil, fmt.Errorf("error listing books: %w", err)
	}
	return list, nil
}
