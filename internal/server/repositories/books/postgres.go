// Package books provides PostgreSQL-backed storage for published books.
package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/dbx"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
)

const selectBook = `SELECT id, title, author, genre, synopsis, document_url, document_key, writer_id, published_date FROM books`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Book) error {
	query := `
		INSERT INTO books (id, title, author, genre, synopsis, document_url, document_key, writer_id, published_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Author, string(b.Genre), b.Synopsis, b.DocumentURL, b.DocumentKey, b.WriterID, b.PublishedDate)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	row := r.db.QueryRowContext(ctx, selectBook+` WHERE id = $1`, id)

	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// List returns every book, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Book, error) {
	return r.query(ctx, selectBook+` ORDER BY published_date DESC`)
}

// ListByWriter returns the books of one writer ordered by published_date desc.
func (r *PostgresRepository) ListByWriter(ctx context.Context, writerID string) ([]*models.Book, error) {
	return r.query(ctx, selectBook+` WHERE writer_id = $1 ORDER BY published_date DESC`, writerID)
}

func (r *PostgresRepository) ListByGenre(ctx context.Context, genre models.Genre) ([]*models.Book, error) {
	return r.query(ctx, selectBook+` WHERE genre = $1 ORDER BY published_date DESC`, string(genre))
}

// SearchByTitle is a case-insensitive substring match on the title.
func (r *PostgresRepository) SearchByTitle(ctx context.Context, q string) ([]*models.Book, error) {
	return r.query(ctx, selectBook+` WHERE title ILIKE $1 ESCAPE '\' ORDER BY title`, "%"+escapeLike(q)+"%")
}

func (r *PostgresRepository) ListAuthors(ctx context.Context) ([]*models.AuthorSummary, error) {
	query := `SELECT writer_id, COUNT(*) FROM books GROUP BY writer_id ORDER BY writer_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AuthorSummary
	for rows.Next() {
		var a models.AuthorSummary
		if err := rows.Scan(&a.WriterID, &a.Books); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// DeleteByWriter removes all books of a writer and returns how many went.
func (r *PostgresRepository) DeleteByWriter(ctx context.Context, writerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE writer_id = $1`, writerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (*models.Book, error) {
	var (
		b     models.Book
		genre string
	)
	if err := s.Scan(&b.ID, &b.Title, &b.Author, &genre, &b.Synopsis, &b.DocumentURL, &b.DocumentKey, &b.WriterID, &b.PublishedDate); err != nil {
		return nil, err
	}
	b.Genre = models.Genre(genre)
	return &b, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
