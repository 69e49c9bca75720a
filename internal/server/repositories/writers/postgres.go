// Package writers stores writer accounts in PostgreSQL.
package writers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/dbx"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Find(ctx context.Context, id string) (*models.Writer, error) {
	query :=
		`SELECT id, password, created_at FROM writers
		 WHERE id = $1
		 `

	w := &models.Writer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.Password, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return w, nil
}

func (r *PostgresRepository) Create(ctx context.Context, w *models.Writer) (*models.Writer, error) {
	query :=
		`INSERT INTO writers (id, password)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, w.ID, w.Password).Scan(&w.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return w, nil
}

// List returns all writers ordered by id. Passwords are not selected.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Writer, error) {
	query := `SELECT id, created_at FROM writers ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Writer
	for rows.Next() {
		var w models.Writer
		if err := rows.Scan(&w.ID, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, password string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE writers SET password = $2 WHERE id = $1`, id, password)
	return expectOneRow(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM writers WHERE id = $1`, id)
	return expectOneRow(res, err)
}

func expectOneRow(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
