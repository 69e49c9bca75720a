package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mylibrary/internal/dbx"
	"github.com/dmitrijs2005/mylibrary/internal/server/repositories/books"
	"github.com/dmitrijs2005/mylibrary/internal/server/repositories/writers"
)

// RepositoryManager vends repositories bound to a pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Writers(db dbx.DBTX) writers.Repository
	Books(db dbx.DBTX) books.Repository
}
