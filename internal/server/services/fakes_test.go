package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/dbx"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/dmitrijs2005/mylibrary/internal/server/repositories/books"
	"github.com/dmitrijs2005/mylibrary/internal/server/repositories/writers"
)

type fakeWritersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.Writer
	err     error
	deleted []string
}

func newFakeWriters(ws ...*models.Writer) *fakeWritersRepo {
	f := &fakeWritersRepo{byID: map[string]*models.Writer{}}
	for _, w := range ws {
		f.byID[w.ID] = w
	}
	return f
}

func (f *fakeWritersRepo) Find(_ context.Context, id string) (*models.Writer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	w, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWritersRepo) Create(_ context.Context, w *models.Writer) (*models.Writer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byID[w.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	w.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.byID[w.ID] = w
	return w, nil
}

func (f *fakeWritersRepo) List(context.Context) ([]*models.Writer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Writer, 0, len(f.byID))
	for _, w := range f.byID {
		out = append(out, &models.Writer{ID: w.ID, CreatedAt: w.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeWritersRepo) UpdatePassword(_ context.Context, id, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	w, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	w.Password = password
	return nil
}

func (f *fakeWritersRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBooksRepo struct {
	mu        sync.Mutex
	books     []*models.Book
	err       error
	lastQuery string
}

func (f *fakeBooksRepo) Create(_ context.Context, b *models.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.books = append(f.books, b)
	return nil
}

func (f *fakeBooksRepo) GetByID(_ context.Context, id string) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBooksRepo) filter(keep func(*models.Book) bool) ([]*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Book
	for _, b := range f.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBooksRepo) List(context.Context) ([]*models.Book, error) {
	return f.filter(func(*models.Book) bool { return true })
}

func (f *fakeBooksRepo) ListByWriter(_ context.Context, writerID string) ([]*models.Book, error) {
	return f.filter(func(b *models.Book) bool { return b.WriterID == writerID })
}

func (f *fakeBooksRepo) ListByGenre(_ context.Context, g models.Genre) ([]*models.Book, error) {
	return f.filter(func(b *models.Book) bool { return b.Genre == g })
}

func (f *fakeBooksRepo) SearchByTitle(_ context.Context, q string) ([]*models.Book, error) {
	f.lastQuery = q
	return f.filter(func(b *models.Book) bool { return b.Title == q })
}

func (f *fakeBooksRepo) ListAuthors(context.Context) ([]*models.AuthorSummary, error) {
	counts := map[string]int{}
	list, err := f.List(context.Background())
	if err != nil {
		return nil, err
	}
	for _, b := range list {
		counts[b.WriterID]++
	}
	var out []*models.AuthorSummary
	for id, n := range counts {
		out = append(out, &models.AuthorSummary{WriterID: id, Books: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WriterID < out[j].WriterID })
	return out, nil
}

func (f *fakeBooksRepo) DeleteByWriter(_ context.Context, writerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var kept []*models.Book
	var n int64
	for _, b := range f.books {
		if b.WriterID == writerID {
			n++
			continue
		}
		kept = append(kept, b)
	}
	f.books = kept
	return n, nil
}

type fakeRepoManager struct {
	w *fakeWritersRepo
	b *fakeBooksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Writers(dbx.DBTX) writers.Repository          { return m.w }
func (m *fakeRepoManager) Books(dbx.DBTX) books.Repository              { return m.b }
