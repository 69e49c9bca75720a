package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/mylibrary/internal/api"
	"github.com/dmitrijs2005/mylibrary/internal/filex"
	"github.com/dmitrijs2005/mylibrary/internal/netx"
)

// Seams for file and object-storage I/O.
var (
	readFile   = os.ReadFile
	uploadPDF  = netx.UploadToPresignedURL
	downloadTo = netx.Download
)

const genreHint = "FICTION, NON_FICTION, SCIFI, FANTASY, MYSTERY, ROMANCE, HORROR, HISTORY"

func (a *App) printBooks(list []api.Book) error {
	if len(list) == 0 {
		a.printf("No books\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tWRITER\tPUBLISHED\tDOCUMENT")
	for _, b := range list {
		doc := b.DocumentKey
		if doc == "" {
			doc = b.DocumentURL
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Genre, b.WriterID, b.PublishedDate.Local().Format("2006-01-02"), doc)
	}
	return tw.Flush()
}

func (a *App) listBooks(ctx context.Context, filter api.ListBooksRequest) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.client.ListBooks(ctx, filter)
	if err != nil {
		return err
	}
	return a.printBooks(list)
}

func (a *App) Books(ctx context.Context, genre string) error {
	return a.listBooks(ctx, api.ListBooksRequest{Genre: strings.ToUpper(genre)})
}

func (a *App) Search(ctx context.Context, q string) error {
	return a.listBooks(ctx, api.ListBooksRequest{Query: q})
}

func (a *App) Author(ctx context.Context, writerID string) error {
	return a.listBooks(ctx, api.ListBooksRequest{WriterID: writerID})
}

// Publish prompts for the book fields and an optional PDF. The PDF goes
// straight to object storage through a presigned URL; the book then records
// its storage key, which "download" accepts.
func (a *App) Publish(ctx context.Context) error {
	var req api.PublishBookRequest
	var err error

	if req.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if req.Author, err = getSimpleText(a.reader, "Author", a.out); err != nil {
		return err
	}
	if req.Genre, err = getSimpleText(a.reader, "Genre ("+genreHint+")", a.out); err != nil {
		return err
	}
	req.Genre = strings.ToUpper(req.Genre)
	if req.Synopsis, err = getMultiline(a.reader, "Synopsis", a.out); err != nil {
		return err
	}
	pdfPath, err := getSimpleText(a.reader, "PDF file (optional)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if pdfPath != "" {
		key, err := a.storePDF(ctx, pdfPath)
		if err != nil {
			return a.sessionError(err)
		}
		req.DocumentKey = key
		a.printf("PDF stored as %s\n", key)
	}

	b, err := a.client.PublishBook(ctx, &req)
	if err != nil {
		return a.sessionError(err)
	}
	a.printf("Published %q as %s\n", b.Title, b.ID)
	return nil
}

func (a *App) storePDF(ctx context.Context, path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	if int64(len(data)) > a.config.MaxPDFSize {
		return "", fmt.Errorf("%s is larger than %d bytes", path, a.config.MaxPDFSize)
	}

	ticket, err := a.client.RequestUpload(ctx, filepath.Base(path), int64(len(data)))
	if err != nil {
		return "", err
	}
	if err := uploadPDF(ctx, ticket.UploadURL, "application/pdf", data); err != nil {
		return "", err
	}
	return ticket.Key, nil
}

// Download saves the PDF stored under key into the download directory.
func (a *App) Download(ctx context.Context, key string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.client.DocumentURL(ctx, key)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureDir(a.config.DownloadDir)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, filex.SafeFileName(key))

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	n, err := downloadTo(ctx, u, f, a.config.MaxPDFSize)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}

	a.printf("Saved %d bytes to %s\n", n, path)
	return nil
}
