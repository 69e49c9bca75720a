package httpapi

import (
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
)

type userJSON struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Role        string `json:"role"`
}

type bookJSON struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	GenreName     string    `json:"genreName"`
	Synopsis      string    `json:"synopsis"`
	DocumentURL   string    `json:"documentUrl,omitempty"`
	DocumentKey   string    `json:"documentKey,omitempty"`
	WriterID      string    `json:"writerId"`
	PublishedDate time.Time `json:"publishedDate"`
}

type writerJSON struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type authorJSON struct {
	WriterID string `json:"writerId"`
	Books    int    `json:"books"`
}

type genreJSON struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type loginRequest struct {
	ID       string `json:"id" form:"id"`
	Password string `json:"password" form:"password"`
}

type writerRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type publishRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Synopsis    string `json:"synopsis"`
	DocumentURL string `json:"documentUrl"`
	DocumentKey string `json:"documentKey"`
}

type uploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type uploadResponse struct {
	Key         string    `json:"key"`
	UploadURL   string    `json:"uploadUrl"`
	DocumentURL string    `json:"documentUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func toUser(id *auth.Identity) *userJSON {
	if id == nil {
		return nil
	}
	return &userJSON{ID: id.Identifier, DisplayName: id.DisplayName, Role: id.Role.String()}
}

// documentPath is the stable link for a stored PDF; it redirects to a fresh
// presigned URL on every request.
func documentPath(key string) string {
	return DocumentsPrefix + key
}

func toBook(b *models.Book) bookJSON {
	docURL := b.DocumentURL
	if b.DocumentKey != "" {
		docURL = documentPath(b.DocumentKey)
	}
	return bookJSON{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         string(b.Genre),
		GenreName:     b.Genre.DisplayName(),
		Synopsis:      b.Synopsis,
		DocumentURL:   docURL,
		DocumentKey:   b.DocumentKey,
		WriterID:      b.WriterID,
		PublishedDate: b.PublishedDate,
	}
}

func toBooks(list []*models.Book) []bookJSON {
	out := make([]bookJSON, 0, len(list))
	for _, b := range list {
		out = append(out, toBook(b))
	}
	return out
}
