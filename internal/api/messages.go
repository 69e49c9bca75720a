package api

import "time"

type Empty struct{}

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Role        string `json:"role"`
}

type SignInRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type SignInResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

type WhoAmIResponse struct {
	User      User `json:"user"`
	ShowAdmin bool `json:"show_admin"`
}

type Writer struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type ListWritersResponse struct {
	Writers []Writer `json:"writers"`
}

type RegisterWriterRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type RemoveWriterRequest struct {
	ID string `json:"id"`
}

// Book carries a document URL that is usable when the response is sent:
// stored PDFs get a freshly presigned link, keyed by DocumentKey.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Synopsis      string    `json:"synopsis"`
	DocumentURL   string    `json:"document_url,omitempty"`
	DocumentKey   string    `json:"document_key,omitempty"`
	WriterID      string    `json:"writer_id"`
	PublishedDate time.Time `json:"published_date"`
}

// ListBooksRequest filters by genre, writer or title substring. At most one
// filter is applied, in that order.
type ListBooksRequest struct {
	Genre    string `json:"genre,omitempty"`
	WriterID string `json:"writer_id,omitempty"`
	Query    string `json:"query,omitempty"`
}

type ListBooksResponse struct {
	Books []Book `json:"books"`
}

type PublishBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Synopsis    string `json:"synopsis"`
	DocumentURL string `json:"document_url,omitempty"`
	DocumentKey string `json:"document_key,omitempty"`
}

type RequestUploadRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type RequestUploadResponse struct {
	Key         string    `json:"key"`
	UploadURL   string    `json:"upload_url"`
	DocumentURL string    `json:"document_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type DocumentURLRequest struct {
	Key string `json:"key"`
}

type DocumentURLResponse struct {
	URL string `json:"url"`
}
