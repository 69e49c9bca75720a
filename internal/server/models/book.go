package models

import "time"

// Book is a published title. DocumentKey names a PDF in object storage and
// DocumentURL an external one; at most one of them is set.
type Book struct {
	ID            string
	Title         string
	Author        string
	Genre         Genre
	Synopsis      string
	DocumentURL   string
	DocumentKey   string
	WriterID      string
	PublishedDate time.Time
}

// AuthorSummary is a writer who has published, with their book count.
type AuthorSummary struct {
	WriterID string
	Books    int
}
