package models

import "time"

// Writer is a writer account as stored in the writers table.
type Writer struct {
	ID        string
	Password  string
	CreatedAt time.Time
}
