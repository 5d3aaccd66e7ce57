package models

import "time"

// ImageRecord is the index row for a generated image. The bytes themselves
// live in the blob store under Filename; the filename is server-generated
// and never derived from user input.
type ImageRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`

	// URL is the authenticated retrieval path, filled in by List.
	URL string `json:"url,omitempty"`
}
