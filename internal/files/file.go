// Package files manages query attachments: validation, content-addressed
// blob storage, generated summaries, and time-limited retention. Summaries
// of unexpired attachments are the only part the review workflow consumes.
package files

import (
	"time"

	"github.com/google/uuid"
)

// File is an attachment uploaded against a query.
type File struct {
	ID               uuid.UUID `json:"id"`
	QueryID          uuid.UUID `json:"query_id"`
	OriginalFilename string    `json:"original_filename"`
	StoredFilename   string    `json:"stored_filename"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `json:"file_size"`
	FileHash         string    `json:"file_hash"`
	Summary          string    `json:"summary"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiryTime       time.Time `json:"expiry_time"`
}

// Expired reports whether the attachment's retention window has passed.
func (f *File) Expired(now time.Time) bool {
	return !now.Before(f.ExpiryTime)
}

// UploadCommand carries a single attachment upload. Data holds the raw bytes.
type UploadCommand struct {
	QueryID     uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
}
