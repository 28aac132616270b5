package files

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/pkg/query"
	"github.com/JaimeStill/caregate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "files", "f").
	Project("id", "ID").
	Project("query_id", "QueryID").
	Project("original_filename", "OriginalFilename").
	Project("stored_filename", "StoredFilename").
	Project("file_type", "FileType").
	Project("file_size", "FileSize").
	Project("file_hash", "FileHash").
	Project("summary", "Summary").
	Project("created_at", "CreatedAt").
	Project("expiry_time", "ExpiryTime")

var defaultSort = query.SortField{
	Field: "CreatedAt",
}

const returning = `
	RETURNING id, query_id, original_filename, stored_filename, file_type,
		file_size, file_hash, summary, created_at, expiry_time`

func storageKey(queryID, id uuid.UUID, stored string) string {
	return fmt.Sprintf("files/%s/%s/%s", queryID, id, stored)
}

func (f *File) key() string {
	return storageKey(f.QueryID, f.ID, f.StoredFilename)
}

func scanFile(s repository.Scanner) (File, error) {
	var f File
	err := s.Scan(
		&f.ID,
		&f.QueryID,
		&f.OriginalFilename,
		&f.StoredFilename,
		&f.FileType,
		&f.FileSize,
		&f.FileHash,
		&f.Summary,
		&f.CreatedAt,
		&f.ExpiryTime,
	)
	return f, err
}
