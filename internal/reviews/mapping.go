package reviews

import (
	"github.com/JaimeStill/caregate/pkg/query"
	"github.com/JaimeStill/caregate/pkg/repository"
)

// pending projects the newest response per query joined with its query.
var pending = query.
	NewProjectionMap("public", "latest_responses", "r").
	Join(query.InnerJoin, "public", "queries", "q", "q.id = r.query_id").
	Project("id", "ID").
	Project("query_id", "QueryID").
	ProjectFrom("q", "query_text", "QueryText").
	Project("response_text", "ResponseText").
	Project("is_approved", "IsApproved").
	Project("doctor_notes", "DoctorNotes").
	ProjectFrom("q", "status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var pendingSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
}

const responseColumns = `id, seq, query_id, response_text, is_approved, doctor_notes, created_at, updated_at`

func scanResponse(s repository.Scanner) (Response, error) {
	var r Response
	err := s.Scan(
		&r.ID,
		&r.Seq,
		&r.QueryID,
		&r.ResponseText,
		&r.IsApproved,
		&r.DoctorNotes,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func scanReview(s repository.Scanner) (Review, error) {
	var r Review
	err := s.Scan(
		&r.ID,
		&r.QueryID,
		&r.QueryText,
		&r.ResponseText,
		&r.IsApproved,
		&r.DoctorNotes,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}
