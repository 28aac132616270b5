package queries

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/pkg/query"
	"github.com/JaimeStill/caregate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "queries", "q").
	Project("id", "ID").
	Project("query_text", "QueryText").
	Project("enhanced_query", "EnhancedQuery").
	Project("status", "Status").
	Project("triage_level", "TriageLevel").
	Project("safety_score", "SafetyScore").
	Project("user_id", "UserID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const returning = `
	RETURNING id, query_text, enhanced_query, status, triage_level,
		safety_score, user_id, created_at, updated_at`

// Filters contains optional filtering criteria for query listings.
// Nil fields are ignored.
type Filters struct {
	Status      *Status    `json:"status,omitempty"`
	TriageLevel *Triage    `json:"triage_level,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("TriageLevel", f.TriageLevel).
		WhereEquals("UserID", f.UserID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unrecognized values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			f.Status = &status
		}
	}

	if t := values.Get("triage_level"); t != "" {
		if level, err := ParseTriage(t); err == nil {
			f.TriageLevel = &level
		}
	}

	if u := values.Get("user_id"); u != "" {
		if id, err := uuid.Parse(u); err == nil {
			f.UserID = &id
		}
	}

	return f
}

func scanQuery(s repository.Scanner) (Query, error) {
	var q Query
	err := s.Scan(
		&q.ID,
		&q.QueryText,
		&q.EnhancedQuery,
		&q.Status,
		&q.TriageLevel,
		&q.SafetyScore,
		&q.UserID,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	return q, err
}
