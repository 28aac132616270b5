// Package reviews implements the human review cycle for generated answers:
// drafting a response, listing queries awaiting a decision, and recording a
// doctor's approval or rejection. Only the most recently created response for
// a query is authoritative. Status changes are delegated to the transition
// functions in the queries package.
package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/queries"
)

// Response is a drafted answer to a query. Seq orders responses created
// within the same timestamp.
type Response struct {
	ID           uuid.UUID `json:"id"`
	Seq          int64     `json:"-"`
	QueryID      uuid.UUID `json:"query_id"`
	ResponseText string    `json:"response_text"`
	IsApproved   bool      `json:"is_approved"`
	DoctorNotes  *string   `json:"doctor_notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Review is a response joined with its query's text and status.
type Review struct {
	ID           uuid.UUID      `json:"id"`
	QueryID      uuid.UUID      `json:"query_id"`
	QueryText    string         `json:"query_text"`
	ResponseText string         `json:"response_text"`
	IsApproved   bool           `json:"is_approved"`
	DoctorNotes  *string        `json:"doctor_notes"`
	Status       queries.Status `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func newReview(r Response, queryText string, status queries.Status) Review {
	return Review{
		ID:           r.ID,
		QueryID:      r.QueryID,
		QueryText:    queryText,
		ResponseText: r.ResponseText,
		IsApproved:   r.IsApproved,
		DoctorNotes:  r.DoctorNotes,
		Status:       status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// GenerateCommand requests a new draft response for a query.
type GenerateCommand struct {
	QueryID uuid.UUID `json:"query_id"`
}

// DecideCommand records a doctor's decision on a response.
type DecideCommand struct {
	IsApproved  *bool   `json:"is_approved"`
	DoctorNotes *string `json:"doctor_notes,omitempty"`
}

// Validate requires an explicit decision.
func (c DecideCommand) Validate() error {
	if c.IsApproved == nil {
		return ErrDecisionRequired
	}
	return nil
}
