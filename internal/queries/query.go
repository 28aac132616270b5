// Package queries owns the medical query record and its lifecycle. Status and
// triage are only ever written through the transition functions in
// lifecycle.go; clients never set them directly.
package queries

import (
	"time"

	"github.com/google/uuid"
)

// Query is a submitted medical question and its evaluation state.
type Query struct {
	ID            uuid.UUID  `json:"id"`
	QueryText     string     `json:"query_text"`
	EnhancedQuery *string    `json:"enhanced_query"`
	Status        Status     `json:"status"`
	TriageLevel   *Triage    `json:"triage_level"`
	SafetyScore   *float64   `json:"safety_score"`
	UserID        *uuid.UUID `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PromptText returns the text later stages should see: the enhanced query
// when enhancement completed, otherwise the original.
func (q *Query) PromptText() string {
	if q.EnhancedQuery != nil && *q.EnhancedQuery != "" {
		return *q.EnhancedQuery
	}
	return q.QueryText
}

// CreateCommand carries a new query submission.
type CreateCommand struct {
	QueryText string     `json:"query_text"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
}

// TriageCommand carries a manual triage override.
type TriageCommand struct {
	TriageLevel Triage `json:"triage_level"`
}
