package queries

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Status is the lifecycle position of a query.
type Status string

const (
	StatusPending     Status = "pending"
	StatusProcessing  Status = "processing"
	StatusNeedsReview Status = "needs_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusCompleted   Status = "completed"
)

var statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusNeedsReview,
	StatusApproved,
	StatusRejected,
	StatusCompleted,
}

// ParseStatus validates a wire status value.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return v, nil
}

// Terminal reports whether no further automated transition applies.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCompleted
}

// Triage is the coarse urgency classification derived from a safety score.
type Triage string

const (
	TriageLow    Triage = "low"
	TriageMedium Triage = "medium"
	TriageHigh   Triage = "high"
	TriageUrgent Triage = "urgent"
)

var triageLevels = []Triage{TriageLow, TriageMedium, TriageHigh, TriageUrgent}

// ParseTriage validates a wire triage value.
func ParseTriage(s string) (Triage, error) {
	v := Triage(s)
	if !slices.Contains(triageLevels, v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTriage, s)
	}
	return v, nil
}

// UnmarshalJSON rejects values outside the triage set.
func (t *Triage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseTriage(raw)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
