package queries

import "fmt"

// Score thresholds. A score below ReviewThreshold always requires review,
// independent of the triage level it maps to.
const (
	UrgentThreshold = 0.3
	HighThreshold   = 0.5
	ReviewThreshold = 0.7
)

// TriageFor maps a safety score to its triage level.
func TriageFor(score float64) Triage {
	switch {
	case score < UrgentThreshold:
		return TriageUrgent
	case score < HighThreshold:
		return TriageHigh
	case score < ReviewThreshold:
		return TriageMedium
	default:
		return TriageLow
	}
}

// Derive computes the post-evaluation status. Urgent triage and a sub-threshold
// score are each sufficient for review.
func Derive(triage Triage, score float64) Status {
	if triage == TriageUrgent || score < ReviewThreshold {
		return StatusNeedsReview
	}
	return StatusProcessing
}

// AfterTriageUpdate returns the status following a manual triage change.
// Urgent forces review; any other level leaves the status as it was.
func AfterTriageUpdate(current Status, level Triage) Status {
	if level == TriageUrgent {
		return StatusNeedsReview
	}
	return current
}

// AfterGeneration returns the status once a response has been drafted.
// Drafting is only valid while the query is processing or already in review.
func AfterGeneration(current Status) (Status, error) {
	switch current {
	case StatusProcessing, StatusNeedsReview:
		return StatusNeedsReview, nil
	default:
		return "", fmt.Errorf("%w: cannot generate a response for a %s query", ErrInvalidState, current)
	}
}

// AfterDecision returns the status recorded by a reviewer's decision.
func AfterDecision(approve bool) Status {
	if approve {
		return StatusApproved
	}
	return StatusRejected
}
