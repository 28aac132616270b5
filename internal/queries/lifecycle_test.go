package queries_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/caregate/internal/queries"
)

func TestTriageFor(t *testing.T) {
	tests := []struct {
		score float64
		want  queries.Triage
	}{
		{0.0, queries.TriageUrgent},
		{0.2, queries.TriageUrgent},
		{0.29, queries.TriageUrgent},
		{0.30, queries.TriageHigh},
		{0.49, queries.TriageHigh},
		{0.50, queries.TriageMedium},
		{0.69, queries.TriageMedium},
		{0.70, queries.TriageLow},
		{0.8, queries.TriageLow},
		{1.0, queries.TriageLow},
	}

	for _, tt := range tests {
		if got := queries.TriageFor(tt.score); got != tt.want {
			t.Errorf("TriageFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name   string
		triage queries.Triage
		score  float64
		want   queries.Status
	}{
		{"urgent score", queries.TriageUrgent, 0.2, queries.StatusNeedsReview},
		{"medium below threshold", queries.TriageMedium, 0.6, queries.StatusNeedsReview},
		{"low at threshold", queries.TriageLow, 0.7, queries.StatusProcessing},
		{"low high score", queries.TriageLow, 0.8, queries.StatusProcessing},
		{"urgent triage overrides high score", queries.TriageUrgent, 0.9, queries.StatusNeedsReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := queries.Derive(tt.triage, tt.score); got != tt.want {
				t.Errorf("Derive(%s, %v) = %s, want %s", tt.triage, tt.score, got, tt.want)
			}
		})
	}
}

func TestFreshSubmissionOutcomes(t *testing.T) {
	for _, tt := range []struct {
		score      float64
		wantTriage queries.Triage
		wantStatus queries.Status
	}{
		{0.2, queries.TriageUrgent, queries.StatusNeedsReview},
		{0.8, queries.TriageLow, queries.StatusProcessing},
	} {
		triage := queries.TriageFor(tt.score)
		status := queries.Derive(triage, tt.score)
		if triage != tt.wantTriage || status != tt.wantStatus {
			t.Errorf("score %v: got (%s, %s), want (%s, %s)",
				tt.score, triage, status, tt.wantTriage, tt.wantStatus)
		}
	}
}

func TestAfterTriageUpdate(t *testing.T) {
	tests := []struct {
		name    string
		current queries.Status
		level   queries.Triage
		want    queries.Status
	}{
		{"urgent forces review from processing", queries.StatusProcessing, queries.TriageUrgent, queries.StatusNeedsReview},
		{"urgent forces review from approved", queries.StatusApproved, queries.TriageUrgent, queries.StatusNeedsReview},
		{"downgrade keeps review", queries.StatusNeedsReview, queries.TriageLow, queries.StatusNeedsReview},
		{"high leaves processing", queries.StatusProcessing, queries.TriageHigh, queries.StatusProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := queries.AfterTriageUpdate(tt.current, tt.level); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAfterGeneration(t *testing.T) {
	tests := []struct {
		current queries.Status
		wantErr bool
	}{
		{queries.StatusProcessing, false},
		{queries.StatusNeedsReview, false},
		{queries.StatusPending, true},
		{queries.StatusApproved, true},
		{queries.StatusRejected, true},
		{queries.StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			got, err := queries.AfterGeneration(tt.current)
			if tt.wantErr {
				if !errors.Is(err, queries.ErrInvalidState) {
					t.Errorf("err = %v, want ErrInvalidState", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != queries.StatusNeedsReview {
				t.Errorf("got %s, want needs_review", got)
			}
		})
	}
}

func TestAfterDecision(t *testing.T) {
	if got := queries.AfterDecision(true); got != queries.StatusApproved {
		t.Errorf("approve: got %s", got)
	}
	if got := queries.AfterDecision(false); got != queries.StatusRejected {
		t.Errorf("reject: got %s", got)
	}
}

func TestParse(t *testing.T) {
	if _, err := queries.ParseTriage("critical"); !errors.Is(err, queries.ErrInvalidTriage) {
		t.Errorf("ParseTriage(critical) err = %v", err)
	}
	if v, err := queries.ParseTriage("urgent"); err != nil || v != queries.TriageUrgent {
		t.Errorf("ParseTriage(urgent) = %s, %v", v, err)
	}
	if _, err := queries.ParseStatus("done"); !errors.Is(err, queries.ErrInvalidStatus) {
		t.Errorf("ParseStatus(done) err = %v", err)
	}
	if !queries.StatusApproved.Terminal() || queries.StatusNeedsReview.Terminal() {
		t.Error("Terminal misclassifies statuses")
	}
}
