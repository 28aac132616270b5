package queries

import (
	"context"

	"github.com/JaimeStill/caregate/internal/stages"
)

// Evaluation is the result of running a query through the automated stages.
type Evaluation struct {
	// Enhanced is nil when enhancement degraded to the original text.
	Enhanced *string
	Score    float64
	Triage   Triage
	Status   Status
	Degraded bool
}

// Engine runs the enhance then score pipeline and derives triage and status.
type Engine struct {
	stages stages.System
}

// NewEngine creates an Engine over the given stages.
func NewEngine(s stages.System) *Engine {
	return &Engine{stages: s}
}

// Evaluate enhances text, scores the enhanced text, and derives the
// resulting triage and status. Stage failures never abort evaluation.
func (e *Engine) Evaluate(ctx context.Context, text string) Evaluation {
	enhanced := e.stages.Enhance(ctx, text)
	score := e.stages.Score(ctx, enhanced.Value)

	triage := TriageFor(score.Value)
	eval := Evaluation{
		Score:    score.Value,
		Triage:   triage,
		Status:   Derive(triage, score.Value),
		Degraded: enhanced.Degraded || score.Degraded,
	}

	if !enhanced.Degraded {
		eval.Enhanced = &enhanced.Value
	}

	return eval
}
