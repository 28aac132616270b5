// Package stages invokes the external evaluation stages (enhance, score,
// respond) with a bounded wait and a deterministic fallback. A failed stage
// never surfaces as an error: the caller receives the fallback value with
// Degraded set.
package stages

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/caregate/internal/prompts"
	"github.com/JaimeStill/caregate/pkg/formatting"
)

// Disclaimer is returned by Respond when the backend fails.
const Disclaimer = "I apologize, but I'm unable to provide a specific response at this time. " +
	"Please consult with a healthcare professional for personalized medical advice."

// NeutralScore is returned by Score when the backend fails.
const NeutralScore = 0.5

const attachmentsHeader = "\n\nAttached Files:\n"

// Outcome is a stage result. Degraded reports that Value is the fallback.
type Outcome[T any] struct {
	Value    T
	Degraded bool
}

// System is the stage contract consumed by the lifecycle and review workflows.
type System interface {
	Enhance(ctx context.Context, text string) Outcome[string]
	Score(ctx context.Context, text string) Outcome[float64]
	Respond(ctx context.Context, text string, summaries []string, history []Message) Outcome[string]
}

// InstructionSource supplies the effective instructions for a stage.
type InstructionSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
}

type settings struct {
	timeout     time.Duration
	temperature float32
	maxTokens   int
}

func settingsFrom(sc StageConfig) settings {
	return settings{
		timeout:     sc.TimeoutDuration(),
		temperature: sc.Temperature,
		maxTokens:   sc.MaxTokens,
	}
}

// Invoker implements System over a Backend.
type Invoker struct {
	backend Backend
	source  InstructionSource
	stages  map[prompts.Stage]settings
	logger  *slog.Logger
}

// New creates an Invoker. cfg must already be finalized. A nil source uses
// the built-in instructions for every stage.
func New(cfg *Config, backend Backend, source InstructionSource, logger *slog.Logger) *Invoker {
	return &Invoker{
		backend: backend,
		source:  source,
		stages: map[prompts.Stage]settings{
			prompts.StageEnhance: settingsFrom(cfg.Enhance),
			prompts.StageScore:   settingsFrom(cfg.Score),
			prompts.StageRespond: settingsFrom(cfg.Respond),
		},
		logger: logger.With("system", "stages"),
	}
}

// Enhance rewrites text with added clinical context. Falls back to text unchanged.
func (i *Invoker) Enhance(ctx context.Context, text string) Outcome[string] {
	out, err := i.call(ctx, prompts.StageEnhance, []Message{{Role: RoleUser, Content: text}})
	if err != nil {
		i.degrade(ctx, prompts.StageEnhance, err)
		return Outcome[string]{Value: text, Degraded: true}
	}
	i.succeed(prompts.StageEnhance)
	return Outcome[string]{Value: out}
}

// Score rates text from 0 (high risk) to 1 (low risk). Out-of-range values
// are clamped; non-numeric output and backend failures yield NeutralScore.
func (i *Invoker) Score(ctx context.Context, text string) Outcome[float64] {
	out, err := i.call(ctx, prompts.StageScore, []Message{{Role: RoleUser, Content: text}})
	if err == nil {
		var score float64
		if score, err = ParseScore(out); err == nil {
			i.succeed(prompts.StageScore)
			return Outcome[float64]{Value: score}
		}
	}
	i.degrade(ctx, prompts.StageScore, err)
	return Outcome[float64]{Value: NeutralScore, Degraded: true}
}

// Respond drafts an answer to text. Attachment summaries are appended to the
// user turn and history is replayed as prior turns. Falls back to Disclaimer.
func (i *Invoker) Respond(ctx context.Context, text string, summaries []string, history []Message) Outcome[string] {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: ComposeQuestion(text, summaries)})

	out, err := i.call(ctx, prompts.StageRespond, messages)
	if err != nil {
		i.degrade(ctx, prompts.StageRespond, err)
		return Outcome[string]{Value: Disclaimer, Degraded: true}
	}
	i.succeed(prompts.StageRespond)
	return Outcome[string]{Value: out}
}

// ComposeQuestion appends numbered attachment summaries to text.
func ComposeQuestion(text string, summaries []string) string {
	if len(summaries) == 0 {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString(attachmentsHeader)
	for n, s := range summaries {
		if n > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "File %d: %s", n+1, s)
	}
	return sb.String()
}

// ParseScore reads a bare number from backend output and clamps it to [0,1].
func ParseScore(raw string) (float64, error) {
	text := strings.TrimSpace(formatting.Unfence(raw))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedScore, raw)
	}
	return min(max(v, 0), 1), nil
}

func (i *Invoker) call(ctx context.Context, stage prompts.Stage, messages []Message) (string, error) {
	s := i.stages[stage]

	start := time.Now()
	defer func() {
		invocationDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := Request{
		Stage:       stage,
		System:      i.systemPrompt(ctx, stage),
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		text, err := i.backend.Complete(ctx, req)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		text := strings.TrimSpace(r.text)
		if text == "" {
			return "", ErrEmptyCompletion
		}
		return text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%s timed out after %s: %w", stage, s.timeout, ctx.Err())
	}
}

func (i *Invoker) systemPrompt(ctx context.Context, stage prompts.Stage) string {
	spec, _ := prompts.Spec(stage)

	if i.source != nil {
		text, err := i.source.Instructions(ctx, stage)
		if err == nil {
			return prompts.Compose(text, spec)
		}
		i.logger.WarnContext(ctx, "instruction lookup failed, using built-in", "stage", stage, "error", err)
	}

	text, _ := prompts.Instructions(stage)
	return prompts.Compose(text, spec)
}

func (i *Invoker) succeed(stage prompts.Stage) {
	invocationsTotal.WithLabelValues(string(stage), "ok").Inc()
}

func (i *Invoker) degrade(ctx context.Context, stage prompts.Stage, cause error) {
	invocationsTotal.WithLabelValues(string(stage), "degraded").Inc()
	i.logger.WarnContext(
		ctx, "stage fell back to default",
		"stage", stage,
		"error", fmt.Errorf("%w: %w", ErrUpstreamDegraded, cause),
	)
}
