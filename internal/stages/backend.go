package stages

import (
	"context"

	"github.com/JaimeStill/caregate/internal/prompts"
)

// Message roles carried in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single prior conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one completion call against a backend.
type Request struct {
	Stage       prompts.Stage
	System      string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Backend performs a single completion. Implementations must honor ctx.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}
