package stages

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type openaiBackend struct {
	client *openai.Client
	model  string
}

// NewBackend builds the completion backend selected by cfg.Provider.
func NewBackend(cfg *Config) (Backend, error) {
	switch cfg.Provider {
	case ProviderMock:
		return MockBackend{}, nil
	case ProviderOpenAI, ProviderAzure, ProviderOllama:
		return newOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func newOpenAI(cfg *Config) *openaiBackend {
	var clientCfg openai.ClientConfig

	switch cfg.Provider {
	case ProviderAzure:
		clientCfg = openai.DefaultAzureConfig(cfg.Token, cfg.BaseURL)
		clientCfg.APIVersion = cfg.APIVersion
		deployment := cfg.Deployment
		clientCfg.AzureModelMapperFunc = func(string) string {
			return deployment
		}
	case ProviderOllama:
		token := cfg.Token
		if token == "" {
			token = "ollama"
		}
		clientCfg = openai.DefaultConfig(token)
		clientCfg.BaseURL = cfg.BaseURL
	default:
		clientCfg = openai.DefaultConfig(cfg.Token)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
	}

	return &openaiBackend{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (b *openaiBackend) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.System,
	})
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
