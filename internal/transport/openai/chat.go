// Package openai adapts an OpenAI-compatible API to the ChatModel and
// query-embedding capabilities.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/searchlight-ai/searchlight/internal/domain"
	"github.com/searchlight-ai/searchlight/internal/metrics"
)

// Config holds the chat provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Logger  *zap.Logger
}

// Chat streams chat completions from an OpenAI-compatible API.
type Chat struct {
	client *openai.Client
	logger *zap.Logger
}

// NewChat creates a streaming chat provider.
func NewChat(cfg *Config) *Chat {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Chat{
		client: openai.NewClientWithConfig(clientCfg),
		logger: cfg.Logger,
	}
}

// ChatStream streams a completion for the messages through onToken.
// onToken is invoked zero or more times with done=false, then exactly once
// with done=true on normal completion. An error returned by onToken stops
// the stream and propagates (the caller treats it as cancellation).
func (c *Chat) ChatStream(
	ctx context.Context, model string, messages []domain.Message,
	onToken func(token string, done bool) error,
) error {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
		Stream:   true,
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		metrics.ChatStreamErrorsTotal.WithLabelValues(model).Inc()
		return fmt.Errorf("open chat stream: %w: %w", domain.ErrChatProviderError, err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return onToken("", true)
		}
		if err != nil {
			metrics.ChatStreamErrorsTotal.WithLabelValues(model).Inc()
			return fmt.Errorf("chat stream recv: %w: %w", domain.ErrChatProviderError, err)
		}

		if len(resp.Choices) == 0 {
			continue
		}
		token := resp.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		if err := onToken(token, false); err != nil {
			return err
		}
	}
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Chat) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func toOpenAIMessages(messages []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}
