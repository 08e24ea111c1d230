// ABOUTME: Completer abstraction over the OpenAI Chat Completions API.
// ABOUTME: Lets the agent loop be tested with a fake model.

package chat

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Completer produces one chat completion. The agent loop drives it repeatedly
// until the model stops requesting tools.
type Completer interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAICompleter implements Completer using the official OpenAI client.
type OpenAICompleter struct {
	client openai.Client
}

// NewOpenAICompleter creates a completer for the given API key. A non-empty
// baseURL points the client at an OpenAI-compatible gateway.
func NewOpenAICompleter(apiKey, baseURL string) *OpenAICompleter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAICompleter{client: openai.NewClient(opts...)}
}

func (c *OpenAICompleter) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
