package completion

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint,
// such as Together or OpenRouter.
type OpenAIGenerator struct {
	client *openai.Client
	params Params
}

// NewOpenAIGenerator creates a generator for the endpoint at baseURL.
// An empty baseURL keeps the library default.
func NewOpenAIGenerator(apiKey, baseURL string, params Params) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		params: params,
	}
}

func (g *OpenAIGenerator) Name() string {
	return "openai"
}

func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: g.params.Temperature,
		MaxTokens:   g.params.MaxTokens,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", statusKind(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: %w", statusKind(reqErr.HTTPStatusCode), err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
