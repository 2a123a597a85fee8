package completion

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator talks to the Gemini API through the genai SDK.
type GeminiGenerator struct {
	client *genai.Client
	params Params
}

// NewGeminiGenerator creates a Gemini API client.
func NewGeminiGenerator(ctx context.Context, apiKey string, params Params) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	return newGeminiGenerator(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, params)
}

func newGeminiGenerator(ctx context.Context, cc *genai.ClientConfig, params Params) (*GeminiGenerator, error) {
	gi, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{client: gi, params: params}, nil
}

func (g *GeminiGenerator) Name() string {
	return "gemini"
}

func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	temperature := g.params.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(g.params.MaxTokens),
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}}
	}

	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.params.Model, contents, cfg)
	if err != nil {
		// genai returns APIError by value.
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %w", statusKind(apiErr.Code), err)
		}
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w: blocked by safety filter: %s", ErrProvider, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Text(), nil
}
