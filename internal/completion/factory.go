package completion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgard/aichat/internal/config"
)

// New builds the completion Client for the configured provider.
func New(ctx context.Context, cfg config.AIConfig, fallback string, logger *slog.Logger) (*Client, error) {
	params := Params{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	var gen Generator
	switch cfg.Provider {
	case "openai":
		gen = NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, params)
	case "gemini":
		g, err := NewGeminiGenerator(ctx, cfg.APIKey, params)
		if err != nil {
			return nil, err
		}
		gen = g
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}

	client := NewClient(gen, fallback, logger)
	client.logger.Info("Completion client initialized", "model", params.Model, "temperature", params.Temperature, "max_tokens", params.MaxTokens)
	return client, nil
}
