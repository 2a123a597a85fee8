// Package completion wraps a hosted text-completion service behind a single
// call that never fails: errors are logged, classified and replaced by a fixed
// fallback reply.
package completion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Error kinds carried by Result.Err. Each wraps the underlying cause.
var (
	ErrTransport     = errors.New("completion transport failure")
	ErrAuth          = errors.New("completion authentication failure")
	ErrProvider      = errors.New("completion provider error")
	ErrEmptyResponse = errors.New("completion returned no text")
)

// Generator performs one raw completion request against a backend.
type Generator interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Params are the fixed sampling parameters of every request.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Result is the outcome of Complete. When Err is set, Text holds the fallback.
type Result struct {
	Text string
	Err  error
}

// Degraded reports whether Text is the fallback string.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Kind returns a short label for the error kind, "ok" on success.
func (r Result) Kind() string {
	switch {
	case r.Err == nil:
		return "ok"
	case errors.Is(r.Err, ErrAuth):
		return "auth"
	case errors.Is(r.Err, ErrProvider):
		return "provider"
	case errors.Is(r.Err, ErrEmptyResponse):
		return "empty_response"
	default:
		return "transport"
	}
}

// Client issues completions through a Generator.
type Client struct {
	gen      Generator
	fallback string
	logger   *slog.Logger
}

// NewClient creates a Client that answers with fallback whenever gen fails.
func NewClient(gen Generator, fallback string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		gen:      gen,
		fallback: fallback,
		logger:   logger.With("component", "completion_client", "provider", gen.Name()),
	}
}

// Complete sends one request and returns the trimmed text of the first choice.
// It never returns a Go error; failures surface as Result.Err with the fallback text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) Result {
	startTime := time.Now()

	text, err := c.gen.Generate(ctx, systemPrompt, userPrompt)
	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			err = ErrEmptyResponse
		}
	}
	if err != nil {
		if !isKind(err) {
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}
		c.logger.ErrorContext(ctx, "Completion request failed, using fallback", "error", err, "duration", time.Since(startTime))
		return Result{Text: c.fallback, Err: err}
	}

	c.logger.DebugContext(ctx, "Completion request succeeded", "duration", time.Since(startTime), "reply_length", len(text))
	return Result{Text: text}
}

func isKind(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrAuth) ||
		errors.Is(err, ErrProvider) ||
		errors.Is(err, ErrEmptyResponse)
}

func statusKind(code int) error {
	if code == 401 || code == 403 {
		return ErrAuth
	}
	return ErrProvider
}
