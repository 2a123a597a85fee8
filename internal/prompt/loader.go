// Package prompt loads the system prompt sent with every completion request.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnavailable means the prompt file could not be read.
	ErrUnavailable = errors.New("system prompt unavailable")
	// ErrEncoding means the prompt file is not valid UTF-8.
	ErrEncoding = errors.New("system prompt is not valid UTF-8")
)

// Result is the outcome of one load. Text is empty whenever Err is set.
type Result struct {
	Text string
	Err  error
}

// Degraded reports whether the load fell back to the empty prompt.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Loader reads the system prompt from a file on every call. Nothing is cached,
// so edits to the file apply to the next request.
type Loader struct {
	path   string
	logger *slog.Logger
}

// NewLoader returns a Loader for the file at path, relative to the working directory.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{
		path:   path,
		logger: logger.With("component", "prompt_loader"),
	}
}

// Load returns the trimmed file contents, or an empty prompt and a typed error.
func (l *Loader) Load() Result {
	data, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Warn("Failed to read system prompt, using empty prompt", "path", l.path, "error", err)
		return Result{Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}

	if !utf8.Valid(data) {
		l.logger.Warn("System prompt is not valid UTF-8, using empty prompt", "path", l.path)
		return Result{Err: fmt.Errorf("%w: %s", ErrEncoding, l.path)}
	}

	return Result{Text: strings.TrimSpace(string(data))}
}
