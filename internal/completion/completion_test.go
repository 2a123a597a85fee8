package completion_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/aichat/internal/completion"
	"github.com/edgard/aichat/internal/config"
)

const fallback = "oops something broke lol"

var testParams = completion.Params{
	Model:       "meta-llama/Llama-3-70b-chat-hf",
	Temperature: 0.7,
	MaxTokens:   100,
}

type recordedRequest struct {
	Authorization string
	Body          map[string]any
}

// fakeEndpoint serves /v1/chat/completions with a canned status and body and
// records every request it receives.
type fakeEndpoint struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Authorization: r.Header.Get("Authorization"), Body: body})
	f.mu.Unlock()

	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func (f *fakeEndpoint) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newOpenAIClient(t *testing.T, endpoint *fakeEndpoint) *completion.Client {
	t.Helper()
	srv := httptest.NewServer(endpoint)
	t.Cleanup(srv.Close)
	gen := completion.NewOpenAIGenerator("secret-key", srv.URL+"/v1", testParams)
	return completion.NewClient(gen, fallback, nil)
}

const okBody = `{
  "id": "cmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "meta-llama/Llama-3-70b-chat-hf",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "  hey there!  \n"}, "finish_reason": "stop"},
    {"index": 1, "message": {"role": "assistant", "content": "second choice"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
}`

func TestComplete_Success(t *testing.T) {
	t.Parallel()

	endpoint := &fakeEndpoint{status: http.StatusOK, body: okBody}
	client := newOpenAIClient(t, endpoint)

	res := client.Complete(context.Background(), "You are Evelyn.", "what's up")
	require.NoError(t, res.Err)
	assert.False(t, res.Degraded())
	assert.Equal(t, "ok", res.Kind())
	assert.Equal(t, "hey there!", res.Text)

	requests := endpoint.recorded()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, "Bearer secret-key", req.Authorization)
	assert.Equal(t, testParams.Model, req.Body["model"])
	assert.InDelta(t, 0.7, req.Body["temperature"], 1e-6)
	assert.EqualValues(t, 100, req.Body["max_tokens"])

	messages, ok := req.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "You are Evelyn."}, messages[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "what's up"}, messages[1])
}

func TestComplete_FailuresUseFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantKind string
	}{
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`,
			wantErr:  completion.ErrAuth,
			wantKind: "auth",
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"message":"overloaded","type":"server_error"}}`,
			wantErr:  completion.ErrProvider,
			wantKind: "provider",
		},
		{
			name:     "non json error body",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			wantErr:  completion.ErrProvider,
			wantKind: "provider",
		},
		{
			name:     "no choices",
			status:   http.StatusOK,
			body:     `{"id":"cmpl-2","object":"chat.completion","choices":[]}`,
			wantErr:  completion.ErrEmptyResponse,
			wantKind: "empty_response",
		},
		{
			name:     "blank first choice",
			status:   http.StatusOK,
			body:     `{"id":"cmpl-3","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"   "}}]}`,
			wantErr:  completion.ErrEmptyResponse,
			wantKind: "empty_response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newOpenAIClient(t, &fakeEndpoint{status: tt.status, body: tt.body})

			var res completion.Result
			require.NotPanics(t, func() { res = client.Complete(context.Background(), "", "hello") })
			assert.True(t, res.Degraded())
			assert.Equal(t, fallback, res.Text)
			assert.ErrorIs(t, res.Err, tt.wantErr)
			assert.Equal(t, tt.wantKind, res.Kind())
		})
	}
}

func TestComplete_NetworkErrorUsesFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gen := completion.NewOpenAIGenerator("secret-key", url+"/v1", testParams)
	client := completion.NewClient(gen, fallback, nil)

	res := client.Complete(context.Background(), "system", "hello")
	assert.Equal(t, "oops something broke lol", res.Text)
	assert.ErrorIs(t, res.Err, completion.ErrTransport)
	assert.Equal(t, "transport", res.Kind())
}

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Name() string { return "stub" }

func (s stubGenerator) Generate(context.Context, string, string) (string, error) {
	return s.text, s.err
}

func TestComplete_UnclassifiedErrorIsTransport(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset by peer")
	client := completion.NewClient(stubGenerator{err: cause}, fallback, nil)

	res := client.Complete(context.Background(), "", "hi")
	assert.ErrorIs(t, res.Err, completion.ErrTransport)
	assert.ErrorIs(t, res.Err, cause)
	assert.Equal(t, fallback, res.Text)
}

func TestNew_Providers(t *testing.T) {
	t.Parallel()

	client, err := completion.New(context.Background(), config.AIConfig{
		Provider:    "openai",
		APIKey:      "key",
		BaseURL:     config.DefaultAIBaseURL,
		Model:       config.DefaultAIModel,
		Temperature: config.DefaultAITemperature,
		MaxTokens:   config.DefaultAIMaxTokens,
	}, fallback, nil)
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = completion.New(context.Background(), config.AIConfig{Provider: "gemini"}, fallback, nil)
	assert.Error(t, err, "gemini without an API key must fail")

	_, err = completion.New(context.Background(), config.AIConfig{Provider: "llama.cpp", APIKey: "key"}, fallback, nil)
	assert.Error(t, err)
}
