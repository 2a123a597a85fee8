package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeGemini serves generateContent with a canned status and body.
type fakeGemini struct {
	mu     sync.Mutex
	paths  []string
	bodies []map[string]any
	status int
	body   string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func newTestGemini(t *testing.T, api *fakeGemini) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	gen, err := newGeminiGenerator(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	}, Params{Model: "gemini-2.0-flash", Temperature: 0.7, MaxTokens: 100})
	require.NoError(t, err)
	return NewClient(gen, "oops something broke lol", nil)
}

func TestGemini_Success(t *testing.T) {
	api := &fakeGemini{
		status: http.StatusOK,
		body:   `{"candidates":[{"content":{"role":"model","parts":[{"text":"  hello there \n"}]},"finishReason":"STOP"}]}`,
	}
	c := newTestGemini(t, api)

	res := c.Complete(context.Background(), "You are Evelyn.", "hi")
	require.NoError(t, res.Err)
	assert.Equal(t, "hello there", res.Text)
	assert.Equal(t, "ok", res.Kind())

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.paths, 1)
	assert.True(t, strings.HasSuffix(api.paths[0], "/models/gemini-2.0-flash:generateContent"), api.paths[0])
	assert.Contains(t, api.bodies[0], "systemInstruction")
}

func TestGemini_Failures(t *testing.T) {
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
			body:     `{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`,
			wantErr:  ErrAuth,
			wantKind: "auth",
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     `{"error":{"code":403,"message":"permission denied","status":"PERMISSION_DENIED"}}`,
			wantErr:  ErrAuth,
			wantKind: "auth",
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`,
			wantErr:  ErrProvider,
			wantKind: "provider",
		},
		{
			name:     "blocked prompt",
			status:   http.StatusOK,
			body:     `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantErr:  ErrProvider,
			wantKind: "provider",
		},
		{
			name:     "no candidates",
			status:   http.StatusOK,
			body:     `{"candidates":[]}`,
			wantErr:  ErrEmptyResponse,
			wantKind: "empty_response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestGemini(t, &fakeGemini{status: tt.status, body: tt.body})

			res := c.Complete(context.Background(), "", "hi")
			assert.ErrorIs(t, res.Err, tt.wantErr)
			assert.Equal(t, tt.wantKind, res.Kind())
			assert.Equal(t, "oops something broke lol", res.Text)
		})
	}
}
