package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini serves generateContent with a canned body and records requests.
type fakeGemini struct {
	mu       sync.Mutex
	paths    []string
	bodies   []string
	status   int
	response string
	delay    time.Duration
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	status, response, delay := f.status, f.response, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}

func newTestClient(t *testing.T, fake *fakeGemini, timeout time.Duration) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := DefaultGeminiConfig("test-key")
	cfg.BaseURL = srv.URL
	cfg.Timeout = timeout
	c, err := NewGeminiClient(context.Background(), cfg)
	require.NoError(t, err)
	return c
}

func candidateBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	return string(b)
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultGeminiConfig("  "))
	assert.ErrorContains(t, err, "API key is required")
}

func TestNewGeminiClient_DefaultModel(t *testing.T) {
	cfg := DefaultGeminiConfig("k")
	cfg.Model = ""
	c, err := NewGeminiClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, c.Model())
}

func TestGeminiClient_Generate(t *testing.T) {
	fake := &fakeGemini{response: candidateBody("## Summary\nDark mode.")}
	c := newTestClient(t, fake, time.Minute)

	got, err := c.Generate(context.Background(), "write an RFC for dark mode")
	require.NoError(t, err)
	assert.Equal(t, "## Summary\nDark mode.", got)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.paths, 1)
	assert.True(t, strings.HasSuffix(fake.paths[0], "models/"+DefaultGeminiModel+":generateContent"), fake.paths[0])
	assert.Contains(t, fake.bodies[0], "write an RFC for dark mode")
}

func TestGeminiClient_BlockedPrompt(t *testing.T) {
	fake := &fakeGemini{response: `{"promptFeedback":{"blockReason":"SAFETY"}}`}
	c := newTestClient(t, fake, time.Minute)

	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	fake := &fakeGemini{response: `{}`}
	c := newTestClient(t, fake, time.Minute)

	_, err := c.Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "no candidates")
}

func TestGeminiClient_ServerError(t *testing.T) {
	fake := &fakeGemini{
		status:   http.StatusServiceUnavailable,
		response: `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`,
	}
	c := newTestClient(t, fake, time.Minute)

	_, err := c.Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestGeminiClient_AppliesTimeoutWithoutDeadline(t *testing.T) {
	fake := &fakeGemini{response: candidateBody("late"), delay: 2 * time.Second}
	c := newTestClient(t, fake, 50*time.Millisecond)

	start := time.Now()
	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
