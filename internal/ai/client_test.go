package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clinic-records-server/internal/config"
)

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}
}

func TestClientSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "Patient: test", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A short summary.  "}}]}`))
	}))
	defer srv.Close()

	c := New(testAIConfig(srv.URL), zap.NewNop())

	got, err := c.Summarize(context.Background(), "Patient: test")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got)
}

func TestClientSummarizeDisabledWithoutKey(t *testing.T) {
	cfg := testAIConfig("http://127.0.0.1:0")
	cfg.APIKey = ""
	c := New(cfg, zap.NewNop())

	assert.False(t, c.Enabled())

	_, err := c.Summarize(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestClientSummarizeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(testAIConfig(srv.URL), zap.NewNop())

	_, err := c.Summarize(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClientSummarizeEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := New(testAIConfig(srv.URL), zap.NewNop())

	_, err := c.Summarize(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
