package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.APIKey = "sk-test"
	return cfg
}

type recordingObserver struct {
	events []LLMCallEvent
}

func (r *recordingObserver) OnCallComplete(e LLMCallEvent) { r.events = append(r.events, e) }

func TestChatClient_Complete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "key-123", r.Header.Get("Idempotency-Key"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-4o","choices":[{"message":{"role":"assistant","content":"{\"title\":\"x\"}"}}],"usage":{"prompt_tokens":12,"completion_tokens":5}}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewChatClient(testConfig(srv.URL), obs)
	resp, err := client.Complete(context.Background(), CompleteRequest{
		Model:          "gpt-4o",
		IdempotencyKey: "key-123",
		Messages: []Message{
			{Role: "system", Content: "system prompt"},
			{Role: "user", Content: "user prompt"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, resp.Text)
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.Equal(t, 12, resp.Usage.PromptTokens)
	assert.Equal(t, 5, resp.Usage.CompletionTokens)
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, 12, obs.events[0].PromptTokens)
}

func TestChatClient_Complete_DisallowedModelFallsBackToDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer srv.Close()

	client := NewChatClient(testConfig(srv.URL), nil)
	resp, err := client.Complete(context.Background(), CompleteRequest{Model: "some-expensive-model"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
}

func TestChatClient_Complete_MissingCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = "  "
	client := NewChatClient(cfg, nil)

	assert.ErrorIs(t, client.CheckConfig(), ErrMissingCredentials)
	_, err := client.Complete(context.Background(), CompleteRequest{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.False(t, called, "no request without credentials")
}

func TestChatClient_Complete_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuthFailed},
		{http.StatusForbidden, ErrAuthFailed},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrUpstream},
		{http.StatusBadRequest, ErrUpstream},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer srv.Close()

			obs := &recordingObserver{}
			client := NewChatClient(testConfig(srv.URL), obs)
			_, err := client.Complete(context.Background(), CompleteRequest{})

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.status, se.StatusCode)
			require.Len(t, obs.events, 1)
			assert.False(t, obs.events[0].Success)
			assert.Equal(t, ErrorCode(tc.want), obs.events[0].ErrorCode)
		})
	}
}

func TestChatClient_Complete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.TimeoutMs = 50
	client := NewChatClient(cfg, nil)
	_, err := client.Complete(context.Background(), CompleteRequest{})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestChatClient_Complete_Unreachable(t *testing.T) {
	client := NewChatClient(testConfig("http://127.0.0.1:1"), nil)
	_, err := client.Complete(context.Background(), CompleteRequest{})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestConfig_ResolveModel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gpt-4o", cfg.ResolveModel("GPT-4o"))
	assert.Equal(t, cfg.Model, cfg.ResolveModel(""))
	assert.Equal(t, cfg.Model, cfg.ResolveModel("not-allowed"))
}
