package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompleteRequest holds the parameters for a chat completion call.
type CompleteRequest struct {
	Model          string
	Messages       []Message
	IdempotencyKey string
	Temperature    *float64 // nil uses config default
	MaxTokens      *int     // nil uses config default
}

// Usage reports provider token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// CompleteResponse holds the result of a chat completion call.
type CompleteResponse struct {
	Text      string
	Model     string
	Usage     Usage
	LatencyMs int64
}

// LLMClient provides access to a chat-completions language model.
type LLMClient interface {
	// CheckConfig reports ErrMissingCredentials before any work is done.
	CheckConfig() error

	// Complete sends the messages and returns the raw text of the first choice.
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error)
}

// chatClient implements LLMClient against an OpenAI-compatible endpoint.
type chatClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewChatClient creates an LLMClient for an OpenAI-compatible chat API.
func NewChatClient(cfg Config, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &chatClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

func (c *chatClient) CheckConfig() error {
	if !c.cfg.HasCredentials() {
		return ErrMissingCredentials
	}
	return nil
}

func (c *chatClient) Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error) {
	if err := c.CheckConfig(); err != nil {
		return nil, err
	}
	start := time.Now()

	model := c.cfg.ResolveModel(req.Model)
	temp := c.cfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := c.cfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	callCtx := ctx
	if c.cfg.TimeoutMs > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	body := chatRequest{
		Model:          model,
		Messages:       req.Messages,
		Temperature:    temp,
		MaxTokens:      maxTok,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	resp, err := c.doRequest(callCtx, body, req.IdempotencyKey)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		switch {
		case ctx.Err() != nil:
			err = fmt.Errorf("llm call cancelled: %w", ctx.Err())
		case errors.Is(callCtx.Err(), context.DeadlineExceeded):
			err = ErrTimeout
		}
		c.observer.OnCallComplete(LLMCallEvent{
			Model:     model,
			LatencyMs: latency,
			Success:   false,
			ErrorCode: ErrorCode(err),
		})
		return nil, err
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	if resp.Model == "" {
		resp.Model = model
	}
	c.observer.OnCallComplete(LLMCallEvent{
		Model:            resp.Model,
		LatencyMs:        latency,
		Success:          true,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	})
	return &CompleteResponse{
		Text:      text,
		Model:     resp.Model,
		Usage:     resp.Usage,
		LatencyMs: latency,
	}, nil
}

func (c *chatClient) doRequest(ctx context.Context, body chatRequest, idempotencyKey string) (*chatResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, statusError(httpResp.StatusCode, string(respBody))
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	return &resp, nil
}
