package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/sprintdesk/internal/llm"
)

// FakeLLM is a scripted llm.LLMClient. Each call returns Text or Err and
// records the request.
type FakeLLM struct {
	Text     string
	Err      error
	Model    string
	Usage    llm.Usage
	NoCreds  bool
	Requests []llm.CompleteRequest

	mu sync.Mutex
}

func (f *FakeLLM) CheckConfig() error {
	if f.NoCreds {
		return llm.ErrMissingCredentials
	}
	return nil
}

func (f *FakeLLM) Complete(_ context.Context, req llm.CompleteRequest) (*llm.CompleteResponse, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	f.mu.Unlock()

	if err := f.CheckConfig(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	model := f.Model
	if model == "" {
		model = req.Model
	}
	return &llm.CompleteResponse{Text: f.Text, Model: model, Usage: f.Usage, LatencyMs: 3}, nil
}

// Calls returns how many completions were requested.
func (f *FakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
