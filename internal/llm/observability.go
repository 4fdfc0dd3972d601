package llm

import "log/slog"

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Model            string
	LatencyMs        int64
	Success          bool
	ErrorCode        string
	PromptTokens     int
	CompletionTokens int
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a slog.Logger.
type LogObserver struct {
	log *slog.Logger
}

// NewLogObserver creates an Observer that logs events. A nil logger uses
// slog.Default.
func NewLogObserver(log *slog.Logger) *LogObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	if !event.Success {
		o.log.Warn("llm_call",
			"model", event.Model,
			"latency_ms", event.LatencyMs,
			"error_code", event.ErrorCode,
		)
		return
	}
	o.log.Info("llm_call",
		"model", event.Model,
		"latency_ms", event.LatencyMs,
		"prompt_tokens", event.PromptTokens,
		"completion_tokens", event.CompletionTokens,
	)
}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(event)
		}
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
