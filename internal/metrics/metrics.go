// Package metrics exposes Prometheus collectors for model calls, proposal
// outcomes and notification sends.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/sprintdesk/internal/llm"
)

// Metrics owns a private registry so tests and multiple instances do not
// collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	llmCalls      *prometheus.CounterVec
	llmDuration   *prometheus.HistogramVec
	llmTokens     *prometheus.CounterVec
	proposals     *prometheus.CounterVec
	notifications *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sprintdesk_llm_calls_total",
			Help: "Model calls by model and outcome code.",
		}, []string{"model", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sprintdesk_llm_call_duration_seconds",
			Help:    "Model call latency.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		}, []string{"model"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sprintdesk_llm_tokens_total",
			Help: "Tokens reported by the provider.",
		}, []string{"model", "kind"}),
		proposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sprintdesk_proposals_total",
			Help: "Proposal generation attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sprintdesk_notifications_total",
			Help: "Notification sends by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sprintdesk_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sprintdesk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.llmCalls, m.llmDuration, m.llmTokens, m.proposals, m.notifications,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// OnCallComplete implements llm.Observer.
func (m *Metrics) OnCallComplete(e llm.LLMCallEvent) {
	outcome := "ok"
	if !e.Success {
		outcome = e.ErrorCode
	}
	m.llmCalls.WithLabelValues(e.Model, outcome).Inc()
	m.llmDuration.WithLabelValues(e.Model).Observe(float64(e.LatencyMs) / 1000)
	if e.PromptTokens > 0 {
		m.llmTokens.WithLabelValues(e.Model, "prompt").Add(float64(e.PromptTokens))
	}
	if e.CompletionTokens > 0 {
		m.llmTokens.WithLabelValues(e.Model, "completion").Add(float64(e.CompletionTokens))
	}
}

func (m *Metrics) ProposalOutcome(outcome string) {
	m.proposals.WithLabelValues(outcome).Inc()
}

func (m *Metrics) NotificationResult(success bool) {
	result := "sent"
	if !success {
		result = "failed"
	}
	m.notifications.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
