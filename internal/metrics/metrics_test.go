package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/llm"
)

func TestMetrics_LLMObserver(t *testing.T) {
	m := New()
	var obs llm.Observer = m

	obs.OnCallComplete(llm.LLMCallEvent{Model: "gpt-4o", Success: true, LatencyMs: 1200, PromptTokens: 100, CompletionTokens: 20})
	obs.OnCallComplete(llm.LLMCallEvent{Model: "gpt-4o", Success: false, ErrorCode: "RATE_LIMITED"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("gpt-4o", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("gpt-4o", "RATE_LIMITED")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.llmTokens.WithLabelValues("gpt-4o", "prompt")))
}

func TestMetrics_OutcomesAndHandler(t *testing.T) {
	m := New()
	m.ProposalOutcome("succeeded")
	m.ProposalOutcome("succeeded")
	m.NotificationResult(false)
	m.ObserveHTTP("GET", "/api/sprints/:id", "200", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.proposals.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/sprints/:id", "200")))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sprintdesk_proposals_total{outcome="succeeded"} 2`)
	assert.Contains(t, string(body), "go_goroutines")
}
