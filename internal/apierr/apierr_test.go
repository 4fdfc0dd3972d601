package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/agreement"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/llm"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

func TestClassify_Sentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{llm.ErrMissingCredentials, http.StatusServiceUnavailable, CodeLLMNotConfigured},
		{fmt.Errorf("%w: 200001 bytes", proposal.ErrDocumentTooLarge), http.StatusRequestEntityTooLarge, CodeDocumentTooLarge},
		{fmt.Errorf("line: %w", domain.ErrInvalidComplexity), http.StatusBadRequest, CodeInvalidComplexity},
		{domain.ErrInactiveDeliverable, http.StatusConflict, CodeInactiveDeliverable},
		{fmt.Errorf("sprint x: %w", repository.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{llm.ErrAuthFailed, http.StatusFailedDependency, CodeLLMAuthFailed},
		{llm.ErrRateLimited, http.StatusTooManyRequests, CodeLLMRateLimited},
		{llm.ErrTimeout, http.StatusGatewayTimeout, CodeLLMTimeout},
		{llm.ErrUpstream, http.StatusBadGateway, CodeLLMUpstream},
		{proposal.ErrEmptyRecommendation, http.StatusUnprocessableEntity, CodeProposalEmpty},
		{agreement.ErrUnresolvedPlaceholder, http.StatusInternalServerError, CodeTemplate},
		{fmt.Errorf("%w: plan $1, sprint $2", agreement.ErrStaleOutputs), http.StatusConflict, CodeOutputsStale},
		{context.Canceled, http.StatusRequestTimeout, CodeCancelled},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_UnusableRunWinsOverInvalidOutput(t *testing.T) {
	err := &proposal.RunError{RunID: "run-1", Kind: proposal.ErrUnusableResponse, Err: llm.ErrInvalidOutput}
	got := Classify(err)
	assert.Equal(t, http.StatusAccepted, got.Status)
	assert.Equal(t, CodeProposalUnusable, got.Code)

	runID, ok := proposal.RunIDOf(got)
	assert.True(t, ok)
	assert.Equal(t, "run-1", runID)
}

func TestClassify_UpstreamRunErrorKeepsSubtype(t *testing.T) {
	err := &proposal.RunError{RunID: "run-2", Kind: llm.ErrRateLimited}
	assert.Equal(t, CodeLLMRateLimited, Classify(err).Code)
}

func TestClassify_PassesThroughAndNil(t *testing.T) {
	assert.Nil(t, Classify(nil))

	inv := Invalid("quantity is required")
	got := Classify(fmt.Errorf("binding: %w", inv))
	assert.Equal(t, http.StatusBadRequest, got.Status)
	assert.Equal(t, CodeInvalidInput, got.Code)
	assert.Equal(t, "quantity is required", got.Error())
}

func TestClassify_CodesAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range rules {
		assert.False(t, seen[r.code], r.code)
		seen[r.code] = true
	}
}
