// Package apierr maps domain and upstream errors to an HTTP status and a
// stable machine code.
package apierr

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexanderramin/sprintdesk/internal/agreement"
	"github.com/alexanderramin/sprintdesk/internal/catalogimport"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/llm"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

// Error is a classified error.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Codes returned by Classify.
const (
	CodeLLMNotConfigured    = "llm_not_configured"
	CodeDocumentTooLarge    = "document_too_large"
	CodeInvalidInput        = "invalid_input"
	CodeInvalidComplexity   = "invalid_complexity"
	CodeInvalidQuantity     = "invalid_quantity"
	CodeInvalidCompPlan     = "invalid_comp_plan"
	CodeInvalidCatalog      = "invalid_catalog"
	CodeInactiveDeliverable = "inactive_deliverable"
	CodeInvalidTransition   = "invalid_transition"
	CodeSprintLocked        = "sprint_locked"
	CodeNotFound            = "not_found"
	CodeLLMAuthFailed       = "llm_auth_failed"
	CodeLLMRateLimited      = "llm_rate_limited"
	CodeLLMTimeout          = "llm_timeout"
	CodeLLMUpstream         = "llm_upstream_error"
	CodeProposalUnusable    = "proposal_unusable"
	CodeProposalEmpty       = "proposal_empty"
	CodeOutputsMissing      = "comp_plan_outputs_missing"
	CodeOutputsStale        = "comp_plan_stale"
	CodeTemplate            = "agreement_template_error"
	CodeCancelled           = "request_cancelled"
	CodeInternal            = "internal_error"
)

// rules is checked in order; the first sentinel matched by errors.Is wins.
// Unusable comes before the llm sentinels since a RunError may carry both.
var rules = []struct {
	target error
	status int
	code   string
}{
	{llm.ErrMissingCredentials, http.StatusServiceUnavailable, CodeLLMNotConfigured},
	{proposal.ErrDocumentTooLarge, http.StatusRequestEntityTooLarge, CodeDocumentTooLarge},
	{proposal.ErrUnusableResponse, http.StatusAccepted, CodeProposalUnusable},
	{proposal.ErrEmptyRecommendation, http.StatusUnprocessableEntity, CodeProposalEmpty},
	{domain.ErrInvalidComplexity, http.StatusBadRequest, CodeInvalidComplexity},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, CodeInvalidQuantity},
	{domain.ErrInvalidCompPlan, http.StatusBadRequest, CodeInvalidCompPlan},
	{catalogimport.ErrInvalidCatalog, http.StatusBadRequest, CodeInvalidCatalog},
	{domain.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
	{domain.ErrInactiveDeliverable, http.StatusConflict, CodeInactiveDeliverable},
	{domain.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{domain.ErrSprintLocked, http.StatusLocked, CodeSprintLocked},
	{agreement.ErrMissingOutputs, http.StatusConflict, CodeOutputsMissing},
	{agreement.ErrStaleOutputs, http.StatusConflict, CodeOutputsStale},
	{repository.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{llm.ErrAuthFailed, http.StatusFailedDependency, CodeLLMAuthFailed},
	{llm.ErrRateLimited, http.StatusTooManyRequests, CodeLLMRateLimited},
	{llm.ErrTimeout, http.StatusGatewayTimeout, CodeLLMTimeout},
	{llm.ErrUpstream, http.StatusBadGateway, CodeLLMUpstream},
	{agreement.ErrUnresolvedPlaceholder, http.StatusInternalServerError, CodeTemplate},
	{context.Canceled, http.StatusRequestTimeout, CodeCancelled},
}

// Classify returns the status and code for err. Unknown errors are
// internal. A nil error yields nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	for _, r := range rules {
		if errors.Is(err, r.target) {
			return &Error{Status: r.status, Code: r.code, Err: err}
		}
	}
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Err: err}
}

// Invalid wraps a request validation message as an invalid_input error.
func Invalid(msg string) error {
	return &Error{Status: http.StatusBadRequest, Code: CodeInvalidInput, Err: errors.New(msg)}
}
