// Package httpapi exposes the sprintdesk use cases over HTTP with gin.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sprintdesk/internal/apierr"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	RunID   string `json:"run_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError classifies err and writes the error envelope. Errors tied to
// a proposal run carry its id so the audit record can be fetched.
func RespondError(c *gin.Context, err error) {
	ae := apierr.Classify(err)
	if ae == nil {
		ae = &apierr.Error{Status: http.StatusInternalServerError, Code: apierr.CodeInternal}
	}
	msg := "unknown error"
	if ae.Err != nil {
		msg = ae.Err.Error()
	}
	body := ErrorEnvelope{Error: APIError{Message: msg, Code: ae.Code}}
	if runID, ok := proposal.RunIDOf(err); ok {
		body.Error.RunID = runID
	}
	_ = c.Error(err)
	c.JSON(ae.Status, body)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
