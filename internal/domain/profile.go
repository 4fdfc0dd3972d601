package domain

import (
	"strings"
	"time"
)

// ClientProfile is the canonical view of an intake submission. Every field
// is optional.
type ClientProfile struct {
	ProjectName             string   `json:"project_name,omitempty"`
	FirstName               string   `json:"first_name,omitempty"`
	LastName                string   `json:"last_name,omitempty"`
	FullName                string   `json:"full_name,omitempty"`
	Email                   string   `json:"email,omitempty"`
	ProjectDescription      string   `json:"project_description,omitempty"`
	CurrentStage            string   `json:"current_stage,omitempty"`
	Roles                   []string `json:"roles,omitempty"`
	TeamSize                string   `json:"team_size,omitempty"`
	HelpNeeded              string   `json:"help_needed,omitempty"`
	ExistingDesigns         string   `json:"existing_designs,omitempty"`
	PrioritizedDeliverables []string `json:"prioritized_deliverables,omitempty"`
	MainUseCases            []string `json:"main_use_cases,omitempty"`
	Timeline                string   `json:"timeline,omitempty"`
}

// ContactName returns the full name, or first and last joined, or "".
func (p ClientProfile) ContactName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// IsEmpty reports whether no field was extracted.
func (p ClientProfile) IsEmpty() bool {
	return p.ProjectName == "" && p.ContactName() == "" && p.Email == "" &&
		p.ProjectDescription == "" && p.CurrentStage == "" && len(p.Roles) == 0 &&
		p.TeamSize == "" && p.HelpNeeded == "" && p.ExistingDesigns == "" &&
		len(p.PrioritizedDeliverables) == 0 && len(p.MainUseCases) == 0 && p.Timeline == ""
}

// Submission is a stored intake document as received from the form provider.
type Submission struct {
	ID         string
	Source     string
	Payload    []byte
	ReceivedAt time.Time
}

// ProposalRun is the audit record of one proposal generation attempt.
type ProposalRun struct {
	ID               string
	SubmissionID     string
	IdempotencyKey   string
	Model            string
	Status           RunStatus
	RawResponse      string
	PromptTokens     int
	CompletionTokens int
	LatencyMs        int64
	Error            string
	SprintID         *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
