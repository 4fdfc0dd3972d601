package domain

import (
	"fmt"
	"time"
)

// DefaultSprintTitle is used when neither the model nor the client profile
// yields a usable title.
const DefaultSprintTitle = "Sprint Plan"

type Sprint struct {
	ID               string
	Title            string
	Status           SprintStatus
	PackageID        *string
	SubmissionID     *string
	ClientName       string
	ClientEmail      string
	ProjectName      string
	Summary          string
	TotalPoints      float64
	TotalHours       float64
	TotalPrice       float64
	DeliverableCount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Transition moves the sprint to next if the status graph allows it.
func (s *Sprint) Transition(next SprintStatus, now time.Time) error {
	if !s.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, next)
	}
	s.Status = next
	s.UpdatedAt = now
	return nil
}

// Editable reports whether lines and plans may still change.
func (s *Sprint) Editable() bool {
	return s.Status == SprintDraft || s.Status == SprintStudioReview
}

// SprintLine is one deliverable row of a sprint. The snapshot fields keep
// the line meaningful after its catalog source is removed.
type SprintLine struct {
	ID               string
	SprintID         string
	DeliverableID    *string
	NameSnapshot     string
	CategorySnapshot string
	ScopeSnapshot    string
	BasePoints       float64
	BaseHours        float64
	BasePrice        float64
	Quantity         int
	Complexity       Complexity
	CustomScope      string
	Notes            string
	SortOrder        int
	CustomPoints     float64
	CustomHours      float64
	CustomPrice      float64
	CreatedAt        time.Time
}
