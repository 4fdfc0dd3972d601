package domain

import "errors"

var (
	// ErrInvalidComplexity indicates a multiplier outside the enumerated set.
	ErrInvalidComplexity = errors.New("invalid complexity score")

	// ErrInvalidQuantity indicates a line quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInactiveDeliverable indicates an attempt to use a deliverable that
	// is not active in the catalog.
	ErrInactiveDeliverable = errors.New("deliverable is not active")

	// ErrInvalidCompPlan indicates a compensation plan with out-of-range values.
	ErrInvalidCompPlan = errors.New("invalid compensation plan")

	// ErrInvalidTransition indicates a disallowed sprint status change.
	ErrInvalidTransition = errors.New("invalid sprint status transition")

	// ErrSprintLocked indicates an edit to a sprint that was already sent.
	ErrSprintLocked = errors.New("sprint is no longer editable")

	// ErrInvalidInput indicates a malformed request argument.
	ErrInvalidInput = errors.New("invalid input")
)
