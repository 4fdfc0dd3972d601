package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type SprintStatus string

const (
	SprintDraft        SprintStatus = "draft"
	SprintStudioReview SprintStatus = "studio_review"
	SprintSent         SprintStatus = "sent"
	SprintAccepted     SprintStatus = "accepted"
	SprintDeclined     SprintStatus = "declined"
)

// sprintTransitions lists the statuses reachable from each status. Every
// edge moves forward.
var sprintTransitions = map[SprintStatus][]SprintStatus{
	SprintDraft:        {SprintStudioReview},
	SprintStudioReview: {SprintSent},
	SprintSent:         {SprintAccepted, SprintDeclined},
}

// CanTransition reports whether a sprint may move from s to next.
func (s SprintStatus) CanTransition(next SprintStatus) bool {
	for _, allowed := range sprintTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidSprintStatuses is the canonical set of accepted sprint status strings.
var ValidSprintStatuses = map[string]bool{
	"draft": true, "studio_review": true, "sent": true, "accepted": true, "declined": true,
}

// Complexity is a per-line multiplier applied to a deliverable's base economics.
type Complexity float64

const (
	ComplexitySimple      Complexity = 0.75
	ComplexityNormal      Complexity = 1.0
	ComplexityComplex     Complexity = 1.5
	ComplexityVeryComplex Complexity = 2.0
)

// Complexities is the enumerated multiplier set in ascending order.
var Complexities = []Complexity{ComplexitySimple, ComplexityNormal, ComplexityComplex, ComplexityVeryComplex}

// ParseComplexity accepts only values from the enumerated set.
func ParseComplexity(v float64) (Complexity, error) {
	for _, c := range Complexities {
		if float64(c) == v {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %v (allowed: 0.75, 1.0, 1.5, 2.0)", ErrInvalidComplexity, v)
}

// ParseComplexityString accepts a numeric multiplier or a label such as
// "simple" or "very complex".
func ParseComplexityString(s string) (Complexity, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch strings.ReplaceAll(strings.ReplaceAll(s, "-", " "), "_", " ") {
	case "simple":
		return ComplexitySimple, nil
	case "normal":
		return ComplexityNormal, nil
	case "complex":
		return ComplexityComplex, nil
	case "very complex":
		return ComplexityVeryComplex, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidComplexity, s)
	}
	return ParseComplexity(f)
}

func (c Complexity) Label() string {
	switch c {
	case ComplexitySimple:
		return "Simple"
	case ComplexityNormal:
		return "Normal"
	case ComplexityComplex:
		return "Complex"
	case ComplexityVeryComplex:
		return "Very Complex"
	default:
		return strconv.FormatFloat(float64(c), 'g', -1, 64)
	}
}

type UpfrontTiming string

const (
	TimingOnSigning UpfrontTiming = "on_signing"
	TimingOnKickoff UpfrontTiming = "on_kickoff"
	TimingNet15     UpfrontTiming = "net_15"
	TimingNet30     UpfrontTiming = "net_30"
)

// ValidUpfrontTimings is the canonical set of accepted upfront timing strings.
var ValidUpfrontTimings = map[string]bool{
	"on_signing": true, "on_kickoff": true, "net_15": true, "net_30": true,
}

// Phrase renders the timing as it reads inside a payment sentence.
func (t UpfrontTiming) Phrase() string {
	switch t {
	case TimingOnSigning:
		return "upon signing of this Agreement"
	case TimingNet15:
		return "within 15 days of the invoice date"
	case TimingNet30:
		return "within 30 days of the invoice date"
	default:
		return "on project kickoff"
	}
}

// MissOutcome is the policy applied when no milestone is achieved.
type MissOutcome string

const (
	MissForgiven    MissOutcome = "forgiven"
	MissReduced50   MissOutcome = "reduced-50"
	MissReduced20   MissOutcome = "reduced-20"
	MissStillOwed   MissOutcome = "still-owed"
	MissRenegotiate MissOutcome = "renegotiate"
)

// ValidMissOutcomes is the canonical set of accepted miss outcome strings.
var ValidMissOutcomes = map[string]bool{
	"forgiven": true, "reduced-50": true, "reduced-20": true, "still-owed": true, "renegotiate": true,
}

// Retained returns the fraction of the deferred base still paid on a miss.
// reduced-N reduces the payout to N% of the base.
func (m MissOutcome) Retained() float64 {
	switch m {
	case MissReduced50:
		return 0.5
	case MissReduced20:
		return 0.2
	case MissStillOwed:
		return 1
	default:
		return 0
	}
}

type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunSucceeded RunStatus = "succeeded"
	RunUnusable  RunStatus = "unusable"
	RunEmpty     RunStatus = "empty"
	RunFailed    RunStatus = "failed"
)
