package domain

import (
	"fmt"
	"math"
	"time"
)

type Milestone struct {
	Summary    string  `json:"summary"`
	TargetDate string  `json:"target_date"`
	Multiplier float64 `json:"multiplier"`
}

// CompPlan is a deferred-compensation plan attached to a sprint. The latest
// plan by creation time is the effective one.
type CompPlan struct {
	ID             string
	SprintID       string
	IsDeferred     bool
	UpfrontPayment float64
	UpfrontTiming  UpfrontTiming
	EquitySplit    float64
	Milestones     []Milestone
	MissOutcome    MissOutcome
	Outputs        *CompOutputs
	CreatedAt      time.Time
}

// Validate checks fraction ranges, enum values and milestone multipliers.
// NaN and infinities are rejected everywhere.
func (p *CompPlan) Validate() error {
	if !fraction(p.UpfrontPayment) {
		return fmt.Errorf("%w: upfront payment %v must be within [0,1]", ErrInvalidCompPlan, p.UpfrontPayment)
	}
	if !fraction(p.EquitySplit) {
		return fmt.Errorf("%w: equity split %v must be within [0,1]", ErrInvalidCompPlan, p.EquitySplit)
	}
	if p.UpfrontTiming != "" && !ValidUpfrontTimings[string(p.UpfrontTiming)] {
		return fmt.Errorf("%w: unknown upfront timing %q", ErrInvalidCompPlan, p.UpfrontTiming)
	}
	if p.MissOutcome != "" && !ValidMissOutcomes[string(p.MissOutcome)] {
		return fmt.Errorf("%w: unknown milestone miss outcome %q", ErrInvalidCompPlan, p.MissOutcome)
	}
	for i, m := range p.Milestones {
		if !(m.Multiplier > 0) || math.IsInf(m.Multiplier, 0) {
			return fmt.Errorf("%w: milestone %d multiplier must be positive", ErrInvalidCompPlan, i+1)
		}
	}
	return nil
}

func fraction(v float64) bool {
	return v >= 0 && v <= 1
}

type MilestonePayout struct {
	Summary    string  `json:"summary"`
	TargetDate string  `json:"target_date"`
	Multiplier float64 `json:"multiplier"`
	Payout     float64 `json:"payout"`
}

// CompOutputs holds the money amounts derived from a CompPlan at save time.
type CompOutputs struct {
	TotalValue       float64           `json:"total_value"`
	UpfrontAmount    float64           `json:"upfront_amount"`
	CompletionAmount float64           `json:"completion_amount"`
	EquityAmount     float64           `json:"equity_amount"`
	DeferredBase     float64           `json:"deferred_base"`
	Milestones       []MilestonePayout `json:"milestones,omitempty"`
	MinPayout        float64           `json:"min_payout"`
	MaxPayout        float64           `json:"max_payout"`
	MissAmount       float64           `json:"miss_amount"`
}
