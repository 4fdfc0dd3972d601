package pricing

import (
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// ComputeCompensation derives the money amounts of a compensation plan for
// a sprint total. The result is stored with the plan and rendered as is.
func ComputeCompensation(plan domain.CompPlan, totalPrice float64) (domain.CompOutputs, error) {
	if err := plan.Validate(); err != nil {
		return domain.CompOutputs{}, err
	}
	if totalPrice < 0 {
		return domain.CompOutputs{}, fmt.Errorf("%w: negative total %v", domain.ErrInvalidCompPlan, totalPrice)
	}

	upfront := totalPrice * plan.UpfrontPayment
	remainder := totalPrice - upfront
	out := domain.CompOutputs{
		TotalValue:    RoundCents(totalPrice),
		UpfrontAmount: RoundCents(upfront),
	}

	if !plan.IsDeferred {
		out.CompletionAmount = RoundCents(remainder)
		return out, nil
	}

	out.EquityAmount = RoundCents(remainder * plan.EquitySplit)
	base := remainder * (1 - plan.EquitySplit)
	out.DeferredBase = RoundCents(base)
	out.MinPayout = out.DeferredBase
	out.MaxPayout = out.DeferredBase

	maxMult := 0.0
	for _, m := range plan.Milestones {
		out.Milestones = append(out.Milestones, domain.MilestonePayout{
			Summary:    m.Summary,
			TargetDate: m.TargetDate,
			Multiplier: m.Multiplier,
			Payout:     RoundCents(base * m.Multiplier),
		})
		if m.Multiplier > maxMult {
			maxMult = m.Multiplier
		}
	}
	if maxMult > 0 {
		out.MaxPayout = RoundCents(base * maxMult)
	}
	out.MissAmount = RoundCents(base * plan.MissOutcome.Retained())
	return out, nil
}
