package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type compPlanService struct {
	plans    repository.CompPlanRepo
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

func NewCompPlanService(plans repository.CompPlanRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CompPlanService {
	return &compPlanService{
		plans:    plans,
		uow:      uow,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

// Save stores a new plan for the sprint. Its outputs are computed here from
// the total recomputed over the sprint's current lines. Later line edits
// refresh them.
func (s *compPlanService) Save(ctx context.Context, sprintID string, plan *domain.CompPlan) (saved *domain.CompPlan, err error) {
	defer track(ctx, s.observer, "comp_plan.save", time.Now(), &err, map[string]any{"sprint_id": sprintID, "deferred": plan.IsDeferred})

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	p := *plan
	p.ID = uuid.New().String()
	p.SprintID = sprintID
	p.CreatedAt = s.now()
	if p.UpfrontTiming == "" {
		p.UpfrontTiming = domain.TimingOnKickoff
	}
	if p.MissOutcome == "" {
		p.MissOutcome = domain.MissForgiven
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newSprintTx(tx)
		sp, err := r.sprints.GetByID(ctx, sprintID)
		if err != nil {
			return err
		}
		if !sp.Editable() {
			return fmt.Errorf("%w: sprint %s is %s", domain.ErrSprintLocked, sp.ID, sp.Status)
		}
		if err := recomputeTotals(ctx, r, sp, p.CreatedAt); err != nil {
			return err
		}
		out, err := pricing.ComputeCompensation(p, sp.TotalPrice)
		if err != nil {
			return err
		}
		p.Outputs = &out
		return r.plans.Create(ctx, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *compPlanService) Latest(ctx context.Context, sprintID string) (*domain.CompPlan, error) {
	return s.plans.Latest(ctx, sprintID)
}
