package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/agreement"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type agreementService struct {
	sprints      repository.SprintRepo
	lines        repository.SprintLineRepo
	deliverables repository.DeliverableRepo
	plans        repository.CompPlanRepo
	composer     *agreement.Composer
	observer     UseCaseObserver
}

func NewAgreementService(
	sprints repository.SprintRepo,
	lines repository.SprintLineRepo,
	deliverables repository.DeliverableRepo,
	plans repository.CompPlanRepo,
	composer *agreement.Composer,
	observers ...UseCaseObserver,
) AgreementService {
	return &agreementService{
		sprints:      sprints,
		lines:        lines,
		deliverables: deliverables,
		plans:        plans,
		composer:     composer,
		observer:     useCaseObserverOrNoop(observers),
	}
}

// Generate renders the agreement from stored data only. Lines still linked
// to the catalog show the live catalog scope; unlinked lines fall back to
// their snapshot.
func (s *agreementService) Generate(ctx context.Context, sprintID, effectiveDate string) (doc *agreement.Document, err error) {
	defer track(ctx, s.observer, "agreement.generate", time.Now(), &err, map[string]any{"sprint_id": sprintID})

	sp, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	lines, err := s.lines.ListBySprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	views := make([]agreement.LineView, len(lines))
	for i, l := range lines {
		views[i] = agreement.LineView{Line: l, CatalogScope: l.ScopeSnapshot}
		if l.DeliverableID == nil {
			continue
		}
		d, err := s.deliverables.GetByID(ctx, *l.DeliverableID)
		switch {
		case err == nil:
			views[i].CatalogScope = d.Scope
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	plan, err := latestPlan(ctx, s.plans, sprintID)
	if err != nil {
		return nil, err
	}

	out, err := s.composer.Compose(agreement.Input{
		Sprint:        *sp,
		Lines:         views,
		Plan:          plan,
		EffectiveDate: effectiveDate,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
