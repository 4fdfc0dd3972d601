package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type sprintService struct {
	sprints  repository.SprintRepo
	lines    repository.SprintLineRepo
	plans    repository.CompPlanRepo
	uow      db.UnitOfWork
	pricing  pricing.Config
	now      func() time.Time
	observer UseCaseObserver
}

func NewSprintService(
	sprints repository.SprintRepo,
	lines repository.SprintLineRepo,
	plans repository.CompPlanRepo,
	uow db.UnitOfWork,
	cfg pricing.Config,
	observers ...UseCaseObserver,
) SprintService {
	return &sprintService{
		sprints:  sprints,
		lines:    lines,
		plans:    plans,
		uow:      uow,
		pricing:  cfg,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *sprintService) Get(ctx context.Context, id string) (*SprintDetail, error) {
	sp, err := s.sprints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.lines.ListBySprint(ctx, id)
	if err != nil {
		return nil, err
	}
	plan, err := latestPlan(ctx, s.plans, id)
	if err != nil {
		return nil, err
	}
	return &SprintDetail{Sprint: sp, Lines: lines, Plan: plan}, nil
}

func (s *sprintService) List(ctx context.Context, limit int) ([]*domain.Sprint, error) {
	return s.sprints.List(ctx, limit)
}

// AddDeliverable appends a line for an active deliverable.
func (s *sprintService) AddDeliverable(ctx context.Context, sprintID, deliverableID string, quantity int, complexity domain.Complexity) (line *domain.SprintLine, err error) {
	defer track(ctx, s.observer, "sprint.add_deliverable", time.Now(), &err, map[string]any{"sprint_id": sprintID, "deliverable_id": deliverableID})

	_, err = s.edit(ctx, sprintID, func(ctx context.Context, r sprintTx, sp *domain.Sprint) error {
		d, err := r.deliverables.GetByID(ctx, deliverableID)
		if err != nil {
			return err
		}
		if !d.Active {
			return fmt.Errorf("%w: %s", domain.ErrInactiveDeliverable, d.Name)
		}
		existing, err := r.lines.ListBySprint(ctx, sp.ID)
		if err != nil {
			return err
		}
		l, err := s.pricing.SnapshotLine(*d, quantity, complexity)
		if err != nil {
			return err
		}
		l.ID = uuid.New().String()
		l.SprintID = sp.ID
		l.SortOrder = nextSortOrder(existing)
		l.CreatedAt = s.now()
		if err := r.lines.Create(ctx, &l); err != nil {
			return err
		}
		line = &l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// ApplyPackage appends one line per active package item and links the
// sprint to the package.
func (s *sprintService) ApplyPackage(ctx context.Context, sprintID, packageID string) (added int, err error) {
	defer track(ctx, s.observer, "sprint.apply_package", time.Now(), &err, map[string]any{"sprint_id": sprintID, "package_id": packageID})

	_, err = s.edit(ctx, sprintID, func(ctx context.Context, r sprintTx, sp *domain.Sprint) error {
		pkg, err := r.packages.GetByID(ctx, packageID)
		if errors.Is(err, repository.ErrNotFound) {
			pkg, err = r.packages.GetBySlug(ctx, packageID)
		}
		if err != nil {
			return err
		}
		if !pkg.Active {
			return fmt.Errorf("%w: package %s is not active", domain.ErrInvalidInput, pkg.Slug)
		}
		items, err := r.packages.ActiveDeliverables(ctx, pkg.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: package %s has no active deliverables", domain.ErrInvalidInput, pkg.Slug)
		}
		existing, err := r.lines.ListBySprint(ctx, sp.ID)
		if err != nil {
			return err
		}
		order := nextSortOrder(existing)
		for _, it := range items {
			l, err := s.pricing.SnapshotLine(it.Deliverable, it.Item.Quantity, domain.ComplexityNormal)
			if err != nil {
				return err
			}
			l.ID = uuid.New().String()
			l.SprintID = sp.ID
			l.SortOrder = order
			l.CreatedAt = s.now()
			if err := r.lines.Create(ctx, &l); err != nil {
				return err
			}
			order++
			added++
		}
		sp.PackageID = &pkg.ID
		return nil
	})
	return added, err
}

// UpdateLine applies u and recomputes the line and the sprint totals.
func (s *sprintService) UpdateLine(ctx context.Context, sprintID, lineID string, u LineUpdate) (line *domain.SprintLine, err error) {
	defer track(ctx, s.observer, "sprint.update_line", time.Now(), &err, map[string]any{"sprint_id": sprintID, "line_id": lineID})

	_, err = s.edit(ctx, sprintID, func(ctx context.Context, r sprintTx, sp *domain.Sprint) error {
		l, err := r.line(ctx, sp.ID, lineID)
		if err != nil {
			return err
		}
		if u.Quantity != nil {
			l.Quantity = *u.Quantity
		}
		if u.Complexity != nil {
			c, err := domain.ParseComplexity(float64(*u.Complexity))
			if err != nil {
				return err
			}
			l.Complexity = c
		}
		if u.Notes != nil {
			l.Notes = *u.Notes
		}
		if u.CustomScope != nil {
			l.CustomScope = *u.CustomScope
		}
		if err := pricing.ApplyLine(l); err != nil {
			return err
		}
		if err := r.lines.Update(ctx, l); err != nil {
			return err
		}
		line = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *sprintService) SetComplexity(ctx context.Context, sprintID, lineID string, c domain.Complexity) (*domain.SprintLine, error) {
	return s.UpdateLine(ctx, sprintID, lineID, LineUpdate{Complexity: &c})
}

func (s *sprintService) SetQuantity(ctx context.Context, sprintID, lineID string, quantity int) (*domain.SprintLine, error) {
	return s.UpdateLine(ctx, sprintID, lineID, LineUpdate{Quantity: &quantity})
}

func (s *sprintService) SetLineNotes(ctx context.Context, sprintID, lineID, notes string) (*domain.SprintLine, error) {
	return s.UpdateLine(ctx, sprintID, lineID, LineUpdate{Notes: &notes})
}

func (s *sprintService) RemoveLine(ctx context.Context, sprintID, lineID string) (err error) {
	defer track(ctx, s.observer, "sprint.remove_line", time.Now(), &err, map[string]any{"sprint_id": sprintID, "line_id": lineID})

	_, err = s.edit(ctx, sprintID, func(ctx context.Context, r sprintTx, sp *domain.Sprint) error {
		if _, err := r.line(ctx, sp.ID, lineID); err != nil {
			return err
		}
		return r.lines.Delete(ctx, lineID)
	})
	return err
}

// SetStatus moves the sprint along its status graph. Lines are not touched.
func (s *sprintService) SetStatus(ctx context.Context, sprintID string, status domain.SprintStatus) (sp *domain.Sprint, err error) {
	defer track(ctx, s.observer, "sprint.set_status", time.Now(), &err, map[string]any{"sprint_id": sprintID, "status": string(status)})

	if !domain.ValidSprintStatuses[string(status)] {
		return nil, fmt.Errorf("%w: unknown sprint status %q", domain.ErrInvalidInput, status)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSprints := repository.NewSQLiteSprintRepo(tx)
		var err error
		sp, err = txSprints.GetByID(ctx, sprintID)
		if err != nil {
			return err
		}
		if err := sp.Transition(status, s.now()); err != nil {
			return err
		}
		return txSprints.Update(ctx, sp)
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

// sprintTx bundles the tx-scoped repositories an edit needs.
type sprintTx struct {
	sprints      *repository.SQLiteSprintRepo
	lines        *repository.SQLiteSprintLineRepo
	deliverables *repository.SQLiteDeliverableRepo
	packages     *repository.SQLitePackageRepo
	plans        *repository.SQLiteCompPlanRepo
}

func newSprintTx(tx db.DBTX) sprintTx {
	return sprintTx{
		sprints:      repository.NewSQLiteSprintRepo(tx),
		lines:        repository.NewSQLiteSprintLineRepo(tx),
		deliverables: repository.NewSQLiteDeliverableRepo(tx),
		packages:     repository.NewSQLitePackageRepo(tx),
		plans:        repository.NewSQLiteCompPlanRepo(tx),
	}
}

// line loads lineID and checks it belongs to sprintID.
func (r sprintTx) line(ctx context.Context, sprintID, lineID string) (*domain.SprintLine, error) {
	l, err := r.lines.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if l.SprintID != sprintID {
		return nil, fmt.Errorf("sprint line %s: %w", lineID, repository.ErrNotFound)
	}
	return l, nil
}

// edit runs fn against an editable sprint, recomputes the sprint totals from
// its full line set and refreshes the effective comp plan's outputs, all in
// one transaction.
func (s *sprintService) edit(ctx context.Context, sprintID string, fn func(ctx context.Context, r sprintTx, sp *domain.Sprint) error) (*domain.Sprint, error) {
	var sp *domain.Sprint
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newSprintTx(tx)
		var err error
		sp, err = r.sprints.GetByID(ctx, sprintID)
		if err != nil {
			return err
		}
		if !sp.Editable() {
			return fmt.Errorf("%w: sprint %s is %s", domain.ErrSprintLocked, sp.ID, sp.Status)
		}
		if err := fn(ctx, r, sp); err != nil {
			return err
		}
		if err := recomputeTotals(ctx, r, sp, s.now()); err != nil {
			return err
		}
		return refreshPlanOutputs(ctx, r, sp)
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func recomputeTotals(ctx context.Context, r sprintTx, sp *domain.Sprint, now time.Time) error {
	lines, err := r.lines.ListBySprint(ctx, sp.ID)
	if err != nil {
		return err
	}
	if err := pricing.AggregateSprint(sp, lines); err != nil {
		return fmt.Errorf("recomputing sprint totals: %w", err)
	}
	sp.UpdatedAt = now
	return r.sprints.Update(ctx, sp)
}

// refreshPlanOutputs recomputes the latest plan's money amounts against the
// sprint's current total so agreements never mix two totals.
func refreshPlanOutputs(ctx context.Context, r sprintTx, sp *domain.Sprint) error {
	plan, err := r.plans.Latest(ctx, sp.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	out, err := pricing.ComputeCompensation(*plan, sp.TotalPrice)
	if err != nil {
		return fmt.Errorf("refreshing comp plan outputs: %w", err)
	}
	return r.plans.UpdateOutputs(ctx, plan.ID, &out)
}

func nextSortOrder(lines []domain.SprintLine) int {
	next := 0
	for _, l := range lines {
		if l.SortOrder >= next {
			next = l.SortOrder + 1
		}
	}
	return next
}

// latestPlan returns the effective comp plan or nil when none was saved.
func latestPlan(ctx context.Context, plans repository.CompPlanRepo, sprintID string) (*domain.CompPlan, error) {
	p, err := plans.Latest(ctx, sprintID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}
