package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/catalogimport"
	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type catalogService struct {
	deliverables repository.DeliverableRepo
	packages     repository.PackageRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func NewCatalogService(deliverables repository.DeliverableRepo, packages repository.PackageRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CatalogService {
	return &catalogService{
		deliverables: deliverables,
		packages:     packages,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *catalogService) ListDeliverables(ctx context.Context, activeOnly bool) ([]*domain.Deliverable, error) {
	return s.deliverables.List(ctx, activeOnly)
}

func (s *catalogService) ListPackages(ctx context.Context, activeOnly bool) ([]*domain.Package, error) {
	return s.packages.List(ctx, activeOnly)
}

func (s *catalogService) SetDeliverableActive(ctx context.Context, id string, active bool) (err error) {
	defer track(ctx, s.observer, "catalog.set_active", time.Now(), &err, map[string]any{"deliverable_id": id, "active": active})
	return s.deliverables.SetActive(ctx, id, active)
}

func (s *catalogService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := catalogimport.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog file: %w", err)
	}
	return s.Import(ctx, f)
}

// Import validates, converts and upserts the whole file in one transaction.
// A package whose slug already exists keeps its stored id.
func (s *catalogService) Import(ctx context.Context, f *catalogimport.CatalogFile) (res *ImportResult, err error) {
	defer track(ctx, s.observer, "catalog.import", time.Now(), &err, nil)

	if err := catalogimport.Check(f); err != nil {
		return nil, err
	}
	cat := catalogimport.Convert(f, time.Now().UTC())

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDeliverables := repository.NewSQLiteDeliverableRepo(tx)
		txPackages := repository.NewSQLitePackageRepo(tx)

		for _, d := range cat.Deliverables {
			if err := txDeliverables.Upsert(ctx, d); err != nil {
				return fmt.Errorf("importing deliverable %q: %w", d.Name, err)
			}
		}
		for _, p := range cat.Packages {
			existing, err := txPackages.GetBySlug(ctx, p.Slug)
			switch {
			case err == nil:
				p.ID = existing.ID
				p.CreatedAt = existing.CreatedAt
			case !errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("looking up package %q: %w", p.Slug, err)
			}
			if err := txPackages.Upsert(ctx, p); err != nil {
				return fmt.Errorf("importing package %q: %w", p.Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		DeliverableCount: len(cat.Deliverables),
		PackageCount:     len(cat.Packages),
	}, nil
}
