package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// ErrNotFound is returned when a lookup by identifier matches no row.
var ErrNotFound = errors.New("not found")

// MaxCatalogRows caps catalog listings used to ground a proposal.
const MaxCatalogRows = 500

// PackageDeliverable pairs a package item with its active catalog row.
type PackageDeliverable struct {
	Item        domain.PackageItem
	Deliverable domain.Deliverable
}

type DeliverableRepo interface {
	Upsert(ctx context.Context, d *domain.Deliverable) error
	GetByID(ctx context.Context, id string) (*domain.Deliverable, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Deliverable, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type PackageRepo interface {
	Upsert(ctx context.Context, p *domain.Package) error
	GetByID(ctx context.Context, id string) (*domain.Package, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Package, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Package, error)
	ActiveDeliverables(ctx context.Context, packageID string) ([]PackageDeliverable, error)
}

type SubmissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, limit int) ([]*domain.Submission, error)
}

type SprintRepo interface {
	Create(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)
	Update(ctx context.Context, s *domain.Sprint) error
	List(ctx context.Context, limit int) ([]*domain.Sprint, error)
	CountBySubmission(ctx context.Context, submissionID string) (int, error)
}

type SprintLineRepo interface {
	Create(ctx context.Context, l *domain.SprintLine) error
	GetByID(ctx context.Context, id string) (*domain.SprintLine, error)
	ListBySprint(ctx context.Context, sprintID string) ([]domain.SprintLine, error)
	Update(ctx context.Context, l *domain.SprintLine) error
	Delete(ctx context.Context, id string) error
}

type CompPlanRepo interface {
	Create(ctx context.Context, p *domain.CompPlan) error
	Latest(ctx context.Context, sprintID string) (*domain.CompPlan, error)
	UpdateOutputs(ctx context.Context, id string, out *domain.CompOutputs) error
}

type ProposalRunRepo interface {
	Create(ctx context.Context, r *domain.ProposalRun) error
	GetByID(ctx context.Context, id string) (*domain.ProposalRun, error)
	Update(ctx context.Context, r *domain.ProposalRun) error
	ListBySubmission(ctx context.Context, submissionID string) ([]*domain.ProposalRun, error)
}
