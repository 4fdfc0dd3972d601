package service

import (
	"context"

	"github.com/alexanderramin/sprintdesk/internal/agreement"
	"github.com/alexanderramin/sprintdesk/internal/catalogimport"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
)

// ImportResult holds the outcome of a catalog import.
type ImportResult struct {
	DeliverableCount int
	PackageCount     int
}

type CatalogService interface {
	ListDeliverables(ctx context.Context, activeOnly bool) ([]*domain.Deliverable, error)
	ListPackages(ctx context.Context, activeOnly bool) ([]*domain.Package, error)
	SetDeliverableActive(ctx context.Context, id string, active bool) error
	Import(ctx context.Context, f *catalogimport.CatalogFile) (*ImportResult, error)
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
}

type SubmissionService interface {
	Create(ctx context.Context, source string, payload []byte) (*domain.Submission, error)
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, limit int) ([]*domain.Submission, error)
	Profile(ctx context.Context, id string) (domain.ClientProfile, error)
}

type ProposalService interface {
	Generate(ctx context.Context, submissionID string) (*proposal.Result, error)
	GetRun(ctx context.Context, id string) (*domain.ProposalRun, error)
	ListRuns(ctx context.Context, submissionID string) ([]*domain.ProposalRun, error)
}

// SprintDetail is a sprint with its lines and effective comp plan.
type SprintDetail struct {
	Sprint *domain.Sprint
	Lines  []domain.SprintLine
	Plan   *domain.CompPlan
}

// LineUpdate lists the editable fields of a sprint line. Nil fields are
// left unchanged.
type LineUpdate struct {
	Quantity    *int
	Complexity  *domain.Complexity
	Notes       *string
	CustomScope *string
}

type SprintService interface {
	Get(ctx context.Context, id string) (*SprintDetail, error)
	List(ctx context.Context, limit int) ([]*domain.Sprint, error)
	AddDeliverable(ctx context.Context, sprintID, deliverableID string, quantity int, complexity domain.Complexity) (*domain.SprintLine, error)
	ApplyPackage(ctx context.Context, sprintID, packageID string) (int, error)
	UpdateLine(ctx context.Context, sprintID, lineID string, u LineUpdate) (*domain.SprintLine, error)
	SetComplexity(ctx context.Context, sprintID, lineID string, c domain.Complexity) (*domain.SprintLine, error)
	SetQuantity(ctx context.Context, sprintID, lineID string, quantity int) (*domain.SprintLine, error)
	SetLineNotes(ctx context.Context, sprintID, lineID, notes string) (*domain.SprintLine, error)
	RemoveLine(ctx context.Context, sprintID, lineID string) error
	SetStatus(ctx context.Context, sprintID string, status domain.SprintStatus) (*domain.Sprint, error)
}

type CompPlanService interface {
	Save(ctx context.Context, sprintID string, plan *domain.CompPlan) (*domain.CompPlan, error)
	Latest(ctx context.Context, sprintID string) (*domain.CompPlan, error)
}

type AgreementService interface {
	Generate(ctx context.Context, sprintID, effectiveDate string) (*agreement.Document, error)
}
