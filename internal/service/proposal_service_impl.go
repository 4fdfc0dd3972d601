package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type proposalService struct {
	generator *proposal.Generator
	runs      repository.ProposalRunRepo
	observer  UseCaseObserver
}

func NewProposalService(generator *proposal.Generator, runs repository.ProposalRunRepo, observers ...UseCaseObserver) ProposalService {
	return &proposalService{
		generator: generator,
		runs:      runs,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *proposalService) Generate(ctx context.Context, submissionID string) (res *proposal.Result, err error) {
	fields := map[string]any{"submission_id": submissionID}
	defer track(ctx, s.observer, "proposal.generate", time.Now(), &err, fields)

	res, err = s.generator.Generate(ctx, submissionID)
	if runID, ok := proposal.RunIDOf(err); ok {
		fields["run_id"] = runID
	}
	if res != nil {
		fields["run_id"] = res.RunID
		fields["sprint_id"] = res.SprintID
	}
	return res, err
}

func (s *proposalService) GetRun(ctx context.Context, id string) (*domain.ProposalRun, error) {
	return s.runs.GetByID(ctx, id)
}

func (s *proposalService) ListRuns(ctx context.Context, submissionID string) ([]*domain.ProposalRun, error) {
	return s.runs.ListBySubmission(ctx, submissionID)
}
