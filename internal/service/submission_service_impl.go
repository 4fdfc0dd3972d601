package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/intake"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type submissionService struct {
	submissions repository.SubmissionRepo
	normalizer  *intake.Normalizer
	observer    UseCaseObserver
}

func NewSubmissionService(submissions repository.SubmissionRepo, observers ...UseCaseObserver) SubmissionService {
	return &submissionService{
		submissions: submissions,
		normalizer:  intake.New(),
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Create stores a raw intake document. The payload must be JSON; its shape
// is not checked.
func (s *submissionService) Create(ctx context.Context, source string, payload []byte) (sub *domain.Submission, err error) {
	defer track(ctx, s.observer, "submission.create", time.Now(), &err, map[string]any{"bytes": len(payload)})

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, fmt.Errorf("%w: submission payload must be a JSON document", domain.ErrInvalidInput)
	}
	sub = &domain.Submission{
		ID:         uuid.New().String(),
		Source:     domain.FirstNonBlank(source, "api"),
		Payload:    payload,
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *submissionService) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	return s.submissions.GetByID(ctx, id)
}

func (s *submissionService) List(ctx context.Context, limit int) ([]*domain.Submission, error) {
	return s.submissions.List(ctx, limit)
}

// Profile returns the normalized client profile of a stored submission.
func (s *submissionService) Profile(ctx context.Context, id string) (domain.ClientProfile, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return domain.ClientProfile{}, err
	}
	return s.normalizer.NormalizeJSON(sub.Payload), nil
}
