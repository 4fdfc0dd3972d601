package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSprintRepo_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	submissions := NewSQLiteSubmissionRepo(database)
	sprints := NewSQLiteSprintRepo(database)

	sub := testutil.NewTestSubmission(`{"a":1}`)
	require.NoError(t, submissions.Create(ctx, sub))

	s := testutil.NewTestSprint("Sprint Plan for Engine", testutil.WithSubmission(sub.ID))
	require.NoError(t, sprints.Create(ctx, s))

	got, err := sprints.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sprint Plan for Engine", got.Title)
	assert.Equal(t, domain.SprintDraft, got.Status)
	require.NotNil(t, got.SubmissionID)
	assert.Equal(t, sub.ID, *got.SubmissionID)
	assert.Nil(t, got.PackageID)

	got.TotalPrice = 4200
	got.DeliverableCount = 3
	got.Status = domain.SprintStudioReview
	require.NoError(t, sprints.Update(ctx, got))

	again, err := sprints.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 4200.0, again.TotalPrice)
	assert.Equal(t, 3, again.DeliverableCount)
	assert.Equal(t, domain.SprintStudioReview, again.Status)

	n, err := sprints.CountBySubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = sprints.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSprintLineRepo_LifecycleAndSnapshotSurvivesCatalogDelete(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	deliverables := NewSQLiteDeliverableRepo(database)
	sprints := NewSQLiteSprintRepo(database)
	lines := NewSQLiteSprintLineRepo(database)

	d := testutil.NewTestDeliverable("Design System", testutil.WithScope("Tokens and components"))
	require.NoError(t, deliverables.Upsert(ctx, d))
	s := testutil.NewTestSprint("S")
	require.NoError(t, sprints.Create(ctx, s))

	l := testutil.NewTestLine(s.ID, d)
	l.Complexity = domain.ComplexityComplex
	require.NoError(t, lines.Create(ctx, l))

	list, err := lines.ListBySprint(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ComplexityComplex, list[0].Complexity)
	assert.Equal(t, "Tokens and components", list[0].ScopeSnapshot)

	l.Notes = "Include dark mode"
	l.Quantity = 2
	require.NoError(t, lines.Update(ctx, l))
	got, err := lines.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, "Include dark mode", got.Notes)

	_, err = database.Exec(`DELETE FROM deliverables WHERE id = ?`, d.ID)
	require.NoError(t, err)
	got, err = lines.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DeliverableID)
	assert.Equal(t, "Design System", got.NameSnapshot)

	require.NoError(t, lines.Delete(ctx, l.ID))
	assert.ErrorIs(t, lines.Delete(ctx, l.ID), ErrNotFound)
}

func TestCompPlanRepo_LatestWins(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	sprints := NewSQLiteSprintRepo(database)
	plans := NewSQLiteCompPlanRepo(database)

	s := testutil.NewTestSprint("S")
	require.NoError(t, sprints.Create(ctx, s))

	_, err := plans.Latest(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	first := &domain.CompPlan{ID: uuid.New().String(), SprintID: s.ID, UpfrontPayment: 0.5, CreatedAt: base}
	second := &domain.CompPlan{
		ID:             uuid.New().String(),
		SprintID:       s.ID,
		IsDeferred:     true,
		UpfrontPayment: 0.2,
		UpfrontTiming:  domain.TimingNet30,
		EquitySplit:    0.25,
		Milestones:     []domain.Milestone{{Summary: "Launch", TargetDate: "2026-09-01", Multiplier: 2}},
		MissOutcome:    domain.MissReduced20,
		Outputs:        &domain.CompOutputs{TotalValue: 1000, DeferredBase: 600},
		CreatedAt:      base.Add(time.Minute),
	}
	require.NoError(t, plans.Create(ctx, first))
	require.NoError(t, plans.Create(ctx, second))

	got, err := plans.Latest(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.True(t, got.IsDeferred)
	assert.Equal(t, domain.TimingNet30, got.UpfrontTiming)
	assert.Equal(t, domain.MissReduced20, got.MissOutcome)
	require.Len(t, got.Milestones, 1)
	assert.Equal(t, 2.0, got.Milestones[0].Multiplier)
	require.NotNil(t, got.Outputs)
	assert.Equal(t, 600.0, got.Outputs.DeferredBase)

	require.NoError(t, plans.UpdateOutputs(ctx, second.ID, &domain.CompOutputs{TotalValue: 2000, DeferredBase: 1200}))
	got, err = plans.Latest(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.Outputs.TotalValue)
	assert.Equal(t, 0.2, got.UpfrontPayment, "plan terms are untouched")
	assert.ErrorIs(t, plans.UpdateOutputs(ctx, "missing", &domain.CompOutputs{}), ErrNotFound)
}

func TestProposalRunRepo_CreateUpdateList(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	submissions := NewSQLiteSubmissionRepo(database)
	runs := NewSQLiteProposalRunRepo(database)

	sub := testutil.NewTestSubmission(`{}`)
	require.NoError(t, submissions.Create(ctx, sub))

	now := time.Now().UTC()
	run := &domain.ProposalRun{
		ID:             uuid.New().String(),
		SubmissionID:   sub.ID,
		IdempotencyKey: uuid.New().String(),
		Model:          "gpt-4o-mini",
		Status:         domain.RunPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, runs.Create(ctx, run))

	run.Status = domain.RunUnusable
	run.RawResponse = "not json"
	run.PromptTokens = 120
	run.CompletionTokens = 30
	require.NoError(t, runs.Update(ctx, run))

	got, err := runs.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunUnusable, got.Status)
	assert.Equal(t, "not json", got.RawResponse)
	assert.Equal(t, 150, got.PromptTokens+got.CompletionTokens)

	list, err := runs.ListBySubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
