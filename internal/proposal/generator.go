// Package proposal turns a stored intake submission into a priced sprint
// draft grounded in the active catalog.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/intake"
	"github.com/alexanderramin/sprintdesk/internal/llm"
	"github.com/alexanderramin/sprintdesk/internal/notify"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

// DefaultMaxDocumentBytes is the submission size ceiling when none is set.
const DefaultMaxDocumentBytes = 100_000

// Config tunes a Generator.
type Config struct {
	MaxDocumentBytes int
	Model            string // requested model; resolved against the llm allow-list
	NotifyTo         string // studio inbox; empty disables the notification
	Pricing          pricing.Config
}

// Notifier receives the post-commit notification.
type Notifier interface {
	AfterCommit(ctx context.Context, msg notify.Message)
}

// OutcomeRecorder counts generation outcomes.
type OutcomeRecorder interface {
	ProposalOutcome(outcome string)
}

// Deps are the collaborators of a Generator. Repositories are used outside
// transactions; sprint writes go through UoW.
type Deps struct {
	UoW          db.UnitOfWork
	Submissions  repository.SubmissionRepo
	Deliverables repository.DeliverableRepo
	Packages     repository.PackageRepo
	Runs         repository.ProposalRunRepo
	Client       llm.LLMClient
	LLMConfig    llm.Config
	Normalizer   *intake.Normalizer
	Notifier     Notifier
	Recorder     OutcomeRecorder
	Logger       *slog.Logger
	Now          func() time.Time
}

// Result describes a created sprint draft.
type Result struct {
	RunID       string
	SprintID    string
	Title       string
	LineCount   int
	UsedPackage bool
	Dropped     []string
}

// Generator orchestrates one proposal attempt per call.
type Generator struct {
	d   Deps
	cfg Config
}

func NewGenerator(d Deps, cfg Config) *Generator {
	if d.Normalizer == nil {
		d.Normalizer = intake.New()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	return &Generator{d: d, cfg: cfg}
}

// Generate runs the full pipeline for one submission. Configuration and
// size failures happen before any write. Every attempt that reaches the
// model leaves a run record, and RunError carries its id on failure.
func (g *Generator) Generate(ctx context.Context, submissionID string) (*Result, error) {
	if err := g.d.Client.CheckConfig(); err != nil {
		g.outcome("rejected")
		return nil, err
	}

	sub, err := g.d.Submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("loading submission %s: %w", submissionID, err)
	}
	if len(sub.Payload) > g.cfg.MaxDocumentBytes {
		g.outcome("rejected")
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrDocumentTooLarge, len(sub.Payload), g.cfg.MaxDocumentBytes)
	}

	profile := g.d.Normalizer.NormalizeJSON(sub.Payload)

	deliverables, packages, err := g.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(buildGrounding(g.cfg.Pricing, deliverables, packages), buildClientContext(profile))},
		{Role: "user", Content: buildDocumentMessage(sub.Payload)},
	}

	now := g.d.Now()
	run := &domain.ProposalRun{
		ID:             uuid.New().String(),
		SubmissionID:   sub.ID,
		IdempotencyKey: uuid.New().String(),
		Model:          g.d.LLMConfig.ResolveModel(g.cfg.Model),
		Status:         domain.RunPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := g.d.Runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("recording proposal run: %w", err)
	}

	resp, err := g.d.Client.Complete(ctx, llm.CompleteRequest{
		Model:          run.Model,
		Messages:       messages,
		IdempotencyKey: run.IdempotencyKey,
	})
	if err != nil {
		run.Error = llm.ErrorCode(err) + ": " + err.Error()
		g.finishRun(ctx, run, domain.RunFailed)
		g.outcome("failed")
		return nil, &RunError{RunID: run.ID, Kind: err}
	}

	// The raw response is persisted before anything else is derived from it.
	run.RawResponse = resp.Text
	run.PromptTokens = resp.Usage.PromptTokens
	run.CompletionTokens = resp.Usage.CompletionTokens
	run.LatencyMs = resp.LatencyMs
	if resp.Model != "" {
		run.Model = resp.Model
	}
	run.UpdatedAt = g.d.Now()
	if err := g.d.Runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("recording model response: %w", err)
	}

	rec, err := llm.DecodeObject[Recommendation](resp.Text)
	if err != nil {
		run.Error = err.Error()
		g.finishRun(ctx, run, domain.RunUnusable)
		g.outcome("unusable")
		g.d.Logger.Warn("proposal response unusable", "run_id", run.ID, "submission_id", sub.ID, "error", err)
		return nil, &RunError{RunID: run.ID, Kind: ErrUnusableResponse, Err: err}
	}

	r := reconcile(rec, deliverables, packages)
	lines, pkg, err := g.buildLines(ctx, r)
	if err != nil {
		run.Error = err.Error()
		g.finishRun(ctx, run, domain.RunFailed)
		g.outcome("failed")
		return nil, &RunError{RunID: run.ID, Err: err}
	}
	if len(r.Dropped) > 0 {
		g.d.Logger.Info("dropped catalog references", "run_id", run.ID, "dropped", r.Dropped)
	}
	if len(lines) == 0 {
		run.Error = ErrEmptyRecommendation.Error()
		g.finishRun(ctx, run, domain.RunEmpty)
		g.outcome("empty")
		return nil, &RunError{RunID: run.ID, Kind: ErrEmptyRecommendation}
	}

	sprint := &domain.Sprint{
		ID:           uuid.New().String(),
		Title:        resolveTitle(rec.Title, profile),
		Status:       domain.SprintDraft,
		SubmissionID: &sub.ID,
		ClientName:   profile.ContactName(),
		ClientEmail:  profile.Email,
		ProjectName:  profile.ProjectName,
		Summary:      strings.TrimSpace(rec.Summary),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if pkg != nil {
		sprint.PackageID = &pkg.ID
	}
	for i := range lines {
		lines[i].SprintID = sprint.ID
	}
	if err := pricing.AggregateSprint(sprint, lines); err != nil {
		return nil, &RunError{RunID: run.ID, Err: err}
	}

	err = g.d.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSprintRepo(tx).Create(ctx, sprint); err != nil {
			return fmt.Errorf("creating sprint: %w", err)
		}
		lineRepo := repository.NewSQLiteSprintLineRepo(tx)
		for i := range lines {
			if err := lineRepo.Create(ctx, &lines[i]); err != nil {
				return fmt.Errorf("creating sprint line %d: %w", i+1, err)
			}
		}
		run.Status = domain.RunSucceeded
		run.SprintID = &sprint.ID
		run.UpdatedAt = g.d.Now()
		return repository.NewSQLiteProposalRunRepo(tx).Update(ctx, run)
	})
	if err != nil {
		run.SprintID = nil
		run.Error = err.Error()
		g.finishRun(ctx, run, domain.RunFailed)
		g.outcome("failed")
		return nil, &RunError{RunID: run.ID, Err: err}
	}

	g.outcome("succeeded")
	g.d.Logger.Info("sprint draft created",
		"run_id", run.ID,
		"sprint_id", sprint.ID,
		"lines", len(lines),
		"package", pkg != nil,
		"total_price", sprint.TotalPrice,
	)
	g.notify(ctx, sprint)

	return &Result{
		RunID:       run.ID,
		SprintID:    sprint.ID,
		Title:       sprint.Title,
		LineCount:   len(lines),
		UsedPackage: pkg != nil,
		Dropped:     r.Dropped,
	}, nil
}

// loadCatalog reads active deliverables and packages concurrently.
func (g *Generator) loadCatalog(ctx context.Context) ([]*domain.Deliverable, []*domain.Package, error) {
	var (
		deliverables []*domain.Deliverable
		packages     []*domain.Package
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		deliverables, err = g.d.Deliverables.List(ctx, true)
		if err != nil {
			return fmt.Errorf("listing active deliverables: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		packages, err = g.d.Packages.List(ctx, true)
		if err != nil {
			return fmt.Errorf("listing active packages: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return deliverables, packages, nil
}

// buildLines seeds lines from the package when one survived, else from the
// surviving deliverables. A package with no active items falls back to the
// deliverable list.
func (g *Generator) buildLines(ctx context.Context, r reconciled) ([]domain.SprintLine, *domain.Package, error) {
	now := g.d.Now()
	if r.Package != nil {
		items, err := g.d.Packages.ActiveDeliverables(ctx, r.Package.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("loading package %s: %w", r.Package.Slug, err)
		}
		lines := make([]domain.SprintLine, 0, len(items))
		for _, it := range items {
			l, err := g.newLine(it.Deliverable, it.Item.Quantity, domain.ComplexityNormal, "", len(lines), now)
			if err != nil {
				return nil, nil, err
			}
			lines = append(lines, l)
		}
		if len(lines) > 0 {
			return lines, r.Package, nil
		}
	}

	lines := make([]domain.SprintLine, 0, len(r.Deliverables))
	for _, c := range r.Deliverables {
		l, err := g.newLine(*c.Deliverable, c.Quantity, c.Complexity, c.Notes, len(lines), now)
		if err != nil {
			return nil, nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil, nil
}

func (g *Generator) newLine(d domain.Deliverable, qty int, c domain.Complexity, notes string, order int, now time.Time) (domain.SprintLine, error) {
	l, err := g.cfg.Pricing.SnapshotLine(d, qty, c)
	if err != nil {
		return domain.SprintLine{}, fmt.Errorf("pricing %s: %w", d.Name, err)
	}
	l.ID = uuid.New().String()
	l.Notes = notes
	l.SortOrder = order
	l.CreatedAt = now
	return l, nil
}

// finishRun records a terminal status. It is detached from ctx so a
// cancelled request still leaves its audit trail.
func (g *Generator) finishRun(ctx context.Context, run *domain.ProposalRun, status domain.RunStatus) {
	run.Status = status
	run.UpdatedAt = g.d.Now()
	if err := g.d.Runs.Update(context.WithoutCancel(ctx), run); err != nil && !errors.Is(err, context.Canceled) {
		g.d.Logger.Error("recording proposal run status", "run_id", run.ID, "status", status, "error", err)
	}
}

func (g *Generator) outcome(o string) {
	if g.d.Recorder != nil {
		g.d.Recorder.ProposalOutcome(o)
	}
}

func (g *Generator) notify(ctx context.Context, s *domain.Sprint) {
	if g.d.Notifier == nil || g.cfg.NotifyTo == "" {
		return
	}
	client := domain.FirstNonBlank(s.ClientName, s.ClientEmail, "unknown client")
	total := fmt.Sprintf("%s%.2f", g.cfg.Pricing.CurrencySymbol, s.TotalPrice)

	text := fmt.Sprintf("A new sprint draft is ready for review.\n\nTitle: %s\nClient: %s\nEmail: %s\nProject: %s\nDeliverables: %d\nTotal: %s\nSprint ID: %s\n",
		s.Title, client, domain.FirstNonBlank(s.ClientEmail, "-"), domain.FirstNonBlank(s.ProjectName, "-"),
		s.DeliverableCount, total, s.ID)
	body := fmt.Sprintf("<p>A new sprint draft is ready for review.</p><ul><li><strong>Title:</strong> %s</li><li><strong>Client:</strong> %s</li><li><strong>Deliverables:</strong> %d</li><li><strong>Total:</strong> %s</li><li><strong>Sprint ID:</strong> %s</li></ul>",
		html.EscapeString(s.Title), html.EscapeString(client), s.DeliverableCount, html.EscapeString(total), html.EscapeString(s.ID))

	g.d.Notifier.AfterCommit(ctx, notify.Message{
		To:      g.cfg.NotifyTo,
		Subject: "New sprint proposal: " + s.Title,
		Text:    text,
		HTML:    body,
	})
}
