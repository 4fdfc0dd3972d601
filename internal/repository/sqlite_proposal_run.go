package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// SQLiteProposalRunRepo implements ProposalRunRepo using a SQLite database.
type SQLiteProposalRunRepo struct {
	db db.DBTX
}

func NewSQLiteProposalRunRepo(conn db.DBTX) *SQLiteProposalRunRepo {
	return &SQLiteProposalRunRepo{db: conn}
}

const proposalRunColumns = `id, submission_id, idempotency_key, model, status, raw_response,
	prompt_tokens, completion_tokens, latency_ms, error, sprint_id, created_at, updated_at`

func (r *SQLiteProposalRunRepo) Create(ctx context.Context, run *domain.ProposalRun) error {
	query := `INSERT INTO proposal_runs (` + proposalRunColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.SubmissionID,
		run.IdempotencyKey,
		run.Model,
		string(run.Status),
		run.RawResponse,
		run.PromptTokens,
		run.CompletionTokens,
		run.LatencyMs,
		run.Error,
		nullableString(run.SprintID),
		formatTime(run.CreatedAt),
		formatTime(run.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting proposal run: %w", err)
	}
	return nil
}

func (r *SQLiteProposalRunRepo) GetByID(ctx context.Context, id string) (*domain.ProposalRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+proposalRunColumns+` FROM proposal_runs WHERE id = ?`, id)
	run, err := scanProposalRun(row)
	if err != nil {
		return nil, notFound(err, "proposal run")
	}
	return run, nil
}

func (r *SQLiteProposalRunRepo) Update(ctx context.Context, run *domain.ProposalRun) error {
	query := `UPDATE proposal_runs SET status = ?, raw_response = ?, prompt_tokens = ?, completion_tokens = ?,
		latency_ms = ?, error = ?, sprint_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(run.Status),
		run.RawResponse,
		run.PromptTokens,
		run.CompletionTokens,
		run.LatencyMs,
		run.Error,
		nullableString(run.SprintID),
		formatTime(run.UpdatedAt),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("updating proposal run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("proposal run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteProposalRunRepo) ListBySubmission(ctx context.Context, submissionID string) ([]*domain.ProposalRun, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+proposalRunColumns+` FROM proposal_runs WHERE submission_id = ? ORDER BY created_at, rowid`,
		submissionID)
	if err != nil {
		return nil, fmt.Errorf("listing proposal runs: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProposalRun
	for rows.Next() {
		run, err := scanProposalRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning proposal run row: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proposal runs: %w", err)
	}
	return out, nil
}

func scanProposalRun(row rowScanner) (*domain.ProposalRun, error) {
	var run domain.ProposalRun
	var status, createdAt, updatedAt string
	var sprintID sql.NullString
	if err := row.Scan(
		&run.ID, &run.SubmissionID, &run.IdempotencyKey, &run.Model, &status, &run.RawResponse,
		&run.PromptTokens, &run.CompletionTokens, &run.LatencyMs, &run.Error, &sprintID,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	run.Status = domain.RunStatus(status)
	run.SprintID = stringPtr(sprintID)

	var err error
	if run.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if run.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
