package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// SQLiteCompPlanRepo implements CompPlanRepo using a SQLite database.
// Plans are append-only; the newest row per sprint is the effective plan.
type SQLiteCompPlanRepo struct {
	db db.DBTX
}

func NewSQLiteCompPlanRepo(conn db.DBTX) *SQLiteCompPlanRepo {
	return &SQLiteCompPlanRepo{db: conn}
}

func (r *SQLiteCompPlanRepo) Create(ctx context.Context, p *domain.CompPlan) error {
	milestones := p.Milestones
	if milestones == nil {
		milestones = []domain.Milestone{}
	}
	milestonesJSON, err := json.Marshal(milestones)
	if err != nil {
		return fmt.Errorf("encoding milestones: %w", err)
	}
	var outputsJSON any
	if p.Outputs != nil {
		b, err := json.Marshal(p.Outputs)
		if err != nil {
			return fmt.Errorf("encoding comp outputs: %w", err)
		}
		outputsJSON = string(b)
	}

	timing := p.UpfrontTiming
	if timing == "" {
		timing = domain.TimingOnKickoff
	}
	miss := p.MissOutcome
	if miss == "" {
		miss = domain.MissForgiven
	}

	query := `INSERT INTO comp_plans (id, sprint_id, is_deferred, upfront_payment, upfront_timing,
		equity_split, milestones_json, miss_outcome, outputs_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.SprintID,
		boolToInt(p.IsDeferred),
		p.UpfrontPayment,
		string(timing),
		p.EquitySplit,
		string(milestonesJSON),
		string(miss),
		outputsJSON,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting comp plan: %w", err)
	}
	return nil
}

func (r *SQLiteCompPlanRepo) Latest(ctx context.Context, sprintID string) (*domain.CompPlan, error) {
	query := `SELECT id, sprint_id, is_deferred, upfront_payment, upfront_timing, equity_split,
		milestones_json, miss_outcome, outputs_json, created_at
		FROM comp_plans WHERE sprint_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, sprintID)

	var p domain.CompPlan
	var deferred int
	var timing, milestonesJSON, miss, createdAt string
	var outputsJSON sql.NullString
	err := row.Scan(
		&p.ID, &p.SprintID, &deferred, &p.UpfrontPayment, &timing, &p.EquitySplit,
		&milestonesJSON, &miss, &outputsJSON, &createdAt,
	)
	if err != nil {
		return nil, notFound(err, "comp plan")
	}
	p.IsDeferred = intToBool(deferred)
	p.UpfrontTiming = domain.UpfrontTiming(timing)
	p.MissOutcome = domain.MissOutcome(miss)

	if err := json.Unmarshal([]byte(milestonesJSON), &p.Milestones); err != nil {
		return nil, fmt.Errorf("decoding milestones: %w", err)
	}
	if outputsJSON.Valid && outputsJSON.String != "" {
		var out domain.CompOutputs
		if err := json.Unmarshal([]byte(outputsJSON.String), &out); err != nil {
			return nil, fmt.Errorf("decoding comp outputs: %w", err)
		}
		p.Outputs = &out
	}
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateOutputs replaces the stored outputs of one plan. The plan terms are
// never rewritten.
func (r *SQLiteCompPlanRepo) UpdateOutputs(ctx context.Context, id string, out *domain.CompOutputs) error {
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding comp outputs: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE comp_plans SET outputs_json = ? WHERE id = ?`, string(b), id)
	if err != nil {
		return fmt.Errorf("updating comp outputs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating comp outputs: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("comp plan %s: %w", id, ErrNotFound)
	}
	return nil
}
