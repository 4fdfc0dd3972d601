package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// SQLiteSprintRepo implements SprintRepo using a SQLite database.
type SQLiteSprintRepo struct {
	db db.DBTX
}

func NewSQLiteSprintRepo(conn db.DBTX) *SQLiteSprintRepo {
	return &SQLiteSprintRepo{db: conn}
}

const sprintColumns = `id, title, status, package_id, submission_id, client_name, client_email,
	project_name, summary, total_points, total_hours, total_price, deliverable_count, created_at, updated_at`

func (r *SQLiteSprintRepo) Create(ctx context.Context, s *domain.Sprint) error {
	query := `INSERT INTO sprints (` + sprintColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Title,
		string(s.Status),
		nullableString(s.PackageID),
		nullableString(s.SubmissionID),
		s.ClientName,
		s.ClientEmail,
		s.ProjectName,
		s.Summary,
		s.TotalPoints,
		s.TotalHours,
		s.TotalPrice,
		s.DeliverableCount,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting sprint: %w", err)
	}
	return nil
}

func (r *SQLiteSprintRepo) GetByID(ctx context.Context, id string) (*domain.Sprint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sprintColumns+` FROM sprints WHERE id = ?`, id)
	s, err := scanSprint(row)
	if err != nil {
		return nil, notFound(err, "sprint")
	}
	return s, nil
}

func (r *SQLiteSprintRepo) Update(ctx context.Context, s *domain.Sprint) error {
	query := `UPDATE sprints SET title = ?, status = ?, package_id = ?, client_name = ?, client_email = ?,
		project_name = ?, summary = ?, total_points = ?, total_hours = ?, total_price = ?,
		deliverable_count = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Title,
		string(s.Status),
		nullableString(s.PackageID),
		s.ClientName,
		s.ClientEmail,
		s.ProjectName,
		s.Summary,
		s.TotalPoints,
		s.TotalHours,
		s.TotalPrice,
		s.DeliverableCount,
		formatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sprint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sprint %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSprintRepo) List(ctx context.Context, limit int) ([]*domain.Sprint, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	var out []*domain.Sprint
	for rows.Next() {
		s, err := scanSprint(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sprint row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return out, nil
}

func (r *SQLiteSprintRepo) CountBySubmission(ctx context.Context, submissionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sprints WHERE submission_id = ?`, submissionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting sprints: %w", err)
	}
	return n, nil
}

func scanSprint(row rowScanner) (*domain.Sprint, error) {
	var s domain.Sprint
	var status, createdAt, updatedAt string
	var packageID, submissionID sql.NullString
	if err := row.Scan(
		&s.ID, &s.Title, &status, &packageID, &submissionID,
		&s.ClientName, &s.ClientEmail, &s.ProjectName, &s.Summary,
		&s.TotalPoints, &s.TotalHours, &s.TotalPrice, &s.DeliverableCount,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	s.Status = domain.SprintStatus(status)
	s.PackageID = stringPtr(packageID)
	s.SubmissionID = stringPtr(submissionID)

	var err error
	if s.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &s, nil
}

// SQLiteSprintLineRepo implements SprintLineRepo using a SQLite database.
type SQLiteSprintLineRepo struct {
	db db.DBTX
}

func NewSQLiteSprintLineRepo(conn db.DBTX) *SQLiteSprintLineRepo {
	return &SQLiteSprintLineRepo{db: conn}
}

const sprintLineColumns = `id, sprint_id, deliverable_id, name_snapshot, category_snapshot, scope_snapshot,
	base_points, base_hours, base_price, quantity, complexity, custom_scope, notes, sort_order,
	custom_points, custom_hours, custom_price, created_at`

func (r *SQLiteSprintLineRepo) Create(ctx context.Context, l *domain.SprintLine) error {
	query := `INSERT INTO sprint_lines (` + sprintLineColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.SprintID,
		nullableString(l.DeliverableID),
		l.NameSnapshot,
		l.CategorySnapshot,
		l.ScopeSnapshot,
		l.BasePoints,
		l.BaseHours,
		l.BasePrice,
		l.Quantity,
		float64(l.Complexity),
		l.CustomScope,
		l.Notes,
		l.SortOrder,
		l.CustomPoints,
		l.CustomHours,
		l.CustomPrice,
		formatTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting sprint line: %w", err)
	}
	return nil
}

func (r *SQLiteSprintLineRepo) GetByID(ctx context.Context, id string) (*domain.SprintLine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sprintLineColumns+` FROM sprint_lines WHERE id = ?`, id)
	l, err := scanSprintLine(row)
	if err != nil {
		return nil, notFound(err, "sprint line")
	}
	return l, nil
}

func (r *SQLiteSprintLineRepo) ListBySprint(ctx context.Context, sprintID string) ([]domain.SprintLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sprintLineColumns+` FROM sprint_lines WHERE sprint_id = ? ORDER BY sort_order, created_at`, sprintID)
	if err != nil {
		return nil, fmt.Errorf("listing sprint lines: %w", err)
	}
	defer rows.Close()

	var out []domain.SprintLine
	for rows.Next() {
		l, err := scanSprintLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sprint line row: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprint lines: %w", err)
	}
	return out, nil
}

// Update writes the editable fields and the derived custom values.
func (r *SQLiteSprintLineRepo) Update(ctx context.Context, l *domain.SprintLine) error {
	query := `UPDATE sprint_lines SET quantity = ?, complexity = ?, custom_scope = ?, notes = ?,
		sort_order = ?, custom_points = ?, custom_hours = ?, custom_price = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		l.Quantity,
		float64(l.Complexity),
		l.CustomScope,
		l.Notes,
		l.SortOrder,
		l.CustomPoints,
		l.CustomHours,
		l.CustomPrice,
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sprint line: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sprint line %s: %w", l.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSprintLineRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sprint_lines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sprint line: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sprint line %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanSprintLine(row rowScanner) (*domain.SprintLine, error) {
	var l domain.SprintLine
	var deliverableID sql.NullString
	var complexity float64
	var createdAt string
	if err := row.Scan(
		&l.ID, &l.SprintID, &deliverableID, &l.NameSnapshot, &l.CategorySnapshot, &l.ScopeSnapshot,
		&l.BasePoints, &l.BaseHours, &l.BasePrice, &l.Quantity, &complexity, &l.CustomScope, &l.Notes,
		&l.SortOrder, &l.CustomPoints, &l.CustomHours, &l.CustomPrice, &createdAt,
	); err != nil {
		return nil, err
	}
	l.DeliverableID = stringPtr(deliverableID)
	l.Complexity = domain.Complexity(complexity)

	var err error
	if l.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &l, nil
}
