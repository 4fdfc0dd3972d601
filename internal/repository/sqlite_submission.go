package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// SQLiteSubmissionRepo implements SubmissionRepo using a SQLite database.
type SQLiteSubmissionRepo struct {
	db db.DBTX
}

func NewSQLiteSubmissionRepo(conn db.DBTX) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: conn}
}

func (r *SQLiteSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (id, source, payload, received_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Source, string(s.Payload), formatTime(s.ReceivedAt))
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

func (r *SQLiteSubmissionRepo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source, payload, received_at FROM submissions WHERE id = ?`, id)
	s, err := scanSubmission(row)
	if err != nil {
		return nil, notFound(err, "submission")
	}
	return s, nil
}

func (r *SQLiteSubmissionRepo) List(ctx context.Context, limit int) ([]*domain.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, payload, received_at FROM submissions ORDER BY received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning submission row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return out, nil
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var s domain.Submission
	var payload, receivedAt string
	if err := row.Scan(&s.ID, &s.Source, &payload, &receivedAt); err != nil {
		return nil, err
	}
	s.Payload = []byte(payload)
	var err error
	if s.ReceivedAt, err = parseTime(receivedAt, "received_at"); err != nil {
		return nil, err
	}
	return &s, nil
}
