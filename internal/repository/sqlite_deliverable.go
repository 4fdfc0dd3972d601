package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// SQLiteDeliverableRepo implements DeliverableRepo using a SQLite database.
type SQLiteDeliverableRepo struct {
	db db.DBTX
}

func NewSQLiteDeliverableRepo(conn db.DBTX) *SQLiteDeliverableRepo {
	return &SQLiteDeliverableRepo{db: conn}
}

const deliverableColumns = `id, name, category, scope, fixed_hours, fixed_price, point_estimate, active, created_at, updated_at`

func (r *SQLiteDeliverableRepo) Upsert(ctx context.Context, d *domain.Deliverable) error {
	query := `INSERT INTO deliverables (` + deliverableColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			scope = excluded.scope,
			fixed_hours = excluded.fixed_hours,
			fixed_price = excluded.fixed_price,
			point_estimate = excluded.point_estimate,
			active = excluded.active,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.Name,
		d.Category,
		d.Scope,
		d.FixedHours,
		d.FixedPrice,
		d.PointEstimate,
		boolToInt(d.Active),
		formatTime(d.CreatedAt),
		formatTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting deliverable: %w", err)
	}
	return nil
}

func (r *SQLiteDeliverableRepo) GetByID(ctx context.Context, id string) (*domain.Deliverable, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+deliverableColumns+` FROM deliverables WHERE id = ?`, id)
	d, err := scanDeliverable(row)
	if err != nil {
		return nil, notFound(err, "deliverable")
	}
	return d, nil
}

func (r *SQLiteDeliverableRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY category, name LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, MaxCatalogRows)
	if err != nil {
		return nil, fmt.Errorf("listing deliverables: %w", err)
	}
	defer rows.Close()

	var out []*domain.Deliverable
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deliverable row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deliverables: %w", err)
	}
	return out, nil
}

func (r *SQLiteDeliverableRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE deliverables SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating deliverable: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deliverable %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanDeliverable(row rowScanner) (*domain.Deliverable, error) {
	var d domain.Deliverable
	var active int
	var createdAt, updatedAt string
	if err := row.Scan(
		&d.ID, &d.Name, &d.Category, &d.Scope,
		&d.FixedHours, &d.FixedPrice, &d.PointEstimate,
		&active, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	d.Active = intToBool(active)

	var err error
	if d.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &d, nil
}
