package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// SQLitePackageRepo implements PackageRepo using a SQLite database.
type SQLitePackageRepo struct {
	db db.DBTX
}

func NewSQLitePackageRepo(conn db.DBTX) *SQLitePackageRepo {
	return &SQLitePackageRepo{db: conn}
}

const packageColumns = `id, name, slug, tagline, description, featured, sort_order, active, created_at, updated_at`

// Upsert writes the package row and replaces its item list. Callers run it
// inside a transaction.
func (r *SQLitePackageRepo) Upsert(ctx context.Context, p *domain.Package) error {
	query := `INSERT INTO packages (` + packageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			tagline = excluded.tagline,
			description = excluded.description,
			featured = excluded.featured,
			sort_order = excluded.sort_order,
			active = excluded.active,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Tagline,
		p.Description,
		boolToInt(p.Featured),
		p.SortOrder,
		boolToInt(p.Active),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting package: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM package_items WHERE package_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing package items: %w", err)
	}
	for i, item := range p.Items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO package_items (package_id, deliverable_id, quantity, sort_order) VALUES (?, ?, ?, ?)`,
			p.ID, item.DeliverableID, item.Quantity, item.SortOrder)
		if err != nil {
			return fmt.Errorf("inserting package item %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *SQLitePackageRepo) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *SQLitePackageRepo) GetBySlug(ctx context.Context, slug string) (*domain.Package, error) {
	return r.getOne(ctx, `slug = ?`, strings.ToLower(strings.TrimSpace(slug)))
}

func (r *SQLitePackageRepo) getOne(ctx context.Context, where string, arg any) (*domain.Package, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE `+where, arg)
	p, err := scanPackage(row)
	if err != nil {
		return nil, notFound(err, "package")
	}
	if err := r.attachItems(ctx, []*domain.Package{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns packages featured first, then by sort order and name.
func (r *SQLitePackageRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY featured DESC, sort_order, name LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, MaxCatalogRows)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	var out []*domain.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning package row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating packages: %w", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachItems loads items for all packages in one query after the package
// cursor is closed.
func (r *SQLitePackageRepo) attachItems(ctx context.Context, pkgs []*domain.Package) error {
	if len(pkgs) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Package, len(pkgs))
	placeholders := make([]string, 0, len(pkgs))
	args := make([]any, 0, len(pkgs))
	for _, p := range pkgs {
		byID[p.ID] = p
		placeholders = append(placeholders, "?")
		args = append(args, p.ID)
	}

	query := `SELECT package_id, deliverable_id, quantity, sort_order FROM package_items
		WHERE package_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY package_id, sort_order, deliverable_id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("listing package items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.PackageItem
		if err := rows.Scan(&it.PackageID, &it.DeliverableID, &it.Quantity, &it.SortOrder); err != nil {
			return fmt.Errorf("scanning package item: %w", err)
		}
		if p, ok := byID[it.PackageID]; ok {
			p.Items = append(p.Items, it)
		}
	}
	return rows.Err()
}

// ActiveDeliverables returns the package's items whose deliverable is
// active. Inactive or missing references are excluded.
func (r *SQLitePackageRepo) ActiveDeliverables(ctx context.Context, packageID string) ([]PackageDeliverable, error) {
	query := `SELECT pi.package_id, pi.deliverable_id, pi.quantity, pi.sort_order,
			d.id, d.name, d.category, d.scope, d.fixed_hours, d.fixed_price, d.point_estimate,
			d.active, d.created_at, d.updated_at
		FROM package_items pi
		JOIN deliverables d ON d.id = pi.deliverable_id
		WHERE pi.package_id = ? AND d.active = 1
		ORDER BY pi.sort_order, d.name`
	rows, err := r.db.QueryContext(ctx, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("listing package deliverables: %w", err)
	}
	defer rows.Close()

	var out []PackageDeliverable
	for rows.Next() {
		var pd PackageDeliverable
		var active int
		var createdAt, updatedAt string
		if err := rows.Scan(
			&pd.Item.PackageID, &pd.Item.DeliverableID, &pd.Item.Quantity, &pd.Item.SortOrder,
			&pd.Deliverable.ID, &pd.Deliverable.Name, &pd.Deliverable.Category, &pd.Deliverable.Scope,
			&pd.Deliverable.FixedHours, &pd.Deliverable.FixedPrice, &pd.Deliverable.PointEstimate,
			&active, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning package deliverable: %w", err)
		}
		pd.Deliverable.Active = intToBool(active)
		if pd.Deliverable.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if pd.Deliverable.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		out = append(out, pd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating package deliverables: %w", err)
	}
	return out, nil
}

func scanPackage(row rowScanner) (*domain.Package, error) {
	var p domain.Package
	var featured, active int
	var createdAt, updatedAt string
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Tagline, &p.Description,
		&featured, &p.SortOrder, &active, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	p.Featured = intToBool(featured)
	p.Active = intToBool(active)

	var err error
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}
