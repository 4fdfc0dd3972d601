package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// NewTestDB opens a migrated in-memory catalog store that is closed when the
// test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

type deliverableUpserter interface {
	Upsert(ctx context.Context, d *domain.Deliverable) error
}

type packageUpserter interface {
	Upsert(ctx context.Context, p *domain.Package) error
}

// SeedCatalog stores deliverables before packages so package items resolve.
func SeedCatalog(t *testing.T, dr deliverableUpserter, pr packageUpserter, ds []*domain.Deliverable, ps ...*domain.Package) {
	t.Helper()
	ctx := context.Background()
	for _, d := range ds {
		require.NoError(t, dr.Upsert(ctx, d), "seeding deliverable %s", d.Name)
	}
	for _, p := range ps {
		require.NoError(t, pr.Upsert(ctx, p), "seeding package %s", p.Name)
	}
}
