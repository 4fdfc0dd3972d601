package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/sprintdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverableRepo_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteDeliverableRepo(testutil.NewTestDB(t))

	d := testutil.NewTestDeliverable("Brand Identity", testutil.WithEconomics(16, 2400, 4))
	require.NoError(t, repo.Upsert(ctx, d))

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brand Identity", got.Name)
	assert.Equal(t, 16.0, got.FixedHours)
	assert.Equal(t, 2400.0, got.FixedPrice)
	assert.Equal(t, 4.0, got.PointEstimate)
	assert.True(t, got.Active)

	d.Name = "Brand System"
	require.NoError(t, repo.Upsert(ctx, d))
	got, err = repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brand System", got.Name)
}

func TestDeliverableRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteDeliverableRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeliverableRepo_ListActiveOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteDeliverableRepo(testutil.NewTestDB(t))

	active := testutil.NewTestDeliverable("Landing Page", testutil.WithCategory("Web"))
	inactive := testutil.NewTestDeliverable("Legacy Audit", testutil.Inactive())
	require.NoError(t, repo.Upsert(ctx, active))
	require.NoError(t, repo.Upsert(ctx, inactive))

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)

	require.NoError(t, repo.SetActive(ctx, inactive.ID, true))
	onlyActive, err = repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, onlyActive, 2)

	assert.ErrorIs(t, repo.SetActive(ctx, "missing", false), ErrNotFound)
}

func TestPackageRepo_ListOrdersFeaturedFirst(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	deliverables := NewSQLiteDeliverableRepo(database)
	packages := NewSQLitePackageRepo(database)

	d := testutil.NewTestDeliverable("Logo")
	require.NoError(t, deliverables.Upsert(ctx, d))

	plain := testutil.NewTestPackage("Alpha Starter", testutil.WithItem(d.ID, 1))
	featured := testutil.NewTestPackage("Zeta Launch", testutil.Featured(), testutil.WithItem(d.ID, 2))
	hidden := testutil.NewTestPackage("Beta Retired", testutil.InactivePackage())
	require.NoError(t, packages.Upsert(ctx, plain))
	require.NoError(t, packages.Upsert(ctx, featured))
	require.NoError(t, packages.Upsert(ctx, hidden))

	list, err := packages.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, featured.ID, list[0].ID)
	assert.Equal(t, plain.ID, list[1].ID)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, 2, list[0].Items[0].Quantity)

	bySlug, err := packages.GetBySlug(ctx, "Zeta-Launch")
	require.NoError(t, err)
	assert.Equal(t, featured.ID, bySlug.ID)
}

func TestPackageRepo_ActiveDeliverablesExcludesInactive(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	deliverables := NewSQLiteDeliverableRepo(database)
	packages := NewSQLitePackageRepo(database)

	live := testutil.NewTestDeliverable("Wireframes")
	retired := testutil.NewTestDeliverable("Print Collateral", testutil.Inactive())
	require.NoError(t, deliverables.Upsert(ctx, live))
	require.NoError(t, deliverables.Upsert(ctx, retired))

	p := testutil.NewTestPackage("Discovery", testutil.WithItem(live.ID, 2), testutil.WithItem(retired.ID, 1))
	require.NoError(t, packages.Upsert(ctx, p))

	got, err := packages.ActiveDeliverables(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, live.ID, got[0].Deliverable.ID)
	assert.Equal(t, 2, got[0].Item.Quantity)
}

func TestPackageRepo_UpsertReplacesItems(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	deliverables := NewSQLiteDeliverableRepo(database)
	packages := NewSQLitePackageRepo(database)

	a := testutil.NewTestDeliverable("A")
	b := testutil.NewTestDeliverable("B")
	require.NoError(t, deliverables.Upsert(ctx, a))
	require.NoError(t, deliverables.Upsert(ctx, b))

	p := testutil.NewTestPackage("Bundle", testutil.WithItem(a.ID, 1))
	require.NoError(t, packages.Upsert(ctx, p))

	p.Items = nil
	testutil.WithItem(b.ID, 3)(p)
	require.NoError(t, packages.Upsert(ctx, p))

	got, err := packages.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, b.ID, got.Items[0].DeliverableID)
}
