package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/catalogimport"
	"github.com/alexanderramin/sprintdesk/internal/repository"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
)

const catalogDoc = `
deliverables:
  - ref: ux
    name: UX Audit
    category: Design
    hours: 6
    price: 900
  - ref: api
    name: API Build
    category: Engineering
    points: 8
packages:
  - slug: launch-kit
    name: Launch Kit Plus
    items:
      - deliverable: ux
      - deliverable: api
        quantity: 2
`

func TestCatalogService_ImportUpsertsAndReusesSlug(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewCatalogService(e.deliverables, e.packages, e.uow)

	f, err := catalogimport.Parse([]byte(catalogDoc))
	require.NoError(t, err)

	res, err := svc.Import(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 2, res.DeliverableCount)
	assert.Equal(t, 1, res.PackageCount)

	pkg, err := e.packages.GetBySlug(ctx, "launch-kit")
	require.NoError(t, err)
	assert.Equal(t, e.launch.ID, pkg.ID, "existing slug keeps its id")
	assert.Equal(t, "Launch Kit Plus", pkg.Name)
	assert.Len(t, pkg.Items, 2)

	_, err = svc.Import(ctx, f)
	require.NoError(t, err)
	all, err := svc.ListDeliverables(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 5, "re-import does not duplicate rows")
}

func TestCatalogService_InvalidFileWritesNothing(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewCatalogService(e.deliverables, e.packages, e.uow)

	f := &catalogimport.CatalogFile{
		Deliverables: []catalogimport.DeliverableImport{{Ref: "a", Name: "A", Hours: 1}},
		Packages:     []catalogimport.PackageImport{{Slug: "p", Name: "P", Items: []catalogimport.ItemImport{{Deliverable: "ghost"}}}},
	}
	_, err := svc.Import(ctx, f)
	assert.ErrorIs(t, err, catalogimport.ErrInvalidCatalog)

	all, err := svc.ListDeliverables(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCatalogService_SetDeliverableActive(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewCatalogService(e.deliverables, e.packages, e.uow)

	require.NoError(t, svc.SetDeliverableActive(ctx, e.build.ID, false))
	active, err := svc.ListDeliverables(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	assert.ErrorIs(t, svc.SetDeliverableActive(ctx, "missing", true), repository.ErrNotFound)

	pkgs, err := svc.ListPackages(ctx, true)
	require.NoError(t, err)
	assert.Len(t, pkgs, 1)
}

func TestCatalogService_ImportFileMissing(t *testing.T) {
	e := newTestEnv(t)
	svc := NewCatalogService(e.deliverables, e.packages, testutil.NewTestUoW(e.db))
	_, err := svc.ImportFile(context.Background(), "/nonexistent/catalog.yaml")
	assert.Error(t, err)
}
