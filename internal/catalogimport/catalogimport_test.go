package catalogimport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt(i int) *int    { return &i }
func ptrBool(b bool) *bool { return &b }

const sampleYAML = `
deliverables:
  - ref: brand
    name: Brand Sprint
    category: Design
    scope: Logo and palette
    hours: 16
    price: 2400
  - ref: mvp
    name: MVP Build
    category: Engineering
    points: 10
  - id: legacy-audit
    name: Legacy Audit
    category: Engineering
    hours: 4
    price: 600
    active: false
packages:
  - slug: Launch-Kit
    name: Launch Kit
    featured: true
    items:
      - deliverable: brand
      - deliverable: mvp
        quantity: 2
      - deliverable: legacy-audit
`

func TestParseValidateConvert_YAML(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, Check(f))

	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	cat := Convert(f, now)
	require.Len(t, cat.Deliverables, 3)
	require.Len(t, cat.Packages, 1)

	assert.True(t, cat.Deliverables[0].Active)
	assert.Equal(t, 10.0, cat.Deliverables[1].PointEstimate)
	assert.Equal(t, "legacy-audit", cat.Deliverables[2].ID)
	assert.False(t, cat.Deliverables[2].Active)

	pkg := cat.Packages[0]
	assert.Equal(t, "launch-kit", pkg.Slug)
	assert.Equal(t, PackageID("launch-kit"), pkg.ID)
	require.Len(t, pkg.Items, 3)
	assert.Equal(t, cat.Deliverables[0].ID, pkg.Items[0].DeliverableID)
	assert.Equal(t, 1, pkg.Items[0].Quantity)
	assert.Equal(t, 2, pkg.Items[1].Quantity)
	assert.Equal(t, "legacy-audit", pkg.Items[2].DeliverableID)
	assert.Equal(t, 2, pkg.Items[2].SortOrder)
}

func TestConvert_IDsAreStableAcrossImports(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	a := Convert(f, time.Now())
	b := Convert(f, time.Now())
	assert.Equal(t, a.Deliverables[0].ID, b.Deliverables[0].ID)
	assert.Equal(t, a.Packages[0].ID, b.Packages[0].ID)
}

func TestParse_JSON(t *testing.T) {
	raw := `{"deliverables":[{"ref":"a","name":"A","hours":1,"price":100}],"packages":[{"slug":"p","name":"P","sort_order":3,"items":[{"deliverable":"a","quantity":1}]}]}`
	f, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.NoError(t, Check(f))
	assert.Equal(t, 3, f.Packages[0].SortOrder)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("deliverables:\n  - ref: a\n    nmae: typo\n"))
	assert.Error(t, err)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	f := &CatalogFile{
		Deliverables: []DeliverableImport{
			{Ref: "a", Name: "A", Hours: 1},
			{Ref: "a", Name: "", Price: -5},
			{Name: "No ref", Points: 1},
			{Ref: "zero", Name: "Zero"},
		},
		Packages: []PackageImport{
			{Slug: "kit", Name: "Kit", Items: []ItemImport{{Deliverable: "missing"}, {Deliverable: "a", Quantity: ptrInt(0)}}},
			{Slug: "KIT", Name: ""},
		},
	}

	errs := Validate(f)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	assert.Contains(t, msgs, `deliverables[1]: duplicate ref "a"`)
	assert.Contains(t, msgs, "deliverables[1].name is required")
	assert.Contains(t, msgs, "deliverables[1].price must not be negative")
	assert.Contains(t, msgs, "deliverables[2]: ref or id is required")
	assert.Contains(t, msgs, "deliverables[3]: one of hours, price or points is required")
	assert.Contains(t, msgs, `packages[0].items[0].deliverable: ref "missing" not found in deliverables`)
	assert.Contains(t, msgs, "packages[0].items[1].quantity must be at least 1")
	assert.Contains(t, msgs, `packages[1].slug: duplicate slug "KIT"`)
	assert.Contains(t, msgs, "packages[1].name is required")

	assert.ErrorIs(t, Check(f), ErrInvalidCatalog)
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Deliverables, 3)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBoolOr(t *testing.T) {
	assert.True(t, boolOr(nil, true))
	assert.False(t, boolOr(ptrBool(false), true))
}
