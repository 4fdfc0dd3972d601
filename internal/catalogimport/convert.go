package catalogimport

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// idSpace namespaces ids derived from refs and slugs, so re-importing the
// same file updates rows instead of duplicating them.
var idSpace = uuid.MustParse("5b0e7c52-3d1f-4a53-9a8e-0f1c2d3e4a5b")

// Catalog is the converted content of a catalog file.
type Catalog struct {
	Deliverables []*domain.Deliverable
	Packages     []*domain.Package
}

// Convert transforms a validated file into domain rows. Call Check first;
// Convert assumes the file is valid.
func Convert(f *CatalogFile, now time.Time) *Catalog {
	out := &Catalog{}
	refMap := make(map[string]string) // ref or id -> stored id

	for _, d := range f.Deliverables {
		id := d.ID
		if id == "" {
			id = uuid.NewSHA1(idSpace, []byte("deliverable:"+d.Ref)).String()
		}
		refMap[deliverableKey(d)] = id
		refMap[id] = id

		out.Deliverables = append(out.Deliverables, &domain.Deliverable{
			ID:            id,
			Name:          strings.TrimSpace(d.Name),
			Category:      strings.TrimSpace(d.Category),
			Scope:         strings.TrimSpace(d.Scope),
			FixedHours:    d.Hours,
			FixedPrice:    d.Price,
			PointEstimate: d.Points,
			Active:        boolOr(d.Active, true),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	for _, p := range f.Packages {
		slug := strings.ToLower(strings.TrimSpace(p.Slug))
		pkg := &domain.Package{
			ID:          PackageID(slug),
			Name:        strings.TrimSpace(p.Name),
			Slug:        slug,
			Tagline:     p.Tagline,
			Description: p.Description,
			Featured:    p.Featured,
			SortOrder:   p.SortOrder,
			Active:      boolOr(p.Active, true),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for i, item := range p.Items {
			qty := 1
			if item.Quantity != nil {
				qty = *item.Quantity
			}
			pkg.Items = append(pkg.Items, domain.PackageItem{
				PackageID:     pkg.ID,
				DeliverableID: refMap[item.Deliverable],
				Quantity:      qty,
				SortOrder:     i,
			})
		}
		out.Packages = append(out.Packages, pkg)
	}

	return out
}

// PackageID is the id a package with slug receives on first import.
func PackageID(slug string) string {
	return uuid.NewSHA1(idSpace, []byte("package:"+slug)).String()
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
