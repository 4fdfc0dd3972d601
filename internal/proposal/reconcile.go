package proposal

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// Recommendation is the JSON object the model is asked to return.
type Recommendation struct {
	Title           string                  `json:"title"`
	Summary         string                  `json:"summary"`
	SprintPackageID string                  `json:"sprintPackageId"`
	Deliverables    []RecommendedDeliverable `json:"deliverables"`
}

// RecommendedDeliverable is one deliverable entry of a recommendation.
// Numbers are decoded loosely and normalized during reconciliation.
type RecommendedDeliverable struct {
	ID         string  `json:"id"`
	Quantity   float64 `json:"quantity"`
	Complexity float64 `json:"complexity"`
	Notes      string  `json:"notes"`
}

// MaxModelQuantity bounds the quantity a model may recommend for one
// deliverable. Larger entries are dropped.
const MaxModelQuantity = 50

// choice is one surviving deliverable with normalized quantity and complexity.
type choice struct {
	Deliverable *domain.Deliverable
	Quantity    int
	Complexity  domain.Complexity
	Notes       string
}

// reconciled is a recommendation checked against the active catalog.
type reconciled struct {
	Package      *domain.Package
	Deliverables []choice
	Dropped      []string
}

// reconcile keeps only references that resolve to active catalog rows.
// A package may be referenced by id or slug. Deliverable duplicates keep
// the first occurrence.
func reconcile(rec Recommendation, deliverables []*domain.Deliverable, packages []*domain.Package) reconciled {
	var out reconciled

	if ref := strings.TrimSpace(rec.SprintPackageID); ref != "" {
		for _, p := range packages {
			if p.Active && (p.ID == ref || strings.EqualFold(p.Slug, ref)) {
				out.Package = p
				break
			}
		}
		if out.Package == nil {
			out.Dropped = append(out.Dropped, "package:"+ref)
		}
	}

	active := make(map[string]*domain.Deliverable, len(deliverables))
	for _, d := range deliverables {
		if d.Active {
			active[d.ID] = d
		}
	}

	seen := make(map[string]bool)
	for _, rd := range rec.Deliverables {
		id := strings.TrimSpace(rd.ID)
		d, ok := active[id]
		if !ok {
			out.Dropped = append(out.Dropped, "deliverable:"+id)
			continue
		}
		if seen[id] {
			continue
		}
		qty, ok := normalizeQuantity(rd.Quantity)
		if !ok {
			out.Dropped = append(out.Dropped, fmt.Sprintf("deliverable:%s (quantity %v)", id, rd.Quantity))
			continue
		}
		seen[id] = true
		out.Deliverables = append(out.Deliverables, choice{
			Deliverable: d,
			Quantity:    qty,
			Complexity:  normalizeComplexity(rd.Complexity),
			Notes:       strings.TrimSpace(rd.Notes),
		})
	}
	return out
}

// normalizeQuantity rounds a model quantity to the nearest whole unit with a
// floor of one. Quantities above MaxModelQuantity are rejected.
func normalizeQuantity(q float64) (int, bool) {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, false
	}
	r := math.Round(q)
	if r > MaxModelQuantity {
		return 0, false
	}
	if r < 1 {
		return 1, true
	}
	return int(r), true
}

// normalizeComplexity maps model output onto the allowed set. Client writes
// go through domain.ParseComplexity and are rejected instead.
func normalizeComplexity(v float64) domain.Complexity {
	c, err := domain.ParseComplexity(v)
	if err != nil {
		return domain.ComplexityNormal
	}
	return c
}

// resolveTitle picks the model title, then the project name, then the
// contact name, then the fixed fallback.
func resolveTitle(modelTitle string, profile domain.ClientProfile) string {
	if t := oneLine(modelTitle); t != "" {
		return t
	}
	if profile.ProjectName != "" {
		return domain.DefaultSprintTitle + " for " + profile.ProjectName
	}
	if name := profile.ContactName(); name != "" {
		return domain.DefaultSprintTitle + " for " + name
	}
	return domain.DefaultSprintTitle
}
