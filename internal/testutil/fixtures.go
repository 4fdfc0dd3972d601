package testutil

import (
	"strings"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/google/uuid"
)

// Deliverable options
type DeliverableOption func(*domain.Deliverable)

func WithEconomics(hours, price, points float64) DeliverableOption {
	return func(d *domain.Deliverable) {
		d.FixedHours = hours
		d.FixedPrice = price
		d.PointEstimate = points
	}
}

func WithCategory(c string) DeliverableOption {
	return func(d *domain.Deliverable) {
		d.Category = c
	}
}

func WithScope(s string) DeliverableOption {
	return func(d *domain.Deliverable) {
		d.Scope = s
	}
}

func Inactive() DeliverableOption {
	return func(d *domain.Deliverable) {
		d.Active = false
	}
}

func NewTestDeliverable(name string, opts ...DeliverableOption) *domain.Deliverable {
	now := time.Now().UTC()
	d := &domain.Deliverable{
		ID:            uuid.New().String(),
		Name:          name,
		Category:      "Design",
		Scope:         name + " scope",
		FixedHours:    8,
		FixedPrice:    1200,
		PointEstimate: 2,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Package options
type PackageOption func(*domain.Package)

func WithItem(deliverableID string, quantity int) PackageOption {
	return func(p *domain.Package) {
		p.Items = append(p.Items, domain.PackageItem{
			PackageID:     p.ID,
			DeliverableID: deliverableID,
			Quantity:      quantity,
			SortOrder:     len(p.Items),
		})
	}
}

func Featured() PackageOption {
	return func(p *domain.Package) {
		p.Featured = true
	}
}

func InactivePackage() PackageOption {
	return func(p *domain.Package) {
		p.Active = false
	}
}

func NewTestPackage(name string, opts ...PackageOption) *domain.Package {
	now := time.Now().UTC()
	p := &domain.Package{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Tagline:   name + " tagline",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sprint options
type SprintOption func(*domain.Sprint)

func WithSubmission(id string) SprintOption {
	return func(s *domain.Sprint) {
		s.SubmissionID = &id
	}
}

func WithSprintStatus(st domain.SprintStatus) SprintOption {
	return func(s *domain.Sprint) {
		s.Status = st
	}
}

func NewTestSprint(title string, opts ...SprintOption) *domain.Sprint {
	now := time.Now().UTC()
	s := &domain.Sprint{
		ID:          uuid.New().String(),
		Title:       title,
		Status:      domain.SprintDraft,
		ClientName:  "Ada Lovelace",
		ClientEmail: "ada@example.com",
		ProjectName: "Analytical Engine",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestLine builds a line snapshotting d with derived values filled in
// for quantity 1 and normal complexity.
func NewTestLine(sprintID string, d *domain.Deliverable) *domain.SprintLine {
	id := d.ID
	return &domain.SprintLine{
		ID:               uuid.New().String(),
		SprintID:         sprintID,
		DeliverableID:    &id,
		NameSnapshot:     d.Name,
		CategorySnapshot: d.Category,
		ScopeSnapshot:    d.Scope,
		BasePoints:       d.PointEstimate,
		BaseHours:        d.FixedHours,
		BasePrice:        d.FixedPrice,
		Quantity:         1,
		Complexity:       domain.ComplexityNormal,
		CustomPoints:     d.PointEstimate,
		CustomHours:      d.FixedHours,
		CustomPrice:      d.FixedPrice,
		CreatedAt:        time.Now().UTC(),
	}
}

func NewTestSubmission(payload string) *domain.Submission {
	return &domain.Submission{
		ID:         uuid.New().String(),
		Source:     "test",
		Payload:    []byte(payload),
		ReceivedAt: time.Now().UTC(),
	}
}
