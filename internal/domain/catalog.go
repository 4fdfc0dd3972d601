package domain

import "time"

// Deliverable is a catalog unit of billable work.
type Deliverable struct {
	ID            string
	Name          string
	Category      string
	Scope         string
	FixedHours    float64
	FixedPrice    float64
	PointEstimate float64
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Package is a named bundle of deliverables with quantities.
type Package struct {
	ID          string
	Name        string
	Slug        string
	Tagline     string
	Description string
	Featured    bool
	SortOrder   int
	Active      bool
	Items       []PackageItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PackageItem struct {
	PackageID     string
	DeliverableID string
	Quantity      int
	SortOrder     int
}
