package catalogimport

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog wraps every validation failure of a catalog file.
var ErrInvalidCatalog = errors.New("invalid catalog file")

// Validate checks the file before conversion and returns every problem
// found.
func Validate(f *CatalogFile) []error {
	var errs []error

	keys := make(map[string]bool)
	errs = append(errs, validateDeliverables(f.Deliverables, keys)...)
	errs = append(errs, validatePackages(f.Packages, keys)...)

	return errs
}

// Check runs Validate and joins the result into one error.
func Check(f *CatalogFile) error {
	if errs := Validate(f); len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

func validateDeliverables(items []DeliverableImport, keys map[string]bool) []error {
	var errs []error

	for i, d := range items {
		prefix := fmt.Sprintf("deliverables[%d]", i)

		key := deliverableKey(d)
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("%s: ref or id is required", prefix))
		case keys[key]:
			errs = append(errs, fmt.Errorf("%s: duplicate ref %q", prefix, key))
		default:
			keys[key] = true
			if d.Ref != "" && d.ID != "" {
				keys[d.ID] = true
			}
		}

		if strings.TrimSpace(d.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if d.Hours < 0 {
			errs = append(errs, fmt.Errorf("%s.hours must not be negative", prefix))
		}
		if d.Price < 0 {
			errs = append(errs, fmt.Errorf("%s.price must not be negative", prefix))
		}
		if d.Points < 0 {
			errs = append(errs, fmt.Errorf("%s.points must not be negative", prefix))
		}
		if d.Hours == 0 && d.Price == 0 && d.Points == 0 {
			errs = append(errs, fmt.Errorf("%s: one of hours, price or points is required", prefix))
		}
	}

	return errs
}

func validatePackages(pkgs []PackageImport, keys map[string]bool) []error {
	var errs []error

	slugs := make(map[string]bool)
	for i, p := range pkgs {
		prefix := fmt.Sprintf("packages[%d]", i)

		slug := strings.ToLower(strings.TrimSpace(p.Slug))
		if slug == "" {
			errs = append(errs, fmt.Errorf("%s.slug is required", prefix))
		} else if slugs[slug] {
			errs = append(errs, fmt.Errorf("%s.slug: duplicate slug %q", prefix, p.Slug))
		} else {
			slugs[slug] = true
		}

		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		for j, item := range p.Items {
			itemPrefix := fmt.Sprintf("%s.items[%d]", prefix, j)
			if item.Deliverable == "" {
				errs = append(errs, fmt.Errorf("%s.deliverable is required", itemPrefix))
			} else if !keys[item.Deliverable] {
				errs = append(errs, fmt.Errorf("%s.deliverable: ref %q not found in deliverables", itemPrefix, item.Deliverable))
			}
			if item.Quantity != nil && *item.Quantity < 1 {
				errs = append(errs, fmt.Errorf("%s.quantity must be at least 1", itemPrefix))
			}
		}
	}

	return errs
}

func deliverableKey(d DeliverableImport) string {
	if d.Ref != "" {
		return d.Ref
	}
	return d.ID
}
