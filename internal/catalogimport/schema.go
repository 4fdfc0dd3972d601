// Package catalogimport reads catalog files (YAML or JSON) describing
// deliverables and packages, validates them and converts them to domain rows.
package catalogimport

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the top-level structure of a catalog import file.
type CatalogFile struct {
	Deliverables []DeliverableImport `yaml:"deliverables"`
	Packages     []PackageImport     `yaml:"packages"`
}

// DeliverableImport is one deliverable entry. Ref names the entry inside the
// file; ID pins the stored id when the row already exists elsewhere.
type DeliverableImport struct {
	Ref      string  `yaml:"ref"`
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Category string  `yaml:"category"`
	Scope    string  `yaml:"scope"`
	Hours    float64 `yaml:"hours"`
	Price    float64 `yaml:"price"`
	Points   float64 `yaml:"points"`
	Active   *bool   `yaml:"active"`
}

type PackageImport struct {
	Slug        string       `yaml:"slug"`
	Name        string       `yaml:"name"`
	Tagline     string       `yaml:"tagline"`
	Description string       `yaml:"description"`
	Featured    bool         `yaml:"featured"`
	SortOrder   int          `yaml:"sort_order"`
	Active      *bool        `yaml:"active"`
	Items       []ItemImport `yaml:"items"`
}

// ItemImport references a deliverable by ref or id. A missing quantity is 1.
type ItemImport struct {
	Deliverable string `yaml:"deliverable"`
	Quantity    *int   `yaml:"quantity"`
}

// Parse decodes a catalog document. JSON documents are valid YAML and go
// through the same decoder; unknown keys are rejected.
func Parse(data []byte) (*CatalogFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f CatalogFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &f, nil
}

// Load reads and parses a catalog file from disk.
func Load(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
