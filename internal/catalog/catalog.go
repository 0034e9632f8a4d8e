// Package catalog holds the read-only list of purchasable photo packages.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Package struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	AmountCents   int64  `yaml:"amount_cents" json:"amount_cents"`
	Prints        int    `yaml:"prints" json:"prints"`
	GIF           bool   `yaml:"gif" json:"gif"`
	Boomerang     bool   `yaml:"boomerang" json:"boomerang"`
	DigitalAccess bool   `yaml:"digital_access" json:"digital_access"`
}

// Catalog keeps packages in file order and indexes them by id.
type Catalog struct {
	packages []Package
	byID     map[string]Package
}

type catalogFile struct {
	Packages []Package `yaml:"packages"`
}

func New(packages []Package) (*Catalog, error) {
	c := &Catalog{
		packages: make([]Package, 0, len(packages)),
		byID:     make(map[string]Package, len(packages)),
	}
	for _, p := range packages {
		if p.ID == "" {
			return nil, fmt.Errorf("package without id")
		}
		if p.AmountCents < 0 {
			return nil, fmt.Errorf("package %s has negative amount", p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate package id %s", p.ID)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		c.packages = append(c.packages, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// Load reads a YAML file with a top-level `packages` list.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return New(file.Packages)
}

func (c *Catalog) Get(id string) (Package, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All returns a copy so callers cannot reorder the catalog.
func (c *Catalog) All() []Package {
	out := make([]Package, len(c.packages))
	copy(out, c.packages)
	return out
}

// NameOf falls back to the id for packages no longer in the catalog.
func (c *Catalog) NameOf(id string) string {
	if p, ok := c.byID[id]; ok {
		return p.Name
	}
	return id
}
