// Package catalog serves the read-only template and material catalogs. Both
// ship embedded in the binary and can be replaced from a file at startup.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/ports"
	"storymap/internal/pkg/errs"
)

//go:embed templates.yaml
var defaultTemplates []byte

type templateFile struct {
	Templates []mapdata.Template `yaml:"templates"`
}

// Templates is an in-memory TemplateCatalog.
type Templates struct {
	byID map[string]mapdata.Template
	ids  []string
}

var _ ports.TemplateCatalog = (*Templates)(nil)

// DefaultTemplates loads the embedded catalog.
func DefaultTemplates() (*Templates, error) {
	return ParseTemplates(defaultTemplates)
}

// LoadTemplates reads a YAML catalog from disk.
func LoadTemplates(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes and validates a YAML catalog. Ids must be unique.
func ParseTemplates(data []byte) (*Templates, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}

	c := &Templates{byID: make(map[string]mapdata.Template, len(file.Templates))}
	for _, t := range file.Templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("template %q is defined twice", t.ID)
		}
		c.byID[t.ID] = t
		c.ids = append(c.ids, t.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Template returns a copy of the template with the given id.
func (c *Templates) Template(id string) (*mapdata.Template, error) {
	t, ok := c.byID[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("template", id)
	}
	return clone(t), nil
}

// Templates lists all templates ordered by id.
func (c *Templates) Templates() []mapdata.Template {
	out := make([]mapdata.Template, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, *clone(c.byID[id]))
	}
	return out
}

// clone copies the slices so callers cannot change the catalog.
func clone(t mapdata.Template) *mapdata.Template {
	t.Route = append([]kernel.GeoPoint(nil), t.Route...)
	t.Waypoints = append([]mapdata.Waypoint(nil), t.Waypoints...)
	if t.Bounds != nil {
		b := *t.Bounds
		t.Bounds = &b
	}
	return &t
}
