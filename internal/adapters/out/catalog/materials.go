package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/production"
	"storymap/internal/core/ports"
	"storymap/internal/pkg/errs"
)

//go:embed materials.toml
var defaultMaterials []byte

type materialFile struct {
	Materials []production.MaterialSpec `toml:"materials"`
}

// Materials is an in-memory MaterialCatalog.
type Materials struct {
	specs map[mapdata.Material]production.MaterialSpec
}

var _ ports.MaterialCatalog = (*Materials)(nil)

// DefaultMaterials loads the embedded catalog.
func DefaultMaterials() (*Materials, error) {
	return ParseMaterials(defaultMaterials)
}

// LoadMaterials reads a TOML catalog from disk.
func LoadMaterials(path string) (*Materials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read material catalog: %w", err)
	}
	return ParseMaterials(data)
}

// ParseMaterials decodes a TOML catalog. Every material needs settings for
// every operation.
func ParseMaterials(data []byte) (*Materials, error) {
	var file materialFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse material catalog: %w", err)
	}

	c := &Materials{specs: make(map[mapdata.Material]production.MaterialSpec, len(file.Materials))}
	for _, spec := range file.Materials {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.specs[spec.Material]; dup {
			return nil, fmt.Errorf("material %q is defined twice", spec.Material)
		}
		c.specs[spec.Material] = spec
	}
	return c, nil
}

// Material returns the spec of a material.
func (c *Materials) Material(m mapdata.Material) (production.MaterialSpec, error) {
	spec, ok := c.specs[m]
	if !ok {
		return production.MaterialSpec{}, errs.NewObjectNotFoundError("material", string(m))
	}
	spec.Settings = append([]production.MachineSettings(nil), spec.Settings...)
	return spec, nil
}

// Materials lists all specs ordered by material.
func (c *Materials) Materials() []production.MaterialSpec {
	out := make([]production.MaterialSpec, 0, len(c.specs))
	for _, spec := range c.specs {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out
}
