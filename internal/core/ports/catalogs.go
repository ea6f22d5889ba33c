package ports

import (
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/production"
)

// TemplateCatalog is the read-only journey template lookup.
type TemplateCatalog interface {
	// Template returns the template with the given id or errs.ObjectNotFoundError.
	Template(id string) (*mapdata.Template, error)
	// Templates lists all templates ordered by id.
	Templates() []mapdata.Template
}

// MaterialCatalog resolves material specifications with machine settings.
type MaterialCatalog interface {
	// Material returns the spec for a material or errs.ObjectNotFoundError.
	Material(m mapdata.Material) (production.MaterialSpec, error)
	// Materials lists all specs ordered by material.
	Materials() []production.MaterialSpec
}
