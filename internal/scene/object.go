package scene

import (
	"image/color"

	"cloudscape/internal/cloud"
	"cloudscape/internal/geom"
	"cloudscape/internal/terrain"
)

// Object is one renderable entry of a scene. The set of kinds is closed:
// only the types in this file implement it.
type Object interface {
	isObject()
}

// CloudObject raymarches a cloud volume.
type CloudObject struct {
	Volume *cloud.Volume
}

// TerrainObject rasterizes a terrain field, shadowed by the scene's first
// cloud volume.
type TerrainObject struct {
	Field *terrain.Field
}

// GridObject draws a square ground grid on the plane y = Height.
type GridObject struct {
	Extent  float32
	Spacing float32
	Height  float32
	Color   color.NRGBA
}

// BoxObject outlines a bounding box.
type BoxObject struct {
	Box    geom.BoundingBox
	Color  color.NRGBA
	Dashed bool
}

func (CloudObject) isObject() {}

func (TerrainObject) isObject() {}

func (GridObject) isObject() {}

func (BoxObject) isObject() {}
