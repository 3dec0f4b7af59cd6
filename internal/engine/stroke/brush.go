// Package stroke incrementally builds tetrahedron-strip ribbon meshes from
// pointer samples drawn in 3D space.
package stroke

import "fmt"

// UVStyle selects how the horizontal texture coordinate is laid out.
type UVStyle int

const (
	// UVDistance picks a randomized atlas-tile offset per segment.
	UVDistance UVStyle = iota
	// UVUnitized pins u to 0 for every segment.
	UVUnitized
)

// String returns the config-file name of the style.
func (s UVStyle) String() string {
	switch s {
	case UVDistance:
		return "distance"
	case UVUnitized:
		return "unitized"
	}
	return fmt.Sprintf("UVStyle(%d)", int(s))
}

// ParseUVStyle converts a config-file name to a UVStyle.
func ParseUVStyle(name string) (UVStyle, error) {
	switch name {
	case "distance", "":
		return UVDistance, nil
	case "unitized":
		return UVUnitized, nil
	}
	return UVDistance, fmt.Errorf("unknown uv style %q", name)
}

// Brush describes the tuning of a stroke: its width, how eagerly it splits at
// corners, and how segments sample the texture atlas.
type Brush struct {
	// Size is the full stroke diameter at pressure 1.
	Size float32

	// BreakAngleMultiplier scales the adaptive break-angle threshold.
	BreakAngleMultiplier float32

	// TextureEdgeChop is the fraction trimmed from each edge of an atlas row
	// so filtering never samples the neighboring row.
	TextureEdgeChop float32

	UVStyle   UVStyle
	AtlasRows int
	// TileRate is the number of atlas tiles per unit of u.
	TileRate float32
}

// DefaultBrush returns the stock tetrahedron brush tuning.
func DefaultBrush() Brush {
	return Brush{
		Size:                 0.05,
		BreakAngleMultiplier: 0.5,
		TextureEdgeChop:      0.1,
		UVStyle:              UVDistance,
		AtlasRows:            4,
		TileRate:             4,
	}
}

// diameter returns the stroke width at the given pressure.
func (b Brush) diameter(pressure float32) float32 {
	return b.Size * pressure
}

// VertexLayout describes which attribute arrays a stroke's geometry buffer
// populates, for the renderer to bind against.
type VertexLayout struct {
	UV0Size  int
	UV1Size  int
	Normals  bool
	Colors   bool
	Tangents bool
}

// VertexLayout reports the attribute set this brush emits: 2-component UV0,
// no UV1, normals, colors, and tangents.
func (Brush) VertexLayout() VertexLayout {
	return VertexLayout{UV0Size: 2, UV1Size: 0, Normals: true, Colors: true, Tangents: true}
}
