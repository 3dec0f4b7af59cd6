package stroke

import (
	"fmt"

	math "github.com/voxelforge/vrpaint/pkg/math"
)

// Color is an RGBA vertex color with components in [0, 1].
type Color [4]float32

// Vertex is one mesh vertex with the full attribute set this brush emits.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Color    Color
	Tangent  math.Vec3
	UV       math.Vec2
}

// Buffer holds the renderable mesh as parallel attribute arrays indexed in
// lockstep, plus triangle indices. Slots are written through WriteVert and
// WriteTri, which overwrite in place within the current length and append at
// the tail, and trimmed through Truncate. The owning stroke is the only
// writer; renderers read the arrays directly.
type Buffer struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Colors    []Color
	Tangents  []math.Vec3
	UVs       []math.Vec2
	Indices   []uint32
}

// VertexCount returns the number of vertices currently in the buffer.
func (b *Buffer) VertexCount() int {
	return len(b.Positions)
}

// TriangleCount returns the number of triangles currently in the buffer.
func (b *Buffer) TriangleCount() int {
	return len(b.Indices) / 3
}

// WriteVert stores v at slot i. Writes are sequential: i must be within the
// current length (overwrite) or exactly one past it (append).
func (b *Buffer) WriteVert(i int, v Vertex) {
	switch {
	case i < len(b.Positions):
		b.Positions[i] = v.Position
		b.Normals[i] = v.Normal
		b.Colors[i] = v.Color
		b.Tangents[i] = v.Tangent
		b.UVs[i] = v.UV
	case i == len(b.Positions):
		b.Positions = append(b.Positions, v.Position)
		b.Normals = append(b.Normals, v.Normal)
		b.Colors = append(b.Colors, v.Color)
		b.Tangents = append(b.Tangents, v.Tangent)
		b.UVs = append(b.UVs, v.UV)
	default:
		panic(fmt.Sprintf("stroke: vertex write at %d past buffer end %d", i, len(b.Positions)))
	}
}

// WriteTri stores triangle i as the index triple (i0, i1, i2). Every index
// must refer to a vertex already in the buffer.
func (b *Buffer) WriteTri(i int, i0, i1, i2 uint32) {
	n := uint32(len(b.Positions))
	if i0 >= n || i1 >= n || i2 >= n {
		panic(fmt.Sprintf("stroke: triangle %d references vertex beyond %d: (%d, %d, %d)", i, n, i0, i1, i2))
	}

	base := i * 3
	switch {
	case base < len(b.Indices):
		b.Indices[base] = i0
		b.Indices[base+1] = i1
		b.Indices[base+2] = i2
	case base == len(b.Indices):
		b.Indices = append(b.Indices, i0, i1, i2)
	default:
		panic(fmt.Sprintf("stroke: triangle write at %d past buffer end %d", i, len(b.Indices)/3))
	}
}

// Truncate trims the buffer to exactly nVerts vertices and nTris triangles,
// discarding stale tail data from a previous, longer build. Growing is not
// Truncate's job; larger values are ignored.
func (b *Buffer) Truncate(nVerts, nTris int) {
	if nVerts < len(b.Positions) {
		b.Positions = b.Positions[:nVerts]
		b.Normals = b.Normals[:nVerts]
		b.Colors = b.Colors[:nVerts]
		b.Tangents = b.Tangents[:nVerts]
		b.UVs = b.UVs[:nVerts]
	}
	if n := nTris * 3; n < len(b.Indices) {
		b.Indices = b.Indices[:n]
	}
}
