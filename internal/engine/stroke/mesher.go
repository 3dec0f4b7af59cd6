package stroke

import (
	"github.com/chewxy/math32"

	math "github.com/voxelforge/vrpaint/pkg/math"
)

// remesh regenerates vertex and triangle ranges for every knot from start to
// the end, in order. A knot that had geometry before overwrites the same
// buffer slots; growth appends at the tail. Broken knots collapse to empty
// ranges so the next knot starts at the same offset.
func (s *Stroke) remesh(start int) {
	for i := start; i < len(s.knots); i++ {
		k := s.knots[i]
		prev := s.knots[i-1]

		k.VertStart = prev.vertEnd()
		k.TriStart = prev.triEnd()

		if !k.HasGeometry {
			k.VertCount = 0
			k.TriCount = 0
		} else {
			s.meshSegment(&k, prev)
		}
		s.knots[i] = k
	}
}

// meshSegment emits one tetrahedron segment: a closed ring around the
// previous knot and an apex at the current one, stitched by a fan plus a
// two-triangle back face.
func (s *Stroke) meshSegment(k *Knot, prev Knot) {
	right := k.Frame.RotateVec(axisRight)
	up := k.Frame.RotateVec(axisUp)
	forward := k.Frame.RotateVec(axisForward)

	row, u := s.atlasSlot(k.VertStart)
	rows := float32(s.brush.AtlasRows)
	chop := s.brush.TextureEdgeChop

	radius := s.brush.diameter(prev.Pressure) / 2
	center := prev.Position

	// Ring around the previous knot. The seam vertex repeats the first one
	// exactly so filtering cannot open a crack, but carries the far edge of
	// the atlas row.
	var firstPos, firstNormal math.Vec3
	for j := 0; j < kVertsInClosedCircle; j++ {
		t := float32(j) / float32(kVertsInClosedCircle-1)

		var pos, normal math.Vec3
		if j == kVertsInClosedCircle-1 {
			pos, normal = firstPos, firstNormal
		} else {
			sin, cos := math32.Sincos(t * 2 * math32.Pi)
			normal = right.Scale(cos).Add(up.Scale(sin))
			pos = center.Add(normal.Scale(radius))
			if j == 0 {
				firstPos, firstNormal = pos, normal
			}
		}

		v := (float32(row) + chop + t*(1-2*chop)) / rows
		s.geom.WriteVert(k.VertStart+j, Vertex{
			Position: pos,
			Normal:   normal,
			Color:    s.color,
			Tangent:  forward,
			UV:       math.Vec2{X: u, Y: v},
		})
	}

	// Apex at the current knot, appended as a single vertex.
	apex := k.VertStart + kVertsInClosedCircle
	s.geom.WriteVert(apex, Vertex{
		Position: k.Position,
		Normal:   forward,
		Color:    s.color,
		Tangent:  forward,
		UV:       math.Vec2{X: u, Y: (float32(row) + 0.5) / rows},
	})
	k.VertCount = kVertsInClosedCircle + 1

	base := uint32(k.VertStart)
	tri := k.TriStart
	for j := uint32(0); j < kVertsInClosedCircle-1; j++ {
		s.geom.WriteTri(tri, base+j, base+j+1, uint32(apex))
		tri++
	}
	// Back face: the fixed ring ordering split into two triangles.
	s.geom.WriteTri(tri, base+2, base+1, base)
	tri++
	s.geom.WriteTri(tri, base+3, base+2, base)
	tri++
	k.TriCount = tri - k.TriStart
}

// atlasSlot picks the texture-atlas row and horizontal offset for a segment,
// deterministically from its vertex start index.
func (s *Stroke) atlasSlot(vertStart int) (row int, u float32) {
	r0 := hash01(uint32(vertStart))
	row = int(r0 * float32(s.brush.AtlasRows))
	if row >= s.brush.AtlasRows {
		row = s.brush.AtlasRows - 1
	}

	if s.brush.UVStyle == UVDistance {
		r1 := hash01(^uint32(vertStart))
		u = math32.Floor(r1*s.brush.TileRate) / s.brush.TileRate
	}
	return row, u
}

// makeCapVerts emits a full ring of coincident cap vertices at the knot's
// position, all facing forward. This is the alternate cap path; the mesher
// appends the single apex vertex instead.
func (s *Stroke) makeCapVerts(at int, k Knot, forward math.Vec3, u, v float32) int {
	for j := 0; j < kVertsInClosedCircle; j++ {
		s.geom.WriteVert(at+j, Vertex{
			Position: k.Position,
			Normal:   forward,
			Color:    s.color,
			Tangent:  forward,
			UV:       math.Vec2{X: u, Y: v},
		})
	}
	return kVertsInClosedCircle
}
