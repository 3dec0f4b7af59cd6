package stroke

import math "github.com/voxelforge/vrpaint/pkg/math"

// Knot is one recorded sample along a stroke: the smoothed pointer input plus
// the derived framing and geometry-range metadata. Knots are value records in
// an ordered slice; derived fields are recomputed whenever the knot or any
// predecessor changes.
type Knot struct {
	// Input, owned by the drawing collaborator.
	Position    math.Vec3
	Pressure    float32
	Orientation math.Quat

	// Frame orients the cross-section plane at this knot. It is the zero
	// quaternion while the strip is broken here.
	Frame math.Quat
	// Length is the distance to the previous knot.
	Length float32
	// HasGeometry is true iff this knot produced a visible segment.
	HasGeometry bool

	// Contiguous ranges this knot owns inside the geometry buffer. Knot i's
	// range starts exactly where knot i-1's ends.
	VertStart int
	VertCount int
	TriStart  int
	TriCount  int
}

// vertEnd returns one past the last vertex slot this knot owns.
func (k Knot) vertEnd() int {
	return k.VertStart + k.VertCount
}

// triEnd returns one past the last triangle slot this knot owns.
func (k Knot) triEnd() int {
	return k.TriStart + k.TriCount
}
