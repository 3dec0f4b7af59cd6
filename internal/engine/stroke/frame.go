package stroke

import (
	"github.com/chewxy/math32"

	math "github.com/voxelforge/vrpaint/pkg/math"
)

const (
	// kVertsInClosedCircle is the ring size of the cross-section, counting the
	// seam vertex that coincides with the first. Three distinct positions plus
	// the apex give each segment its tetrahedron shape.
	kVertsInClosedCircle = 4

	// kMinimumMove is the displacement below which a knot produces no segment.
	kMinimumMove = 5e-4

	// kBreakAngleScalar is declared alongside the other tuning constants but
	// is not applied anywhere; the brush's BreakAngleMultiplier is what scales
	// the threshold. Kept until the tuning story is settled.
	kBreakAngleScalar float32 = 1.5

	radToDeg = 180 / math32.Pi
)

// Local frame axes: right, up, and forward (the tangent direction).
var (
	axisRight   = math.Vec3{X: 1}
	axisUp      = math.Vec3{Y: 1}
	axisForward = math.Vec3{Z: 1}
)

// reframe recomputes length, frame, and break status for every knot from
// start to the end, in order. Each knot depends only on itself and its
// immediate predecessor, never on anything later.
func (s *Stroke) reframe(start int) {
	for i := start; i < len(s.knots); i++ {
		k := s.knots[i]
		prev := s.knots[i-1]

		disp := k.Position.Sub(prev.Position)
		k.Length = disp.Length()

		broken := k.Length < kMinimumMove
		if !broken {
			tangent := disp.Scale(1 / k.Length)

			if prev.HasGeometry {
				// Parallel transport: rotate the previous frame by the
				// smallest rotation taking its forward axis onto the new
				// tangent, so the cross-section accumulates no twist.
				prevTangent := prev.Frame.RotateVec(axisForward)
				k.Frame = math.QuatFromTo(prevTangent, tangent).Mul(prev.Frame)
			} else {
				// No valid predecessor orientation; bootstrap from the input
				// device orientation.
				k.Frame = math.QuatLookRotation(tangent, s.initialUp(k.Orientation, tangent))
			}

			if prev.HasGeometry && !s.Preview {
				broken = s.exceedsBreakAngle(prev.Frame, k.Frame, k.Length, k.Pressure)
			}
		}

		if broken {
			k.Frame = math.Quat{}
			k.HasGeometry = false
			k.VertCount = 0
			k.TriCount = 0
		} else {
			k.HasGeometry = true
			// Placeholder until the mesher sizes the ranges.
			k.VertCount = 1
			k.TriCount = 1
		}
		s.knots[i] = k
	}
}

// exceedsBreakAngle reports whether the turn between two consecutive frames
// is too sharp for the segment's proportions. A long segment relative to its
// width gets a high threshold and tolerates sharp turns; a short fat one
// breaks readily, which keeps corners free of self-intersecting geometry.
func (s *Stroke) exceedsBreakAngle(prevFrame, frame math.Quat, length, pressure float32) bool {
	aspect := length / s.brush.diameter(pressure)
	breakAngle := math32.Atan(aspect) * radToDeg * s.brush.BreakAngleMultiplier
	return prevFrame.AngleTo(frame)*radToDeg > breakAngle
}

// initialUp derives an up hint for a segment that starts a new strip. The
// device's up axis is used unless it is degenerate against the tangent, in
// which case the device's right axis stands in.
func (s *Stroke) initialUp(orient math.Quat, tangent math.Vec3) math.Vec3 {
	up := orient.RotateVec(axisUp)
	if math32.Abs(up.Dot(tangent)) > 0.999 {
		up = orient.RotateVec(axisRight)
	}
	return up
}
