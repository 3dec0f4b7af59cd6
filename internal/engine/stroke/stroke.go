package stroke

import (
	"fmt"

	math "github.com/voxelforge/vrpaint/pkg/math"
)

// Stroke owns one drawn stroke: the ordered knot records and the geometry
// buffer built from them. All mutation funnels through AppendKnot, SetKnot,
// and TruncateKnots, each of which replays the two build passes (framing,
// meshing) over just the suffix the change invalidates. A rebuild runs to
// completion before control returns; the caller never observes the buffer
// mid-rebuild. Strokes are not safe for concurrent use, but separate strokes
// share nothing and may rebuild in parallel.
type Stroke struct {
	// Preview skips the break-angle check while a stroke is a placeholder
	// that has not been committed yet.
	Preview bool

	brush Brush
	color Color

	knots []Knot
	geom  Buffer
}

// New creates an empty stroke for the given brush and color. The color is
// applied uniformly to every vertex.
func New(brush Brush, color Color) *Stroke {
	if kVertsInClosedCircle <= 2 {
		panic("stroke: a closed ring needs more than two vertices")
	}
	if brush.AtlasRows < 1 {
		brush.AtlasRows = 1
	}
	if brush.TileRate <= 0 {
		brush.TileRate = 1
	}
	return &Stroke{brush: brush, color: color}
}

// Brush returns the brush this stroke was created with.
func (s *Stroke) Brush() Brush {
	return s.brush
}

// Layout describes which attribute arrays Geometry populates.
func (s *Stroke) Layout() VertexLayout {
	return s.brush.VertexLayout()
}

// Geometry exposes the current mesh. The buffer is owned by the stroke and
// must be treated as read-only; its contents are stable between mutations.
func (s *Stroke) Geometry() *Buffer {
	return &s.geom
}

// KnotCount returns the number of knots recorded so far.
func (s *Stroke) KnotCount() int {
	return len(s.knots)
}

// Knot returns a copy of knot i.
func (s *Stroke) Knot(i int) Knot {
	return s.knots[i]
}

// AppendKnot records a new sample at the end of the stroke and rebuilds the
// affected suffix. The very first knot has no displacement to measure and
// produces no geometry.
func (s *Stroke) AppendKnot(pos math.Vec3, pressure float32, orient math.Quat) {
	s.knots = append(s.knots, Knot{
		Position:    pos,
		Pressure:    pressure,
		Orientation: orient,
	})
	if k := len(s.knots) - 1; k > 0 {
		s.rebuildFrom(k)
	}
}

// SetKnot replaces the input data of knot i and rebuilds the affected suffix.
func (s *Stroke) SetKnot(i int, pos math.Vec3, pressure float32, orient math.Quat) {
	s.knots[i].Position = pos
	s.knots[i].Pressure = pressure
	s.knots[i].Orientation = orient

	if i == 0 {
		// The first knot only matters as the second one's predecessor.
		if len(s.knots) > 1 {
			s.rebuildFrom(1)
		}
		return
	}
	s.rebuildFrom(i)
}

// TruncateKnots drops every knot from n onward (stroke undo) and trims the
// buffer to match. Derived data of the survivors is already valid: a knot
// never depends on anything after itself.
func (s *Stroke) TruncateKnots(n int) {
	if n < 0 || n > len(s.knots) {
		panic(fmt.Sprintf("stroke: truncate to %d of %d knots", n, len(s.knots)))
	}
	if n == len(s.knots) {
		return
	}
	s.knots = s.knots[:n]
	if n == 0 {
		s.geom.Truncate(0, 0)
		return
	}
	last := s.knots[n-1]
	s.geom.Truncate(last.vertEnd(), last.triEnd())
}

// rebuildFrom replays framing and meshing over the suffix invalidated by a
// change at knot k, then trims stale tail geometry. The rebuild starts one
// knot earlier when that predecessor has geometry, since its segment shares
// the edit; a broken predecessor has nothing to preserve and is skipped.
func (s *Stroke) rebuildFrom(k int) {
	start := k
	if s.knots[k-1].HasGeometry {
		start = k - 1
	}
	if start < 1 {
		panic("stroke: rebuild start has no predecessor")
	}

	s.reframe(start)
	s.remesh(start)

	last := s.knots[len(s.knots)-1]
	s.geom.Truncate(last.vertEnd(), last.triEnd())
}
