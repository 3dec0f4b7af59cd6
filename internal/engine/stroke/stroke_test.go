package stroke

import (
	"reflect"
	"testing"

	"github.com/chewxy/math32"

	math "github.com/voxelforge/vrpaint/pkg/math"
)

const segVerts = kVertsInClosedCircle + 1
const segTris = kVertsInClosedCircle + 1

func straightStroke(n int, spacing float32) *Stroke {
	s := New(DefaultBrush(), Color{1, 0, 0, 1})
	for i := 0; i < n; i++ {
		s.AppendKnot(math.Vec3{Z: float32(i) * spacing}, 0.8, math.QuatIdentity())
	}
	return s
}

// cornerStroke draws two straight runs joined by a 90 degree turn, with a
// thin brush so the turn is far above the break threshold.
func cornerStroke() *Stroke {
	b := DefaultBrush()
	b.Size = 0.01
	s := New(b, Color{1, 1, 1, 1})
	s.AppendKnot(math.Vec3{}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Z: 1}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Z: 2}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Y: 1, Z: 2}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Y: 2, Z: 2}, 1, math.QuatIdentity())
	return s
}

func snapshot(b *Buffer) Buffer {
	return Buffer{
		Positions: append([]math.Vec3(nil), b.Positions...),
		Normals:   append([]math.Vec3(nil), b.Normals...),
		Colors:    append([]Color(nil), b.Colors...),
		Tangents:  append([]math.Vec3(nil), b.Tangents...),
		UVs:       append([]math.Vec2(nil), b.UVs...),
		Indices:   append([]uint32(nil), b.Indices...),
	}
}

func checkContiguity(t *testing.T, s *Stroke) {
	t.Helper()
	for i := 1; i < s.KnotCount(); i++ {
		prev, cur := s.Knot(i-1), s.Knot(i)
		if cur.VertStart != prev.vertEnd() {
			t.Errorf("knot %d: vertex range starts at %d, expected %d", i, cur.VertStart, prev.vertEnd())
		}
		if cur.TriStart != prev.triEnd() {
			t.Errorf("knot %d: triangle range starts at %d, expected %d", i, cur.TriStart, prev.triEnd())
		}
	}
	last := s.Knot(s.KnotCount() - 1)
	if got := s.Geometry().VertexCount(); got != last.vertEnd() {
		t.Errorf("buffer has %d vertices, knot ranges end at %d", got, last.vertEnd())
	}
	if got := s.Geometry().TriangleCount(); got != last.triEnd() {
		t.Errorf("buffer has %d triangles, knot ranges end at %d", got, last.triEnd())
	}
}

func checkIndexBounds(t *testing.T, b *Buffer) {
	t.Helper()
	n := uint32(b.VertexCount())
	for i, idx := range b.Indices {
		if idx >= n {
			t.Fatalf("index %d at slot %d exceeds vertex count %d", idx, i, n)
		}
	}
}

func TestFirstKnotProducesNoGeometry(t *testing.T) {
	s := straightStroke(1, 1)

	k := s.Knot(0)
	if k.HasGeometry {
		t.Error("first knot should have no geometry")
	}
	if !k.Frame.IsZero() {
		t.Errorf("first knot frame should be the zero sentinel, got %+v", k.Frame)
	}
	if s.Geometry().VertexCount() != 0 {
		t.Errorf("expected empty buffer, got %d vertices", s.Geometry().VertexCount())
	}
}

func TestStraightStrokeContinuous(t *testing.T) {
	// Three collinear knots: zero turn angle, one continuous strip.
	s := New(DefaultBrush(), Color{0, 1, 0, 1})
	s.AppendKnot(math.Vec3{}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Z: 1}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Z: 2}, 1, math.QuatIdentity())

	for i := 1; i < 3; i++ {
		if !s.Knot(i).HasGeometry {
			t.Errorf("knot %d should have geometry", i)
		}
	}

	// Two rings plus two apex vertices.
	want := 2*kVertsInClosedCircle + 2
	if got := s.Geometry().VertexCount(); got != want {
		t.Errorf("expected %d vertices, got %d", want, got)
	}
	if got := s.Geometry().TriangleCount(); got != 2*segTris {
		t.Errorf("expected %d triangles, got %d", 2*segTris, got)
	}

	// No twist on a straight run: consecutive frames are identical rotations.
	if a := s.Knot(1).Frame.AngleTo(s.Knot(2).Frame); a > 1e-3 {
		t.Errorf("straight segments should share a frame, angle %v rad", a)
	}

	checkContiguity(t, s)
	checkIndexBounds(t, s.Geometry())
}

func TestMinimumMoveBreaks(t *testing.T) {
	// Displacement below the threshold never yields geometry, independent of
	// pressure or any prior frame.
	for _, pressure := range []float32{0, 0.3, 1} {
		s := New(DefaultBrush(), Color{1, 1, 1, 1})
		s.AppendKnot(math.Vec3{}, pressure, math.QuatIdentity())
		s.AppendKnot(math.Vec3{Z: 0.0001}, pressure, math.QuatIdentity())

		k := s.Knot(1)
		if k.HasGeometry {
			t.Errorf("pressure %v: knot with sub-threshold move has geometry", pressure)
		}
		if k.VertCount != 0 || k.TriCount != 0 {
			t.Errorf("pressure %v: broken knot owns %d/%d slots", pressure, k.VertCount, k.TriCount)
		}
		if s.Geometry().VertexCount() != 0 {
			t.Errorf("pressure %v: buffer grew to %d vertices", pressure, s.Geometry().VertexCount())
		}
	}

	// Same with an established frame before the stall.
	s := straightStroke(3, 1)
	before := s.Geometry().VertexCount()
	s.AppendKnot(math.Vec3{Z: 2.0001}, 0.8, math.QuatIdentity())
	if s.Knot(3).HasGeometry {
		t.Error("stalled knot after a live strip has geometry")
	}
	if got := s.Geometry().VertexCount(); got != before {
		t.Errorf("buffer length changed from %d to %d", before, got)
	}
}

func TestSharpTurnBreaksThinStroke(t *testing.T) {
	s := cornerStroke()

	if !s.Knot(1).HasGeometry || !s.Knot(2).HasGeometry {
		t.Fatal("straight run before the corner should be continuous")
	}
	if s.Knot(3).HasGeometry {
		t.Error("90 degree turn should break the strip")
	}
	if !s.Knot(3).Frame.IsZero() {
		t.Errorf("broken knot frame should be the zero sentinel, got %+v", s.Knot(3).Frame)
	}
	if !s.Knot(4).HasGeometry {
		t.Error("knot after the break should start a second strip")
	}

	// Two disjoint strips: three meshed segments in total.
	if got := s.Geometry().VertexCount(); got != 3*segVerts {
		t.Errorf("expected %d vertices, got %d", 3*segVerts, got)
	}
	checkContiguity(t, s)
	checkIndexBounds(t, s.Geometry())
}

func TestPreviewSkipsBreakAngle(t *testing.T) {
	b := DefaultBrush()
	b.Size = 0.01
	s := New(b, Color{1, 1, 1, 1})
	s.Preview = true
	s.AppendKnot(math.Vec3{}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Z: 1}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Y: 1, Z: 1}, 1, math.QuatIdentity())

	if !s.Knot(2).HasGeometry {
		t.Error("preview stroke should not break on turn angle")
	}
}

func TestRingClosure(t *testing.T) {
	s := straightStroke(6, 0.7)
	buf := s.Geometry()

	for i := 1; i < s.KnotCount(); i++ {
		k := s.Knot(i)
		if !k.HasGeometry {
			continue
		}
		first := buf.Positions[k.VertStart]
		last := buf.Positions[k.VertStart+kVertsInClosedCircle-1]
		if first != last {
			t.Errorf("knot %d: seam vertices differ: %+v vs %+v", i, first, last)
		}
		if buf.Normals[k.VertStart] != buf.Normals[k.VertStart+kVertsInClosedCircle-1] {
			t.Errorf("knot %d: seam normals differ", i)
		}
	}
}

func TestParallelTransportFollowsTangent(t *testing.T) {
	// Sample a gentle arc; every frame's forward axis must match the segment
	// tangent exactly, and the strip must stay unbroken.
	s := New(DefaultBrush(), Color{1, 1, 1, 1})
	const radius = 10
	for i := 0; i < 10; i++ {
		sin, cos := math32.Sincos(float32(i) * math32.Pi / 18)
		s.AppendKnot(math.Vec3{X: radius * (1 - cos), Z: radius * sin}, 0.8, math.QuatIdentity())
	}

	for i := 1; i < s.KnotCount(); i++ {
		k := s.Knot(i)
		if !k.HasGeometry {
			t.Fatalf("gentle arc broke at knot %d", i)
		}
		tangent := k.Position.Sub(s.Knot(i - 1).Position).Normalize()
		forward := k.Frame.RotateVec(axisForward)
		if forward.Distance(tangent) > 1e-3 {
			t.Errorf("knot %d: forward %+v, tangent %+v", i, forward, tangent)
		}
	}
}

func TestRebuildIdempotent(t *testing.T) {
	s := cornerStroke()
	before := snapshot(s.Geometry())

	// Replaying the same input must reproduce the buffer bit for bit.
	last := s.KnotCount() - 1
	k := s.Knot(last)
	s.SetKnot(last, k.Position, k.Pressure, k.Orientation)

	if !reflect.DeepEqual(before, snapshot(s.Geometry())) {
		t.Error("rebuild of unmodified suffix changed the buffer")
	}

	mid := 2
	k = s.Knot(mid)
	s.SetKnot(mid, k.Position, k.Pressure, k.Orientation)
	if !reflect.DeepEqual(before, snapshot(s.Geometry())) {
		t.Error("rebuild from the middle changed the buffer")
	}
}

func TestEditRebuildsSuffixOnly(t *testing.T) {
	s := straightStroke(10, 1)
	buf := s.Geometry()

	prefixEnd := s.Knot(3).vertEnd()
	prefix := append([]math.Vec3(nil), buf.Positions[:prefixEnd]...)
	backing := &buf.Positions[0]

	// Wiggle knot 5; the rebuild starts at knot 4 and must leave knots 0-3
	// untouched, in the same backing arrays.
	s.SetKnot(5, math.Vec3{X: 0.2, Z: 5}, 0.8, math.QuatIdentity())

	if &buf.Positions[0] != backing {
		t.Error("suffix edit reallocated the vertex arrays")
	}
	for i, p := range buf.Positions[:prefixEnd] {
		if p != prefix[i] {
			t.Errorf("prefix vertex %d changed: %+v vs %+v", i, p, prefix[i])
		}
	}

	checkContiguity(t, s)
	checkIndexBounds(t, buf)
}

func TestEditShrinksBuffer(t *testing.T) {
	s := straightStroke(5, 1)
	if got := s.Geometry().VertexCount(); got != 4*segVerts {
		t.Fatalf("expected %d vertices before edit, got %d", 4*segVerts, got)
	}

	// Park knot 3 a hair away from knot 2: its segment disappears and the
	// buffer must shrink to the remaining three segments.
	s.SetKnot(3, math.Vec3{Z: 2.0001}, 0.8, math.QuatIdentity())

	if s.Knot(3).HasGeometry {
		t.Error("knot 3 should be broken after the edit")
	}
	if !s.Knot(4).HasGeometry {
		t.Error("knot 4 should restart the strip")
	}
	if got := s.Geometry().VertexCount(); got != 3*segVerts {
		t.Errorf("expected %d vertices after edit, got %d", 3*segVerts, got)
	}
	checkContiguity(t, s)
	checkIndexBounds(t, s.Geometry())
}

func TestTruncateKnots(t *testing.T) {
	s := straightStroke(5, 1)

	s.TruncateKnots(3)
	if s.KnotCount() != 3 {
		t.Fatalf("expected 3 knots, got %d", s.KnotCount())
	}
	if got := s.Geometry().VertexCount(); got != 2*segVerts {
		t.Errorf("expected %d vertices, got %d", 2*segVerts, got)
	}
	checkContiguity(t, s)

	// Drawing continues cleanly after an undo.
	s.AppendKnot(math.Vec3{Z: 3}, 0.8, math.QuatIdentity())
	if got := s.Geometry().VertexCount(); got != 3*segVerts {
		t.Errorf("expected %d vertices after redraw, got %d", 3*segVerts, got)
	}

	s.TruncateKnots(0)
	if s.Geometry().VertexCount() != 0 || s.Geometry().TriangleCount() != 0 {
		t.Error("truncating all knots should empty the buffer")
	}
}

func TestAtlasUVs(t *testing.T) {
	b := DefaultBrush()
	b.UVStyle = UVUnitized
	s := New(b, Color{1, 1, 1, 1})
	s.AppendKnot(math.Vec3{}, 1, math.QuatIdentity())
	s.AppendKnot(math.Vec3{Z: 1}, 1, math.QuatIdentity())

	buf := s.Geometry()
	for i, uv := range buf.UVs {
		if uv.X != 0 {
			t.Errorf("unitized style: vertex %d has u=%v", i, uv.X)
		}
		if uv.Y < 0 || uv.Y > 1 {
			t.Errorf("vertex %d has v=%v outside the atlas", i, uv.Y)
		}
	}

	b.UVStyle = UVDistance
	s = New(b, Color{1, 1, 1, 1})
	for i := 0; i < 8; i++ {
		s.AppendKnot(math.Vec3{Z: float32(i)}, 1, math.QuatIdentity())
	}
	buf = s.Geometry()
	for i, uv := range buf.UVs {
		// u snaps to the tile grid
		snapped := math32.Floor(uv.X*b.TileRate) / b.TileRate
		if uv.X != snapped {
			t.Errorf("distance style: vertex %d has off-grid u=%v", i, uv.X)
		}
	}

	// Ring v spans its atlas row shrunk by the edge chop.
	k := s.Knot(1)
	rows := float32(b.AtlasRows)
	v0 := buf.UVs[k.VertStart].Y
	v1 := buf.UVs[k.VertStart+kVertsInClosedCircle-1].Y
	row := math32.Floor(v0 * rows)
	if math32.Floor(v1*rows) != row {
		t.Errorf("ring spans atlas rows: v0=%v v1=%v", v0, v1)
	}
	wantSpan := (1 - 2*b.TextureEdgeChop) / rows
	if got := v1 - v0; math32.Abs(got-wantSpan) > 1e-5 {
		t.Errorf("ring v span %v, expected %v", got, wantSpan)
	}
}

func TestHash01Deterministic(t *testing.T) {
	seen := make(map[float32]bool)
	for _, key := range []uint32{0, 1, 5, 10, 255, 1 << 20} {
		a := hash01(key)
		b := hash01(key)
		if a != b {
			t.Errorf("key %d: hash not deterministic (%v vs %v)", key, a, b)
		}
		if a < 0 || a >= 1 {
			t.Errorf("key %d: hash %v outside [0,1)", key, a)
		}
		seen[a] = true
	}
	if len(seen) < 4 {
		t.Errorf("hash collapses keys: only %d distinct values", len(seen))
	}
}

func TestMakeCapVerts(t *testing.T) {
	s := straightStroke(3, 1)
	buf := s.Geometry()

	k := s.Knot(2)
	forward := k.Frame.RotateVec(axisForward)
	at := buf.VertexCount()
	n := s.makeCapVerts(at, k, forward, 0, 0.5)

	if n != kVertsInClosedCircle {
		t.Fatalf("expected %d cap vertices, got %d", kVertsInClosedCircle, n)
	}
	for j := 0; j < n; j++ {
		if buf.Positions[at+j] != k.Position {
			t.Errorf("cap vertex %d not at knot position: %+v", j, buf.Positions[at+j])
		}
		if buf.Normals[at+j] != forward {
			t.Errorf("cap vertex %d normal %+v, expected %+v", j, buf.Normals[at+j], forward)
		}
	}
}

func TestVertexLayout(t *testing.T) {
	l := DefaultBrush().VertexLayout()
	if l.UV0Size != 2 || l.UV1Size != 0 {
		t.Errorf("expected 2-component UV0 and no UV1, got %d/%d", l.UV0Size, l.UV1Size)
	}
	if !l.Normals || !l.Colors || !l.Tangents {
		t.Error("normals, colors, and tangents should all be populated")
	}
}

func TestUVStyleParsing(t *testing.T) {
	tests := []struct {
		in      string
		want    UVStyle
		wantErr bool
	}{
		{"distance", UVDistance, false},
		{"unitized", UVUnitized, false},
		{"", UVDistance, false},
		{"bogus", UVDistance, true},
	}
	for _, tt := range tests {
		got, err := ParseUVStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUVStyle(%q) error = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseUVStyle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
