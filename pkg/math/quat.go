package math

import "github.com/chewxy/math32"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
// The zero value is not a rotation; stroke framing uses it as a
// "no orientation" sentinel.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuatFromTo returns the minimal rotation taking unit vector from onto unit
// vector to. For antiparallel inputs an arbitrary perpendicular axis is used.
func QuatFromTo(from, to Vec3) Quat {
	const eps = 1e-6

	r := from.Dot(to) + 1
	var axis Vec3
	if r < eps {
		r = 0
		if math32.Abs(from.X) > math32.Abs(from.Z) {
			axis = Vec3{X: -from.Y, Y: from.X}
		} else {
			axis = Vec3{Y: -from.Z, Z: from.Y}
		}
	} else {
		axis = from.Cross(to)
	}
	return Quat{X: axis.X, Y: axis.Y, Z: axis.Z, W: r}.Normalize()
}

// QuatLookRotation returns the rotation that maps +Z onto forward with +Y as
// close to up as the constraint allows. A degenerate up (parallel to forward,
// or zero) falls back to a world axis.
func QuatLookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	r := up.Cross(f)
	if r.Length() < 1e-6 {
		// up is useless; grab whichever world axis is least aligned
		if math32.Abs(f.Y) < 0.99 {
			r = Vec3{Y: 1}.Cross(f)
		} else {
			r = Vec3{X: 1}.Cross(f)
		}
	}
	r = r.Normalize()
	u := f.Cross(r)

	// Basis columns are (right, up, forward); convert to a quaternion.
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q Quat
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q = Quat{X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s, W: 0.25 * s}
	case m00 > m11 && m00 > m22:
		s := math32.Sqrt(1+m00-m11-m22) * 2
		q = Quat{X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s, W: (m21 - m12) / s}
	case m11 > m22:
		s := math32.Sqrt(1+m11-m00-m22) * 2
		q = Quat{X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s, W: (m02 - m20) / s}
	default:
		s := math32.Sqrt(1+m22-m00-m11) * 2
		q = Quat{X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s, W: (m10 - m01) / s}
	}
	return q.Normalize()
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations; q applied after other).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// RotateVec rotates v by q. q must be normalized.
func (q Quat) RotateVec(v Vec3) Vec3 {
	qv := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

// AngleTo returns the rotation angle in radians between q and other.
// Both must be normalized.
func (q Quat) AngleTo(other Quat) float32 {
	d := math32.Abs(q.Dot(other))
	if d > 1 {
		d = 1
	}
	return 2 * math32.Acos(d)
}

// IsZero reports whether q is the zero sentinel (not a valid rotation).
func (q Quat) IsZero() bool {
	return q == Quat{}
}
