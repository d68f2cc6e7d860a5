package common

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Pi is math.Pi as a float32.
const Pi = float32(math.Pi)

// PoleEpsilon keeps the polar angle away from exactly 0 or Pi, where the azimuth is undefined.
const PoleEpsilon float32 = 1e-6

// Spherical is a point expressed in spherical coordinates around the +Y axis.
// Phi is the polar angle measured from +Y and Theta is the azimuth around +Y,
// with Theta = 0 pointing along +Z.
type Spherical struct {
	// Radius is the distance from the origin.
	Radius float32
	// Phi is the polar angle from the +Y axis in radians, in [0, Pi].
	Phi float32
	// Theta is the azimuthal angle around the +Y axis in radians.
	Theta float32
}

// SphericalFromVec3 converts a cartesian offset into spherical coordinates.
// The zero vector maps to the zero Spherical.
//
// Parameters:
//   - v: the cartesian offset
//
// Returns:
//   - Spherical: the equivalent spherical coordinates
func SphericalFromVec3(v mgl32.Vec3) Spherical {
	r := v.Len()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  math32.Atan2(v[0], v[2]),
		Phi:    math32.Acos(Clamp(v[1]/r, -1, 1)),
	}
}

// Vec3 converts the spherical coordinates back into a cartesian offset.
func (s Spherical) Vec3() mgl32.Vec3 {
	sinPhiRadius := math32.Sin(s.Phi) * s.Radius
	return mgl32.Vec3{
		sinPhiRadius * math32.Sin(s.Theta),
		math32.Cos(s.Phi) * s.Radius,
		sinPhiRadius * math32.Cos(s.Theta),
	}
}

// MakeSafe restricts Phi to [PoleEpsilon, Pi-PoleEpsilon].
func (s Spherical) MakeSafe() Spherical {
	s.Phi = Clamp(s.Phi, PoleEpsilon, Pi-PoleEpsilon)
	return s
}

// ClampAzimuth restricts theta to the arc between lo and hi.
// Infinite bounds leave theta untouched. Finite bounds are first wrapped into
// [-Pi, Pi]; when the wrapped range crosses the +/-Pi seam (lo > hi) theta is
// pulled to whichever end of the allowed arc is nearer.
//
// Parameters:
//   - theta: the azimuth to clamp in radians
//   - lo, hi: the allowed azimuth range in radians
//
// Returns:
//   - float32: the clamped azimuth
func ClampAzimuth(theta, lo, hi float32) float32 {
	if !isFinite(lo) || !isFinite(hi) {
		return theta
	}
	lo = wrapAngle(lo)
	hi = wrapAngle(hi)
	if lo <= hi {
		return Clamp(theta, lo, hi)
	}
	if theta > (lo+hi)/2 {
		return max(lo, theta)
	}
	return min(hi, theta)
}

func wrapAngle(a float32) float32 {
	if a < -Pi {
		return a + 2*Pi
	}
	if a > Pi {
		return a - 2*Pi
	}
	return a
}

// QuatToYUp returns the rotation taking up onto +Y together with its inverse.
// A zero up vector is treated as +Y.
//
// Parameters:
//   - up: the configured up direction
//
// Returns:
//   - mgl32.Quat: rotation from the up-aligned frame into the Y-up frame
//   - mgl32.Quat: the inverse rotation
func QuatToYUp(up mgl32.Vec3) (mgl32.Quat, mgl32.Quat) {
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	q := mgl32.QuatBetweenVectors(up.Normalize(), mgl32.Vec3{0, 1, 0})
	return q, q.Inverse()
}

// ClosestPointOnLine projects p onto the infinite line through a and b.
// When a and b coincide the result is a.
//
// Parameters:
//   - a, b: two points on the line
//   - p: the point to project
//
// Returns:
//   - mgl32.Vec3: the foot of the perpendicular from p to the line
func ClosestPointOnLine(a, b, p mgl32.Vec3) mgl32.Vec3 {
	dir := b.Sub(a)
	lenSq := dir.Dot(dir)
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(dir) / lenSq
	return a.Add(dir.Mul(t))
}
