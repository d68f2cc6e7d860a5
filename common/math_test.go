package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertVecInDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v vs %v", i, want, got)
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	for _, v := range []mgl32.Vec3{
		{0, 0, 5},
		{3, 4, 0},
		{-1, 2, -3},
		{0.5, -7, 0.25},
	} {
		s := SphericalFromVec3(v)
		assert.InDelta(t, v.Len(), s.Radius, tol)
		assertVecInDelta(t, v, s.Vec3(), 1e-4)
	}
}

func TestSphericalAxes(t *testing.T) {
	s := SphericalFromVec3(mgl32.Vec3{0, 0, 5})
	assert.InDelta(t, 0, s.Theta, tol)
	assert.InDelta(t, Pi/2, s.Phi, tol)

	s = SphericalFromVec3(mgl32.Vec3{0, 2, 0})
	assert.InDelta(t, 0, s.Phi, tol)

	assert.Equal(t, Spherical{}, SphericalFromVec3(mgl32.Vec3{}))
}

func TestMakeSafe(t *testing.T) {
	assert.Equal(t, PoleEpsilon, Spherical{Phi: 0}.MakeSafe().Phi)
	assert.Equal(t, Pi-PoleEpsilon, Spherical{Phi: Pi}.MakeSafe().Phi)
	assert.Equal(t, float32(1), Spherical{Phi: 1}.MakeSafe().Phi)
}

func TestClampAzimuth(t *testing.T) {
	inf := math32.Inf(1)
	assert.Equal(t, float32(10), ClampAzimuth(10, -inf, inf))
	assert.Equal(t, float32(0.5), ClampAzimuth(1, -0.5, 0.5))
	assert.Equal(t, float32(-0.5), ClampAzimuth(-1, -0.5, 0.5))
	assert.Equal(t, float32(0.25), ClampAzimuth(0.25, -0.5, 0.5))

	// Arc from 3 to 4 radians crosses the seam at Pi.
	hi := float32(4) - 2*Pi
	assert.Equal(t, float32(3.1), ClampAzimuth(3.1, 3, 4))
	assert.Equal(t, float32(-3), ClampAzimuth(-3, 3, 4))
	assert.Equal(t, hi, ClampAzimuth(0, 3, 4))
	assert.Equal(t, float32(3), ClampAzimuth(1, 3, 4))
}

func TestQuatToYUp(t *testing.T) {
	q, qInv := QuatToYUp(mgl32.Vec3{0, 0, 1})
	assertVecInDelta(t, mgl32.Vec3{0, 1, 0}, q.Rotate(mgl32.Vec3{0, 0, 1}), tol)
	assertVecInDelta(t, mgl32.Vec3{0, 0, 1}, qInv.Rotate(mgl32.Vec3{0, 1, 0}), tol)

	v := mgl32.Vec3{1, 2, 3}
	assertVecInDelta(t, v, qInv.Rotate(q.Rotate(v)), tol)

	q, _ = QuatToYUp(mgl32.Vec3{})
	assertVecInDelta(t, v, q.Rotate(v), tol)
}

func TestClosestPointOnLine(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{0, 0, 2}
	assertVecInDelta(t, mgl32.Vec3{0, 0, 5}, ClosestPointOnLine(a, b, mgl32.Vec3{3, -1, 5}), tol)
	assert.Equal(t, a, ClosestPointOnLine(a, a, mgl32.Vec3{1, 1, 1}))
}
