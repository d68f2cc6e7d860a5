package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testFrustum() Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return ExtractFrustum(proj.Mul4(view))
}

func TestFrustumContainsPoint(t *testing.T) {
	f := testFrustum()

	assert.True(t, f.ContainsPoint(mgl32.Vec3{}, 0))
	assert.True(t, f.ContainsPoint(mgl32.Vec3{4, 0, 0}, 0))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{6, 0, 0}, 0))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, 10}, 0))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, -200}, 0))
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	for i, p := range testFrustum().Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d", i)
	}
}

func TestFrustumContainsBox(t *testing.T) {
	f := testFrustum()
	assert.True(t, f.ContainsBox(CubeBox(mgl32.Vec3{}, 1), 0))
	assert.False(t, f.ContainsBox(CubeBox(mgl32.Vec3{}, 5), 0))
}
