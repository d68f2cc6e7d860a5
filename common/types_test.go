package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEmptyBox(t *testing.T) {
	b := EmptyBox()
	assert.True(t, b.IsEmpty())
	assert.False(t, b.IsFinite())

	p := mgl32.Vec3{1, 2, 3}
	b = b.ExpandByPoint(p)
	assert.False(t, b.IsEmpty())
	assert.Equal(t, p, b.Min)
	assert.Equal(t, p, b.Max)
}

func TestNewBoxOrdersCorners(t *testing.T) {
	b := NewBox(mgl32.Vec3{1, -1, 5}, mgl32.Vec3{-1, 1, 2})
	assert.Equal(t, mgl32.Vec3{-1, -1, 2}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 5}, b.Max)
	assert.Equal(t, mgl32.Vec3{0, 0, 3.5}, b.Center())
	assert.Equal(t, mgl32.Vec3{2, 2, 3}, b.Size())
}

func TestExpandByPointIgnoresNaN(t *testing.T) {
	b := CubeBox(mgl32.Vec3{}, 1)
	got := b.ExpandByPoint(mgl32.Vec3{math32.NaN(), 100, 100})
	assert.Equal(t, b, got)
}

func TestUnion(t *testing.T) {
	a := NewBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	b := NewBox(mgl32.Vec3{-2, 0.5, 0}, mgl32.Vec3{0, 3, 0.5})

	u := a.Union(b)
	assert.Equal(t, mgl32.Vec3{-2, 0, 0}, u.Min)
	assert.Equal(t, mgl32.Vec3{1, 3, 1}, u.Max)

	assert.Equal(t, a, a.Union(EmptyBox()))
	assert.Equal(t, a, EmptyBox().Union(a))
	assert.True(t, EmptyBox().Union(EmptyBox()).IsEmpty())
}

func TestNudgedWidensOnlyFlatAxes(t *testing.T) {
	b := NewBox(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{4, 4, 2})
	n := b.Nudged()

	assert.Equal(t, b.Min[0], n.Min[0])
	assert.Equal(t, b.Max[1], n.Max[1])
	assert.Less(t, n.Min[2], float32(2))
	assert.Greater(t, n.Max[2], float32(2))
	assert.InDelta(t, 2*AxisEpsilon, n.Size()[2], 1e-7)
}

func TestCorners(t *testing.T) {
	b := NewBox(mgl32.Vec3{-1, -2, -3}, mgl32.Vec3{1, 2, 3})
	c := b.Corners()

	assert.Equal(t, b.Min, c[0])
	assert.Equal(t, b.Max, c[7])
	assert.Equal(t, mgl32.Vec3{1, -2, -3}, c[1])
	assert.Equal(t, mgl32.Vec3{-1, 2, -3}, c[2])
	assert.Equal(t, mgl32.Vec3{-1, -2, 3}, c[4])
}

func TestCoalesceAndClamp(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, float32(1), Clamp(5, 0, 1))
	assert.Equal(t, float32(0), Clamp(-5, 0, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, 0, 1))
}
