package bounds

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

func TestEmptyProvider(t *testing.T) {
	p := NewProvider()

	assert.True(t, p.RealBounds().IsEmpty())
	assert.False(t, p.ShowTool())
	assert.Equal(t, common.CubeBox(mgl32.Vec3{}, DefaultHalfExtent), p.ModelBounds())
	assert.Zero(t, p.Revision())
}

func TestPathExtent(t *testing.T) {
	p := NewProvider()
	p.SetPath([]float32{
		0, 0, 0,
		10, -2, 5,
		3, 4, -1,
	})

	b := p.RealBounds()
	assert.Equal(t, mgl32.Vec3{0, -2, -1}, b.Min)
	assert.Equal(t, mgl32.Vec3{10, 4, 5}, b.Max)
	assert.True(t, p.ShowTool())
	assert.Equal(t, b, p.ModelBounds())
	assert.Equal(t, uint64(1), p.Revision())
}

func TestTrailingValuesIgnored(t *testing.T) {
	p := NewProvider()
	p.SetPath([]float32{1, 1, 1, 99, 99})

	b := p.RealBounds()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, b.Max)
}

func TestParallelScanMatchesSerial(t *testing.T) {
	const n = 10000
	xyz := make([]float32, 0, n*3)
	for i := range n {
		f := float32(i)
		xyz = append(xyz, math32.Sin(f)*100, math32.Cos(f*0.3)*50, f*0.01)
	}

	serial := NewProvider()
	serial.SetPath(xyz)

	parallel := NewProvider(WithWorkers(4), WithChunkSize(97))
	parallel.SetPath(xyz)

	assert.Equal(t, serial.RealBounds(), parallel.RealBounds())
	assert.Equal(t, scan(xyz), parallel.RealBounds())
}

func TestUnionOfSources(t *testing.T) {
	p := NewProvider()
	p.SetPath([]float32{0, 0, 0, 1, 1, 1})
	p.SetSurface([]float32{-5, 0, 0, 0, 0, 2})
	p.SetWorkpiece(common.NewBox(mgl32.Vec3{0, 0, -3}, mgl32.Vec3{2, 8, 0}))

	b := p.RealBounds()
	assert.Equal(t, mgl32.Vec3{-5, 0, -3}, b.Min)
	assert.Equal(t, mgl32.Vec3{2, 8, 2}, b.Max)
}

func TestEnvelopeOnlyInModelBoundsWhenVisible(t *testing.T) {
	p := NewProvider()
	p.SetPath([]float32{0, 0, 0, 1, 1, 1})
	envelope := common.NewBox(mgl32.Vec3{-100, -100, -50}, mgl32.Vec3{100, 100, 0})
	p.SetEnvelope(envelope)

	assert.Equal(t, p.RealBounds(), p.ModelBounds())

	rev := p.Revision()
	p.SetEnvelopeVisible(true)
	assert.Greater(t, p.Revision(), rev)
	assert.Equal(t, envelope.Union(p.RealBounds()), p.ModelBounds())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, p.RealBounds().Max)

	rev = p.Revision()
	p.SetEnvelopeVisible(true)
	assert.Equal(t, rev, p.Revision())
}

func TestEnvelopeWithoutGeometry(t *testing.T) {
	p := NewProvider(WithDefaultHalfExtent(3))
	p.SetEnvelopeVisible(true)
	assert.Equal(t, common.CubeBox(mgl32.Vec3{}, 3), p.ModelBounds())

	envelope := common.NewBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{300, 200, 100})
	p.SetEnvelope(envelope)
	assert.Equal(t, envelope, p.ModelBounds())
	assert.False(t, p.ShowTool())
}

func TestNonFiniteBoxesDropped(t *testing.T) {
	p := NewProvider()
	p.SetWorkpiece(common.Box3{Min: mgl32.Vec3{math32.NaN(), 0, 0}, Max: mgl32.Vec3{1, 1, 1}})
	assert.True(t, p.RealBounds().IsEmpty())

	p.SetPath([]float32{math32.NaN(), 0, 0, 2, 2, 2})
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, p.RealBounds().Min)
}
