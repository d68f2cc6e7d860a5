package framer

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/camera"
)

var (
	zUp     = mgl32.Vec3{0, 0, 1}
	unitBox = common.NewBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	fov45   = mgl32.DegToRad(45)
)

func request(box common.Box3, d Direction) FrameRequest {
	return FrameRequest{Box: box, Direction: d, Fov: fov45, Aspect: 1, Near: 0.1, Up: zUp}
}

func requireFinite(t *testing.T, f Framing) {
	t.Helper()
	for _, v := range []mgl32.Vec3{f.Target, f.Position} {
		for i := range 3 {
			require.False(t, math32.IsNaN(v[i]) || math32.IsInf(v[i], 0), "non-finite framing %+v", f)
		}
	}
	require.False(t, math32.IsNaN(f.Distance) || math32.IsInf(f.Distance, 0))
	require.Greater(t, f.Distance, float32(0))
}

func TestFrameTop(t *testing.T) {
	f := NewViewFramer().Frame(request(unitBox, Top))
	requireFinite(t, f)

	assert.Equal(t, f.Target[0], f.Position[0])
	assert.Equal(t, f.Target[1], f.Position[1])
	assert.Greater(t, f.Position[2], f.Target[2])
}

func TestFrameFront(t *testing.T) {
	f := NewViewFramer().Frame(request(unitBox, Front))
	requireFinite(t, f)

	assert.Less(t, f.Position[1], f.Target[1])
	assert.Equal(t, f.Target[0], f.Position[0])
	assert.Equal(t, f.Target[2], f.Position[2])
}

func TestFrameDistanceIsTight(t *testing.T) {
	f := NewViewFramer(WithMargin(1)).Frame(request(unitBox, Front))

	// Nearest face sits one unit in front of the target and spans one unit each way.
	want := 1 + 1/math32.Tan(fov45/2)
	assert.InDelta(t, want, f.Distance, 1e-4)

	withMargin := NewViewFramer().Frame(request(unitBox, Front))
	assert.InDelta(t, want*DefaultMargin, withMargin.Distance, 1e-4)
}

func TestFrameWideAspectUsesVerticalExtent(t *testing.T) {
	req := request(unitBox, Front)
	req.Aspect = 2
	wide := NewViewFramer(WithMargin(1)).Frame(req)

	req.Aspect = 0.5
	tall := NewViewFramer(WithMargin(1)).Frame(req)

	assert.InDelta(t, 1+1/math32.Tan(fov45/2), wide.Distance, 1e-4)
	assert.Greater(t, tall.Distance, wide.Distance)
}

func TestFrameKeepsBoxInFrustum(t *testing.T) {
	box := common.NewBox(mgl32.Vec3{10, -4, 0}, mgl32.Vec3{70, 30, 12})
	vf := NewViewFramer()

	for _, aspect := range []float32{0.6, 1, 1.8} {
		for _, d := range Directions() {
			t.Run(d.String(), func(t *testing.T) {
				req := FrameRequest{Box: box, Direction: d, Fov: fov45, Aspect: aspect, Near: 0.1, Up: zUp}
				f := vf.Frame(req)
				requireFinite(t, f)

				cam := camera.NewCamera(
					camera.WithPosition(f.Position),
					camera.WithLookAt(f.Target),
					camera.WithUp(zUp),
					camera.WithFov(fov45),
					camera.WithAspect(aspect),
					camera.WithNear(0.1),
					camera.WithFar(10000),
				)
				assert.True(t, cam.Frustum().ContainsBox(box, 1e-3), "box outside frustum for %s at aspect %v", d, aspect)
			})
		}
	}
}

func TestFrameEmptyBoxUsesDefault(t *testing.T) {
	vf := NewViewFramer()
	f := vf.Frame(request(common.EmptyBox(), Angled))
	requireFinite(t, f)
	assert.Equal(t, mgl32.Vec3{}, f.Target)

	def := vf.Frame(request(common.CubeBox(mgl32.Vec3{}, DefaultHalfExtent), Angled))
	assert.InDelta(t, def.Distance, f.Distance, 1e-4)
	assert.Equal(t, common.CubeBox(mgl32.Vec3{}, 10), vf.DefaultBox())
}

func TestFrameMalformedInput(t *testing.T) {
	vf := NewViewFramer()

	nan := common.Box3{Min: mgl32.Vec3{math32.NaN(), 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	requireFinite(t, vf.Frame(request(nan, Top)))

	flat := common.NewBox(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 5})
	f := vf.Frame(request(flat, Left))
	requireFinite(t, f)
	assert.InDelta(t, 0, f.Target[0], 1e-6)
	assert.InDelta(t, 5, f.Target[2], 1e-6)

	bad := request(unitBox, Bottom)
	bad.Fov = 0
	bad.Aspect = math32.NaN()
	bad.Up = mgl32.Vec3{}
	requireFinite(t, vf.Frame(bad))
}

func TestFrameNearFloor(t *testing.T) {
	tiny := common.CubeBox(mgl32.Vec3{}, 1e-3)
	req := request(tiny, Front)
	req.Near = 5
	f := NewViewFramer().Frame(req)

	assert.GreaterOrEqual(t, f.Distance, float32(5))
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions() {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	got, err := ParseDirection("  TOP ")
	require.NoError(t, err)
	assert.Equal(t, Top, got)

	_, err = ParseDirection("isometric")
	assert.True(t, errors.Is(err, ErrUnknownDirection))
}

func TestDirectionText(t *testing.T) {
	b, err := Right.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "right", string(b))

	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("back")))
	assert.Equal(t, Back, d)
	assert.ErrorIs(t, d.UnmarshalText([]byte("up")), ErrUnknownDirection)

	_, err = Direction(42).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownDirection)
	assert.InDelta(t, 1, Direction(42).Offset().Len(), 1e-6)
}
