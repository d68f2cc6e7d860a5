package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

func newTestController(options ...CameraControllerOption) OrbitController {
	options = append([]CameraControllerOption{WithViewport(100, 100)}, options...)
	return NewOrbitController(NewCamera(), options...)
}

func orthoCamera() Camera {
	return NewCamera(WithProjection(Orthographic{Zoom: 1, Left: -10, Right: 10, Top: 10, Bottom: -10}))
}

func TestNewOrbitControllerRequiresCamera(t *testing.T) {
	assert.Panics(t, func() { NewOrbitController(nil) })
}

func TestInitialSphericalState(t *testing.T) {
	cc := newTestController()

	assert.Equal(t, ModeNone, cc.Mode())
	assert.InDelta(t, mgl32.DegToRad(45), cc.PolarAngle(), 1e-5)
	assert.InDelta(t, 0, cc.AzimuthalAngle(), 1e-5)
	assert.InDelta(t, mgl32.Vec3{0, -10, 10}.Len(), cc.Distance(), 1e-4)
	assert.False(t, cc.Update())
}

func TestPolarAngleStaysInBounds(t *testing.T) {
	cc := newTestController(WithPolarBounds(0.5, 1.0))

	cc.Dispatch(BeginRotate{})
	for _, dy := range []float32{-300, 50, 400, -20, 1000} {
		cc.Dispatch(DragRotate{DY: dy})
		cc.Update()
		assert.GreaterOrEqual(t, cc.PolarAngle(), float32(0.5)-1e-5)
		assert.LessOrEqual(t, cc.PolarAngle(), float32(1.0)+1e-5)
	}
}

func TestPolarAngleNeverFlipsOverPole(t *testing.T) {
	cc := newTestController()

	cc.Dispatch(BeginRotate{})
	cc.Dispatch(DragRotate{DY: 1000})
	assert.GreaterOrEqual(t, cc.PolarAngle(), float32(0))
	cc.Dispatch(DragRotate{DY: -5000})
	assert.LessOrEqual(t, cc.PolarAngle(), mgl32.DegToRad(180))
	assertFiniteVec(t, cc.Camera().Position())
}

func TestAzimuthStaysInBounds(t *testing.T) {
	cc := newTestController(WithAzimuthBounds(-0.5, 0.5))

	cc.Dispatch(BeginRotate{})
	for _, dx := range []float32{5, 40, -90, 13, -7, 200} {
		cc.Dispatch(DragRotate{DX: dx})
		assert.GreaterOrEqual(t, cc.AzimuthalAngle(), float32(-0.5)-1e-5)
		assert.LessOrEqual(t, cc.AzimuthalAngle(), float32(0.5)+1e-5)
	}
}

func TestRadiusStaysInBounds(t *testing.T) {
	cc := newTestController(WithDistanceBounds(5, 20))

	for range 100 {
		cc.HandleWheel(WheelEvent{DeltaY: -1})
		assert.GreaterOrEqual(t, cc.Distance(), float32(5)-1e-4)
	}
	assert.InDelta(t, 5, cc.Distance(), 1e-4)

	for range 100 {
		cc.HandleWheel(WheelEvent{DeltaY: 1})
		assert.LessOrEqual(t, cc.Distance(), float32(20)+1e-4)
	}
	assert.InDelta(t, 20, cc.Distance(), 1e-4)

	// A further step past the limit leaves it unchanged.
	cc.HandleWheel(WheelEvent{DeltaY: 1})
	assert.InDelta(t, 20, cc.Distance(), 1e-4)
}

func TestNoDampingClearsPendingDeltas(t *testing.T) {
	cc := newTestController()

	cc.Dispatch(BeginRotate{})
	cc.Dispatch(DragRotate{DX: 10, DY: 5})
	cc.Dispatch(End{})
	cc.Dispatch(BeginPan{})
	cc.Dispatch(DragPan{DX: 10, DY: 5})

	p := cc.Pending()
	assert.Zero(t, p.SphericalDelta.Theta)
	assert.Zero(t, p.SphericalDelta.Phi)
	assert.Equal(t, mgl32.Vec3{}, p.PanOffset)
	assert.Equal(t, float32(1), p.Scale)
}

func TestDampingDecaysToRest(t *testing.T) {
	cc := newTestController(WithDamping(true, 0.1))

	cc.Dispatch(BeginRotate{})
	cc.Dispatch(DragRotate{DX: 10})
	cc.Dispatch(BeginPan{})
	cc.Dispatch(DragPan{DX: 10})
	cc.Dispatch(End{})

	prev := cc.Pending()
	require.NotZero(t, prev.SphericalDelta.Theta)
	require.NotZero(t, prev.PanOffset.Len())

	settled := false
	for range 1000 {
		changed := cc.Update()
		cur := cc.Pending()
		assert.InDelta(t, prev.SphericalDelta.Theta*0.9, cur.SphericalDelta.Theta, 1e-6)
		assert.Less(t, cur.PanOffset.Len(), prev.PanOffset.Len()+1e-9)
		prev = cur
		if !changed {
			settled = true
			break
		}
	}
	assert.True(t, settled, "update never reported rest")
}

func TestDollyPerspectiveScalesRadius(t *testing.T) {
	s := Apply(NewState(Perspective{Fov: 1}), Scroll{DeltaY: -1}, DefaultSettings(), Env{})
	assert.InDelta(t, 0.95, s.Scale, 1e-6)

	s = Apply(NewState(Perspective{Fov: 1}), Scroll{DeltaY: 1}, DefaultSettings(), Env{})
	assert.InDelta(t, 1/0.95, s.Scale, 1e-6)

	cc := newTestController()
	before := cc.Distance()
	cc.HandleWheel(WheelEvent{DeltaY: -1})
	assert.InDelta(t, before*0.95, cc.Distance(), 1e-4)
}

func TestDollyOrthographicZoomClamps(t *testing.T) {
	st := DefaultSettings()
	st.MaxZoom = 1.02

	s := NewState(Orthographic{Zoom: 1, Left: -1, Right: 1, Top: 1, Bottom: -1})
	s = Apply(s, Scroll{DeltaY: -1}, st, Env{})
	require.True(t, s.ZoomChanged)
	assert.InDelta(t, 1.02, s.Projection.(Orthographic).Zoom, 1e-6)

	s = Apply(s, Scroll{DeltaY: -1}, st, Env{})
	assert.InDelta(t, 1.02, s.Projection.(Orthographic).Zoom, 1e-6)
}

func TestDollyOrthographicCamera(t *testing.T) {
	cc := NewOrbitController(orthoCamera(), WithViewport(100, 100), WithZoomBounds(0.1, 4))
	before := cc.Distance()

	cc.HandleWheel(WheelEvent{DeltaY: -1})

	zoom := cc.Camera().Projection().(Orthographic).Zoom
	assert.InDelta(t, 1/0.95, zoom, 1e-5)
	assert.InDelta(t, before, cc.Distance(), 1e-4)
	assert.False(t, cc.Update())
}

func TestScreenSpacePanningChangesAxis(t *testing.T) {
	pan := func(screenSpace bool) mgl32.Vec3 {
		cc := newTestController(WithScreenSpacePanning(screenSpace))
		cc.Dispatch(BeginPan{})
		cc.Dispatch(DragPan{DY: 10})
		return cc.Target()
	}

	screen := pan(true)
	planar := pan(false)
	assert.NotEqual(t, screen, planar)
	// Planar panning keeps the target on the ground plane.
	assert.InDelta(t, 0, planar[2], 1e-5)
	assert.Greater(t, screen[2], float32(0))
}

func TestPanMovesCameraWithTarget(t *testing.T) {
	cc := newTestController()
	offset := cc.Camera().Position().Sub(cc.Target())

	cc.Dispatch(BeginPan{})
	cc.Dispatch(DragPan{DX: 20, DY: -5})

	assert.NotEqual(t, mgl32.Vec3{}, cc.Target())
	assertVecInDelta(t, offset, cc.Camera().Position().Sub(cc.Target()), 1e-4)
}

func TestPinchScalesRadiusBySeparationRatio(t *testing.T) {
	for _, zoomSpeed := range []float32{1, 2} {
		cc := newTestController(WithZoomSpeed(zoomSpeed))
		before := cc.Distance()

		cc.HandleTouchStart(TouchEvent{Touches: []mgl32.Vec2{{0, 50}, {100, 50}}})
		require.Equal(t, ModeTouchDollyPan, cc.Mode())
		cc.HandleTouchMove(TouchEvent{Touches: []mgl32.Vec2{{25, 50}, {75, 50}}})
		cc.HandleTouchEnd(TouchEvent{})

		ratio := mgl32.Vec2{50, 0}.Len() / mgl32.Vec2{100, 0}.Len()
		want := before / math32.Pow(ratio, zoomSpeed)
		assert.InDelta(t, want, cc.Distance(), 1e-3)
		assert.Equal(t, ModeNone, cc.Mode())
	}
}

func TestWheelFiresBracketedCallbacks(t *testing.T) {
	cc := newTestController()

	var events []string
	cc.SetStartCallback(func() { events = append(events, "start") })
	cc.SetChangeCallback(func() {
		// Callbacks run outside the lock and may query the controller.
		_ = cc.Target()
		events = append(events, "change")
	})
	cc.SetEndCallback(func() { events = append(events, "end") })

	cc.HandleWheel(WheelEvent{DeltaY: -1})
	assert.Equal(t, []string{"start", "change", "end"}, events)
}

func TestMouseGestureLifecycle(t *testing.T) {
	cc := newTestController()

	var starts, changes, ends int
	cc.SetStartCallback(func() { starts++ })
	cc.SetChangeCallback(func() { changes++ })
	cc.SetEndCallback(func() { ends++ })

	cc.HandleMouseDown(MouseEvent{Button: MouseButtonLeft, X: 10, Y: 10})
	assert.Equal(t, ModeRotate, cc.Mode())
	cc.HandleMouseMove(MouseEvent{X: 20, Y: 10})
	cc.HandleMouseMove(MouseEvent{X: 30, Y: 12})
	cc.HandleMouseUp(MouseEvent{Button: MouseButtonLeft})

	assert.Equal(t, ModeNone, cc.Mode())
	assert.Equal(t, 1, starts)
	assert.Equal(t, 2, changes)
	assert.Equal(t, 1, ends)
	assert.Less(t, cc.AzimuthalAngle(), float32(0))
}

func TestMouseButtonMapping(t *testing.T) {
	cc := newTestController()

	cc.HandleMouseDown(MouseEvent{Button: MouseButtonLeft, Mods: ModShift})
	assert.Equal(t, ModePan, cc.Mode())
	cc.HandleMouseUp(MouseEvent{})

	cc.HandleMouseDown(MouseEvent{Button: MouseButtonMiddle})
	assert.Equal(t, ModeDolly, cc.Mode())
	cc.HandleMouseUp(MouseEvent{})

	cc.HandleMouseDown(MouseEvent{Button: MouseButtonRight, Mods: ModControl})
	assert.Equal(t, ModeRotate, cc.Mode())
	cc.HandleMouseUp(MouseEvent{})

	unmapped := newTestController(WithMouseButtons(MouseButtons{Left: MouseNone, Middle: MouseDolly, Right: MousePan}))
	unmapped.HandleMouseDown(MouseEvent{Button: MouseButtonLeft})
	assert.Equal(t, ModeNone, unmapped.Mode())
}

func TestMouseDollyDrag(t *testing.T) {
	cc := newTestController()
	before := cc.Distance()

	cc.HandleMouseDown(MouseEvent{Button: MouseButtonMiddle, X: 0, Y: 0})
	cc.HandleMouseMove(MouseEvent{X: 0, Y: 10})
	assert.Greater(t, cc.Distance(), before)
}

func TestDisabledCapabilities(t *testing.T) {
	cc := newTestController(WithEnabled(false))
	cc.Dispatch(BeginRotate{})
	assert.Equal(t, ModeNone, cc.Mode())

	cc = newTestController(WithRotate(false))
	cc.HandleMouseDown(MouseEvent{Button: MouseButtonLeft})
	assert.Equal(t, ModeNone, cc.Mode())

	cc = newTestController(WithZoom(false))
	before := cc.Distance()
	cc.HandleWheel(WheelEvent{DeltaY: -1})
	assert.InDelta(t, before, cc.Distance(), 1e-6)
}

func TestScrollIgnoredWhilePanning(t *testing.T) {
	cc := newTestController()
	before := cc.Distance()

	cc.Dispatch(BeginPan{})
	cc.HandleWheel(WheelEvent{DeltaY: -1})
	assert.InDelta(t, before, cc.Distance(), 1e-6)
}

func TestKeyPan(t *testing.T) {
	cc := newTestController()

	cc.HandleKeyDown(KeyEvent{Key: 'Q'})
	assert.Equal(t, mgl32.Vec3{}, cc.Target())

	cc.HandleKeyDown(KeyEvent{Key: common.KeyUp})
	assert.Greater(t, cc.Target()[1], float32(0))

	noKeys := newTestController(WithKeys(false))
	noKeys.HandleKeyDown(KeyEvent{Key: common.KeyUp})
	assert.Equal(t, mgl32.Vec3{}, noKeys.Target())
}

func TestMissingProjectionDisablesZoomAndPan(t *testing.T) {
	cc := NewOrbitController(NewCamera(WithProjection(nil)), WithViewport(100, 100))
	before := cc.Distance()

	assert.NotPanics(t, func() {
		cc.HandleWheel(WheelEvent{DeltaY: -1})
		cc.Dispatch(BeginPan{})
		cc.Dispatch(DragPan{DX: 10})
		cc.Dispatch(End{})
	})
	assert.InDelta(t, before, cc.Distance(), 1e-6)
	assert.Equal(t, mgl32.Vec3{}, cc.Target())

	cc.Dispatch(BeginRotate{})
	cc.Dispatch(DragRotate{DX: 10})
	assert.NotZero(t, cc.AzimuthalAngle())
}

func TestAutoRotate(t *testing.T) {
	cc := newTestController(WithAutoRotate(true, 2))
	before := cc.AzimuthalAngle()

	assert.True(t, cc.Update())
	step := 2 * mgl32.DegToRad(360) / 60 / 60
	assert.InDelta(t, before-step, cc.AzimuthalAngle(), 1e-5)

	// An active gesture suspends auto-rotation.
	cc.Dispatch(BeginPan{})
	mid := cc.AzimuthalAngle()
	assert.False(t, cc.Update())
	assert.InDelta(t, mid, cc.AzimuthalAngle(), 1e-6)
}

func TestSaveStateAndReset(t *testing.T) {
	cc := newTestController()
	start := cc.Camera().Position()

	cc.Place(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 20})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cc.Target())
	assertVecInDelta(t, mgl32.Vec3{1, 2, 20}, cc.Camera().Position(), 1e-4)

	cc.Reset()
	assert.Equal(t, mgl32.Vec3{}, cc.Target())
	assertVecInDelta(t, start, cc.Camera().Position(), 1e-4)

	cc.Place(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{5, -10, 0})
	cc.SaveState()
	cc.Dispatch(BeginRotate{})
	cc.Dispatch(DragRotate{DX: 30})
	cc.Reset()
	assert.Equal(t, ModeNone, cc.Mode())
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, cc.Target())
	assertVecInDelta(t, mgl32.Vec3{5, -10, 0}, cc.Camera().Position(), 1e-4)
}

func TestResetRestoresOrthographicZoom(t *testing.T) {
	cc := NewOrbitController(orthoCamera(), WithViewport(100, 100))

	cc.HandleWheel(WheelEvent{DeltaY: -1})
	require.NotEqual(t, float32(1), cc.Camera().Projection().(Orthographic).Zoom)

	cc.Reset()
	assert.Equal(t, float32(1), cc.Camera().Projection().(Orthographic).Zoom)
}

func TestPlaceDiscardsPendingMotion(t *testing.T) {
	cc := newTestController(WithDamping(true, 0.1))
	cc.Dispatch(BeginRotate{})
	cc.Dispatch(DragRotate{DX: 50})

	cc.Place(mgl32.Vec3{}, mgl32.Vec3{0, -5, 0})
	p := cc.Pending()
	assert.Equal(t, ModeNone, p.Mode)
	assert.Zero(t, p.SphericalDelta.Theta)
	assert.False(t, cc.Update())
}
