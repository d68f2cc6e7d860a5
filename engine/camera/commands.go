package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

// Command is one step of camera input, produced from raw pointer, touch, wheel and
// key events by the gesture translator and consumed by Apply.
type Command interface {
	command()
}

// BeginRotate starts a mouse orbit gesture.
type BeginRotate struct{}

// BeginPan starts a mouse pan gesture.
type BeginPan struct{}

// BeginDolly starts a mouse dolly gesture.
type BeginDolly struct{}

// BeginTouch starts a touch gesture in one of the touch modes.
type BeginTouch struct {
	Mode Mode
}

// DragRotate orbits by a pixel delta.
type DragRotate struct {
	DX, DY float32
}

// DragPan pans by a pixel delta.
type DragPan struct {
	DX, DY float32
}

// DragDolly dollies by a vertical pixel delta. Dragging down moves away from the target.
type DragDolly struct {
	DY float32
}

// Pinch dollies by the ratio of the current finger separation to the previous one.
type Pinch struct {
	Ratio float32
}

// Scroll dollies by one wheel step. Negative DeltaY moves toward the target.
type Scroll struct {
	DeltaY float32
}

// KeyPan pans by a pixel delta from the keyboard.
type KeyPan struct {
	DX, DY float32
}

// End finishes the active gesture.
type End struct{}

func (BeginRotate) command() {}
func (BeginPan) command()    {}
func (BeginDolly) command()  {}
func (BeginTouch) command()  {}
func (DragRotate) command()  {}
func (DragPan) command()     {}
func (DragDolly) command()   {}
func (Pinch) command()       {}
func (Scroll) command()      {}
func (KeyPan) command()      {}
func (End) command()         {}

// State is the pending, not yet applied, camera motion together with the active gesture mode.
type State struct {
	// Mode is the active gesture. It is ModeNone outside a begin/end pair.
	Mode Mode
	// SphericalDelta holds pending Theta and Phi rotation. Radius is unused.
	SphericalDelta common.Spherical
	// PanOffset is the pending translation of the target.
	PanOffset mgl32.Vec3
	// Scale is the pending multiplicative change to the orbit radius.
	Scale float32
	// Projection is the camera projection, carrying the orthographic zoom.
	Projection Projection
	// ZoomChanged is set when Projection's zoom was changed and must be written back.
	ZoomChanged bool
}

// NewState returns an idle State for the given projection.
func NewState(p Projection) State {
	return State{Scale: 1, Projection: p}
}

// Cleared returns s with all pending motion discarded and the mode reset to ModeNone.
func (s State) Cleared() State {
	return State{Scale: 1, Projection: s.Projection}
}

// Viewport is the size in pixels of the element receiving input.
type Viewport struct {
	Width  float32
	Height float32
}

// Env is the camera geometry Apply needs to convert pixel deltas into world motion.
type Env struct {
	Viewport Viewport
	// Right and ScreenUp are the camera's screen axes in world space.
	Right    mgl32.Vec3
	ScreenUp mgl32.Vec3
	// Up is the configured, normalized up vector.
	Up mgl32.Vec3
	// TargetDistance is the distance from the camera to the target.
	TargetDistance float32
}

// Apply returns the state that results from feeding cmd into s. It never mutates
// its inputs and never fails: commands that are disabled by settings or do not
// belong to the active mode leave the state unchanged.
//
// Parameters:
//   - s: the current state
//   - cmd: the command to apply
//   - st: controller settings
//   - env: camera geometry for pixel conversion
//
// Returns:
//   - State: the next state
func Apply(s State, cmd Command, st Settings, env Env) State {
	if !st.Enabled {
		return s
	}

	switch c := cmd.(type) {
	case BeginRotate:
		s.Mode = enabledMode(st.EnableRotate, ModeRotate)
	case BeginPan:
		s.Mode = enabledMode(st.EnablePan, ModePan)
	case BeginDolly:
		s.Mode = enabledMode(st.EnableZoom, ModeDolly)
	case BeginTouch:
		s.Mode = enabledMode(touchModeEnabled(c.Mode, st), c.Mode)
	case DragRotate:
		if st.EnableRotate && s.Mode.rotates() {
			s = rotate(s, c.DX*st.RotateSpeed, c.DY*st.RotateSpeed, env)
		}
	case DragPan:
		if st.EnablePan && s.Mode.pans() {
			s = pan(s, c.DX*st.PanSpeed, c.DY*st.PanSpeed, st, env)
		}
	case DragDolly:
		if st.EnableZoom && s.Mode == ModeDolly {
			if c.DY > 0 {
				s = dollyOut(s, zoomScale(st), st)
			} else if c.DY < 0 {
				s = dollyIn(s, zoomScale(st), st)
			}
		}
	case Pinch:
		if st.EnableZoom && s.Mode.pinches() && c.Ratio > 0 && !math32.IsInf(c.Ratio, 0) {
			s = dollyOut(s, math32.Pow(c.Ratio, st.ZoomSpeed), st)
		}
	case Scroll:
		if st.EnableZoom && (s.Mode == ModeNone || s.Mode == ModeRotate) {
			if c.DeltaY < 0 {
				s = dollyIn(s, zoomScale(st), st)
			} else if c.DeltaY > 0 {
				s = dollyOut(s, zoomScale(st), st)
			}
		}
	case KeyPan:
		if st.EnableKeys && st.EnablePan {
			s = pan(s, c.DX, c.DY, st, env)
		}
	case End:
		s.Mode = ModeNone
	}
	return s
}

func enabledMode(enabled bool, m Mode) Mode {
	if enabled {
		return m
	}
	return ModeNone
}

func touchModeEnabled(m Mode, st Settings) bool {
	switch m {
	case ModeTouchRotate:
		return st.EnableRotate
	case ModeTouchPan:
		return st.EnablePan
	case ModeTouchDollyPan:
		return st.EnableZoom || st.EnablePan
	case ModeTouchDollyRotate:
		return st.EnableZoom || st.EnableRotate
	}
	return false
}

// zoomScale is the fixed multiplicative step used by the wheel and mouse dolly.
func zoomScale(st Settings) float32 {
	return math32.Pow(0.95, st.ZoomSpeed)
}

// rotate converts a pixel delta into pending azimuth and polar rotation. A full
// viewport height of motion is one full turn.
func rotate(s State, dx, dy float32, env Env) State {
	h := max(env.Viewport.Height, 1)
	s.SphericalDelta.Theta -= 2 * common.Pi * dx / h
	s.SphericalDelta.Phi -= 2 * common.Pi * dy / h
	return s
}

// pan converts a pixel delta into a pending target translation so that the
// model tracks the pointer at the target's depth.
func pan(s State, dx, dy float32, st Settings, env Env) State {
	w := max(env.Viewport.Width, 1)
	h := max(env.Viewport.Height, 1)

	var left, up float32
	switch p := s.Projection.(type) {
	case Perspective:
		targetDistance := env.TargetDistance * math32.Tan(p.Fov/2)
		left = 2 * dx * targetDistance / h
		up = 2 * dy * targetDistance / h
	case Orthographic:
		zoom := p.EffectiveZoom()
		left = dx * (p.Right - p.Left) / zoom / w
		up = dy * (p.Top - p.Bottom) / zoom / h
	default:
		return s
	}

	s.PanOffset = s.PanOffset.Add(env.Right.Mul(-left))
	upAxis := env.ScreenUp
	if !st.ScreenSpacePanning {
		upAxis = env.Up.Cross(env.Right)
	}
	s.PanOffset = s.PanOffset.Add(upAxis.Mul(up))
	return s
}

// dollyIn moves toward the target: the radius scale shrinks by factor in
// perspective, the zoom grows by 1/factor in orthographic.
func dollyIn(s State, factor float32, st Settings) State {
	switch p := s.Projection.(type) {
	case Perspective:
		s.Scale *= factor
	case Orthographic:
		p.Zoom = common.Clamp(p.EffectiveZoom()/factor, st.MinZoom, st.MaxZoom)
		s.Projection = p
		s.ZoomChanged = true
	}
	return s
}

// dollyOut is the inverse of dollyIn.
func dollyOut(s State, factor float32, st Settings) State {
	switch p := s.Projection.(type) {
	case Perspective:
		s.Scale /= factor
	case Orthographic:
		p.Zoom = common.Clamp(p.EffectiveZoom()*factor, st.MinZoom, st.MaxZoom)
		s.Projection = p
		s.ZoomChanged = true
	}
	return s
}
