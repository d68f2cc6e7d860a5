package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

// Mode is the gesture currently driving the controller.
type Mode int

const (
	ModeNone Mode = iota
	ModeRotate
	ModePan
	ModeDolly
	ModeTouchRotate
	ModeTouchPan
	ModeTouchDollyPan
	ModeTouchDollyRotate
)

var modeNames = [...]string{"none", "rotate", "pan", "dolly", "touch-rotate", "touch-pan", "touch-dolly-pan", "touch-dolly-rotate"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

func (m Mode) rotates() bool {
	return m == ModeRotate || m == ModeTouchRotate || m == ModeTouchDollyRotate
}

func (m Mode) pans() bool {
	return m == ModePan || m == ModeTouchPan || m == ModeTouchDollyPan
}

func (m Mode) pinches() bool {
	return m == ModeTouchDollyPan || m == ModeTouchDollyRotate
}

// MouseAction is what a mouse button does when pressed.
type MouseAction int

const (
	MouseNone MouseAction = iota
	MouseRotate
	MouseDolly
	MousePan
)

// TouchAction is what a one- or two-finger touch does.
type TouchAction int

const (
	TouchNone TouchAction = iota
	TouchRotate
	TouchPan
	TouchDollyPan
	TouchDollyRotate
)

// MouseButtons maps each mouse button to an action.
type MouseButtons struct {
	Left   MouseAction
	Middle MouseAction
	Right  MouseAction
}

// Touches maps one- and two-finger touches to an action.
// One accepts TouchRotate or TouchPan, Two accepts TouchDollyPan or TouchDollyRotate.
type Touches struct {
	One TouchAction
	Two TouchAction
}

// Settings is the full configuration surface of the orbit controller.
type Settings struct {
	Enabled       bool
	EnableRotate  bool
	EnablePan     bool
	EnableZoom    bool
	EnableKeys    bool
	EnableDamping bool

	// DampingFactor is the fraction of pending motion applied per update when damping is enabled.
	DampingFactor float32

	RotateSpeed float32
	PanSpeed    float32
	ZoomSpeed   float32
	// KeyPanSpeed is the pixel distance panned per arrow key press.
	KeyPanSpeed float32

	// ScreenSpacePanning pans along the screen's up axis instead of the plane orthogonal to Up.
	ScreenSpacePanning bool

	MinDistance     float32
	MaxDistance     float32
	MinZoom         float32
	MaxZoom         float32
	MinPolarAngle   float32
	MaxPolarAngle   float32
	MinAzimuthAngle float32
	MaxAzimuthAngle float32

	AutoRotate bool
	// AutoRotateSpeed is in full turns per 60 seconds at 60 updates per second.
	AutoRotateSpeed float32

	MouseButtons MouseButtons
	Touches      Touches
}

// DefaultSettings returns the controller defaults: everything enabled except
// damping and auto-rotate, unbounded distance, zoom and azimuth, polar angle in [0, Pi].
//
// Returns:
//   - Settings: the default settings
func DefaultSettings() Settings {
	inf := math32.Inf(1)
	return Settings{
		Enabled:         true,
		EnableRotate:    true,
		EnablePan:       true,
		EnableZoom:      true,
		EnableKeys:      true,
		DampingFactor:   0.05,
		RotateSpeed:     1,
		PanSpeed:        1,
		ZoomSpeed:       1,
		KeyPanSpeed:     7,
		MinDistance:     0,
		MaxDistance:     inf,
		MinZoom:         0,
		MaxZoom:         inf,
		MinPolarAngle:   0,
		MaxPolarAngle:   common.Pi,
		MinAzimuthAngle: -inf,
		MaxAzimuthAngle: inf,
		AutoRotateSpeed: 2,
		MouseButtons:    MouseButtons{Left: MouseRotate, Middle: MouseDolly, Right: MousePan},
		Touches:         Touches{One: TouchRotate, Two: TouchDollyPan},
	}
}

// OrbitController converts pointer, touch, wheel and key input into smooth camera
// motion around a target point. Input handlers translate raw events into Commands,
// fold them into the pending State with Apply, and call Update for drag paths.
// The host calls Update once per animation frame and redraws only when it reports true.
type OrbitController interface {
	// Update applies pending motion to the camera.
	//
	// Returns:
	//   - bool: true if the camera moved or rotated enough to warrant a redraw
	Update() bool

	// Reset restores the target, position and zoom captured by the last SaveState.
	Reset()

	// SaveState captures the current target, position and zoom as the Reset point.
	SaveState()

	// Place moves the target and camera directly, discarding any pending
	// motion and gesture, and re-synchronizes the orbit state.
	//
	// Parameters:
	//   - target: new orbit target
	//   - position: new camera position
	Place(target, position mgl32.Vec3)

	// Dispatch applies a single command. Drag, scroll and key commands update the camera immediately.
	//
	// Parameters:
	//   - cmd: the command to apply
	Dispatch(cmd Command)

	// HandleMouseDown begins the gesture mapped to the pressed button.
	HandleMouseDown(e MouseEvent)
	// HandleMouseMove continues the active mouse gesture.
	HandleMouseMove(e MouseEvent)
	// HandleMouseUp ends the active mouse gesture.
	HandleMouseUp(e MouseEvent)
	// HandleTouchStart begins the gesture mapped to the number of touches.
	HandleTouchStart(e TouchEvent)
	// HandleTouchMove continues the active touch gesture.
	HandleTouchMove(e TouchEvent)
	// HandleTouchEnd ends the active touch gesture.
	HandleTouchEnd(e TouchEvent)
	// HandleWheel dollies by one wheel step, bracketed by start and end notifications.
	HandleWheel(e WheelEvent)
	// HandleKeyDown pans with the arrow keys.
	HandleKeyDown(e KeyEvent)

	// SetViewport sets the pixel size of the element receiving input.
	//
	// Parameters:
	//   - width, height: element client size in pixels
	SetViewport(width, height float32)

	// SetStartCallback sets the function called when a gesture starts.
	SetStartCallback(callback func())
	// SetChangeCallback sets the function called whenever Update moves the camera.
	SetChangeCallback(callback func())
	// SetEndCallback sets the function called when a gesture ends.
	SetEndCallback(callback func())

	// Camera returns the controlled camera.
	Camera() Camera

	// Target returns the orbit target.
	Target() mgl32.Vec3

	// Mode returns the active gesture mode.
	Mode() Mode

	// Pending returns a copy of the pending motion state.
	Pending() State

	// Settings returns a copy of the controller settings.
	Settings() Settings

	// PolarAngle returns the current polar angle from the up axis in radians.
	PolarAngle() float32

	// AzimuthalAngle returns the current azimuth around the up axis in radians.
	AzimuthalAngle() float32

	// Distance returns the current distance from the camera to the target.
	Distance() float32
}
