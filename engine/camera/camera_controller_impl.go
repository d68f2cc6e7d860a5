package camera

import (
	"log"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

const (
	// changeEpsilon is the squared-distance and quaternion threshold for reporting a change.
	changeEpsilon = 1e-6
)

// notify is a bit set of callbacks to fire once the mutex is released.
type notify int

const (
	notifyStart notify = 1 << iota
	notifyChange
	notifyEnd
)

// orbitControllerImpl is the single implementation of OrbitController.
// The camera's position is derived from target plus the spherical offset in a
// frame where the camera's up vector maps to +Y. Input feeds the pending State
// through Apply, and update folds the State into the camera.
type orbitControllerImpl struct {
	mu *sync.Mutex

	camera   Camera
	target   mgl32.Vec3
	settings Settings
	viewport Viewport

	state     State
	spherical common.Spherical
	anchor    GestureAnchor

	// last reported camera pose, for change detection
	lastPosition mgl32.Vec3
	lastQuat     mgl32.Quat

	// reset point
	savedTarget   mgl32.Vec3
	savedPosition mgl32.Vec3
	savedZoom     float32

	onStart  func()
	onChange func()
	onEnd    func()

	warned map[string]bool
}

var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates an orbit controller driving cam. The default target
// is the origin and the initial pose is saved as the reset point.
//
// Parameters:
//   - cam: the camera to control, must not be nil
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(cam Camera, options ...CameraControllerOption) OrbitController {
	if cam == nil {
		panic("camera: NewOrbitController requires a non-nil Camera")
	}

	cc := &orbitControllerImpl{
		mu:       &sync.Mutex{},
		camera:   cam,
		settings: DefaultSettings(),
		viewport: Viewport{Width: 1, Height: 1},
		warned:   make(map[string]bool),
	}
	for _, option := range options {
		option(cc)
	}

	cc.state = NewState(cam.Projection())
	cam.LookAt(cc.target)
	cc.lastPosition = cam.Position()
	cc.lastQuat = cam.Orientation()
	cc.update()
	cc.saveState()
	return cc
}

func (cc *orbitControllerImpl) Update() bool {
	cc.mu.Lock()
	changed := cc.update()
	var n notify
	if changed {
		n = notifyChange
	}
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
	return changed
}

func (cc *orbitControllerImpl) Reset() {
	cc.mu.Lock()
	n := notifyChange
	if cc.state.Mode != ModeNone {
		n |= notifyEnd
	}
	cc.target = cc.savedTarget
	cc.camera.SetPosition(cc.savedPosition)
	if p, ok := cc.camera.Projection().(Orthographic); ok {
		p.Zoom = cc.savedZoom
		cc.camera.SetProjection(p)
	}
	cc.camera.LookAt(cc.target)
	cc.state = NewState(cc.camera.Projection())
	cc.update()
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) SaveState() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.saveState()
}

func (cc *orbitControllerImpl) Place(target, position mgl32.Vec3) {
	cc.mu.Lock()
	n := notifyChange
	if cc.state.Mode != ModeNone {
		n |= notifyEnd
	}
	cc.target = target
	cc.camera.SetPosition(position)
	cc.camera.LookAt(target)
	cc.state = NewState(cc.camera.Projection())
	cc.anchor = GestureAnchor{}
	cc.update()
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) Dispatch(cmd Command) {
	cc.mu.Lock()
	n := cc.dispatch(cmd)
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) HandleMouseDown(e MouseEvent) {
	cc.mu.Lock()
	anchor, cmd := BeginMouse(e, cc.settings.MouseButtons)
	if _, ok := cmd.(End); ok {
		cc.warnOnce("mouse-button", "no action mapped to mouse button %d", e.Button)
	}
	cc.anchor = anchor
	n := cc.dispatch(cmd)
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) HandleMouseMove(e MouseEvent) {
	cc.mu.Lock()
	var n notify
	anchor, cmd := cc.anchor.MouseMove(cc.state.Mode, e)
	if cmd != nil {
		cc.anchor = anchor
		n = cc.dispatch(cmd)
	}
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) HandleMouseUp(e MouseEvent) {
	cc.Dispatch(End{})
}

func (cc *orbitControllerImpl) HandleTouchStart(e TouchEvent) {
	cc.mu.Lock()
	anchor, cmd := BeginTouchGesture(e, cc.settings.Touches)
	if _, ok := cmd.(End); ok && len(e.Touches) > 0 && len(e.Touches) <= 2 {
		cc.warnOnce("touch", "no action mapped to %d-finger touch", len(e.Touches))
	}
	cc.anchor = anchor
	n := cc.dispatch(cmd)
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) HandleTouchMove(e TouchEvent) {
	cc.mu.Lock()
	var n notify
	anchor, cmds := cc.anchor.TouchMove(cc.state.Mode, e)
	cc.anchor = anchor
	for _, cmd := range cmds {
		n |= cc.dispatch(cmd)
	}
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) HandleTouchEnd(e TouchEvent) {
	cc.Dispatch(End{})
}

func (cc *orbitControllerImpl) HandleWheel(e WheelEvent) {
	cc.mu.Lock()
	st := cc.settings
	if !st.Enabled || !st.EnableZoom || (cc.state.Mode != ModeNone && cc.state.Mode != ModeRotate) {
		cc.mu.Unlock()
		return
	}
	n := notifyStart | cc.dispatch(Scroll{DeltaY: e.DeltaY}) | notifyEnd
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) HandleKeyDown(e KeyEvent) {
	cc.mu.Lock()
	var n notify
	if cmd, ok := KeyCommand(e, cc.settings.KeyPanSpeed); ok {
		n = cc.dispatch(cmd)
	}
	fire := cc.callbacks(n)
	cc.mu.Unlock()

	fire()
}

func (cc *orbitControllerImpl) SetViewport(width, height float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.viewport = Viewport{Width: width, Height: height}
}

func (cc *orbitControllerImpl) SetStartCallback(callback func()) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.onStart = callback
}

func (cc *orbitControllerImpl) SetChangeCallback(callback func()) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.onChange = callback
}

func (cc *orbitControllerImpl) SetEndCallback(callback func()) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.onEnd = callback
}

func (cc *orbitControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *orbitControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *orbitControllerImpl) Mode() Mode {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.state.Mode
}

func (cc *orbitControllerImpl) Pending() State {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.state
}

func (cc *orbitControllerImpl) Settings() Settings {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.settings
}

func (cc *orbitControllerImpl) PolarAngle() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.spherical.Phi
}

func (cc *orbitControllerImpl) AzimuthalAngle() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.spherical.Theta
}

func (cc *orbitControllerImpl) Distance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.camera.Position().Sub(cc.target).Len()
}

// dispatch folds cmd into the pending state and applies motion commands immediately.
// Caller must hold the mutex.
func (cc *orbitControllerImpl) dispatch(cmd Command) notify {
	if !cc.state.ZoomChanged {
		cc.state.Projection = cc.camera.Projection()
	}
	if cc.state.Projection == nil && needsProjection(cmd) {
		cc.warnOnce("projection", "camera has no projection, zoom and pan disabled")
		return 0
	}

	prev := cc.state.Mode
	cc.state = Apply(cc.state, cmd, cc.settings, cc.env())

	var n notify
	switch cmd.(type) {
	case BeginRotate, BeginPan, BeginDolly, BeginTouch:
		if cc.state.Mode != ModeNone {
			n |= notifyStart
		}
	case End:
		if prev != ModeNone {
			n |= notifyEnd
		}
	default:
		if cc.update() {
			n |= notifyChange
		}
	}
	return n
}

// update applies the pending State to the camera and reports whether the pose changed.
// Caller must hold the mutex.
func (cc *orbitControllerImpl) update() bool {
	st := cc.settings
	cam := cc.camera

	q, qInv := common.QuatToYUp(cam.Up())
	offset := q.Rotate(cam.Position().Sub(cc.target))
	sph := common.SphericalFromVec3(offset)

	if st.AutoRotate && cc.state.Mode == ModeNone {
		cc.state.SphericalDelta.Theta -= autoRotationAngle(st)
	}

	delta := cc.state.SphericalDelta
	pan := cc.state.PanOffset
	if st.EnableDamping {
		sph.Theta += delta.Theta * st.DampingFactor
		sph.Phi += delta.Phi * st.DampingFactor
		pan = pan.Mul(st.DampingFactor)
	} else {
		sph.Theta += delta.Theta
		sph.Phi += delta.Phi
	}

	sph.Theta = common.ClampAzimuth(sph.Theta, st.MinAzimuthAngle, st.MaxAzimuthAngle)
	sph.Phi = common.Clamp(sph.Phi, max(st.MinPolarAngle, 0), min(st.MaxPolarAngle, common.Pi))
	sph = sph.MakeSafe()

	sph.Radius = common.Clamp(sph.Radius*cc.state.Scale, st.MinDistance, st.MaxDistance)

	cc.target = cc.target.Add(pan)

	position := cc.target.Add(qInv.Rotate(sph.Vec3()))
	cam.SetPosition(position)
	cam.LookAt(cc.target)
	cc.spherical = sph

	if st.EnableDamping {
		decay := 1 - st.DampingFactor
		cc.state.SphericalDelta.Theta *= decay
		cc.state.SphericalDelta.Phi *= decay
		cc.state.PanOffset = cc.state.PanOffset.Mul(decay)
	} else {
		cc.state.SphericalDelta = common.Spherical{}
		cc.state.PanOffset = mgl32.Vec3{}
	}
	cc.state.Scale = 1

	zoomChanged := cc.state.ZoomChanged
	if zoomChanged {
		cam.SetProjection(cc.state.Projection)
		cc.state.ZoomChanged = false
	}

	quat := cam.Orientation()
	moved := position.Sub(cc.lastPosition)
	if zoomChanged || moved.Dot(moved) > changeEpsilon || 8*(1-quatDot(quat, cc.lastQuat)) > changeEpsilon {
		cc.lastPosition = position
		cc.lastQuat = quat
		return true
	}
	return false
}

// saveState captures the reset point.
// Caller must hold the mutex.
func (cc *orbitControllerImpl) saveState() {
	cc.savedTarget = cc.target
	cc.savedPosition = cc.camera.Position()
	cc.savedZoom = 1
	if p, ok := cc.camera.Projection().(Orthographic); ok {
		cc.savedZoom = p.EffectiveZoom()
	}
}

// env builds the pixel conversion geometry from the camera.
// Caller must hold the mutex.
func (cc *orbitControllerImpl) env() Env {
	right, screenUp, _ := cc.camera.Basis()
	up := cc.camera.Up()
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	return Env{
		Viewport:       cc.viewport,
		Right:          right,
		ScreenUp:       screenUp,
		Up:             up.Normalize(),
		TargetDistance: cc.camera.Position().Sub(cc.target).Len(),
	}
}

// callbacks snapshots the callbacks selected by n so they can run after unlock.
// Caller must hold the mutex.
func (cc *orbitControllerImpl) callbacks(n notify) func() {
	var fns []func()
	if n&notifyStart != 0 && cc.onStart != nil {
		fns = append(fns, cc.onStart)
	}
	if n&notifyChange != 0 && cc.onChange != nil {
		fns = append(fns, cc.onChange)
	}
	if n&notifyEnd != 0 && cc.onEnd != nil {
		fns = append(fns, cc.onEnd)
	}
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

// warnOnce logs a message the first time key is seen.
// Caller must hold the mutex.
func (cc *orbitControllerImpl) warnOnce(key, format string, args ...any) {
	if cc.warned[key] {
		return
	}
	cc.warned[key] = true
	log.Printf("[Camera] "+format, args...)
}

func needsProjection(cmd Command) bool {
	switch cmd.(type) {
	case DragPan, DragDolly, Pinch, Scroll, KeyPan:
		return true
	}
	return false
}

func autoRotationAngle(st Settings) float32 {
	return 2 * common.Pi / 60 / 60 * st.AutoRotateSpeed
}

// quatDot returns the absolute cosine between a and b, computed in float64 and
// normalized so identical quaternions compare as exactly 1.
func quatDot(a, b mgl32.Quat) float64 {
	aw, ax, ay, az := float64(a.W), float64(a.V[0]), float64(a.V[1]), float64(a.V[2])
	bw, bx, by, bz := float64(b.W), float64(b.V[0]), float64(b.V[1]), float64(b.V[2])
	la := math.Sqrt(aw*aw + ax*ax + ay*ay + az*az)
	lb := math.Sqrt(bw*bw + bx*bx + by*by + bz*bz)
	if la == 0 || lb == 0 {
		return 1
	}
	return math.Abs(aw*bw+ax*bx+ay*by+az*bz) / (la * lb)
}
