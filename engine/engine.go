// Package engine is the viewer shell: it owns the camera, orbit controller,
// framer, bounds and preferences, and drives them from the window message loop.
package engine

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/bounds"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/camera"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/feed"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/framer"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/prefs"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/profiler"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/renderer"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	renderer renderer.Renderer

	camera            camera.Camera
	controller        camera.OrbitController
	controllerOptions []camera.CameraControllerOption
	framer            framer.ViewFramer
	bounds            bounds.Provider
	prefs             prefs.Store

	profiler         *profiler.Profiler
	profilingEnabled bool
	frameLimit       time.Duration

	// Guarded by mu.
	view         framer.Direction
	visibility   prefs.Visibility
	path         []float32
	envelope     common.Box3
	seenRevision uint64
	framedReal   bool

	cameraDirty atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once
}

// Engine is the toolpath viewer shell. It is also a feed.Sink, so a push-socket
// client can deliver geometry to it directly.
type Engine interface {
	feed.Sink

	// Camera returns the orbited camera.
	Camera() camera.Camera

	// Controller returns the orbit controller driving the camera.
	Controller() camera.OrbitController

	// Bounds returns the bounding-box provider framed by Snap.
	Bounds() bounds.Provider

	// View returns the direction of the last snap.
	View() framer.Direction

	// Snap frames the model bounds from the named direction, places the camera there
	// and persists the label. Unknown labels are logged and leave the camera unchanged.
	//
	// Parameters:
	//   - label: a direction label such as "top" or "angled"
	//
	// Returns:
	//   - error: wraps framer.ErrUnknownDirection for an unknown label
	Snap(label string) error

	// SnapTo frames the model bounds from d. See Snap.
	SnapTo(d framer.Direction)

	// Reset returns the camera to the last saved state.
	Reset()

	// SaveState records the current camera as the reset point.
	SaveState()

	// Visibility returns the overlay toggles.
	Visibility() prefs.Visibility

	// SetVisibility applies and persists the overlay toggles.
	//
	// Returns:
	//   - error: an error if the preferences could not be written
	SetVisibility(v prefs.Visibility) error

	// ShowTool reports whether the host should draw its tool mesh.
	ShowTool() bool

	// HandleKey runs the snap hotkeys and forwards every other key to the controller.
	HandleKey(e camera.KeyEvent)

	// Resize updates the camera aspect, controller viewport and render surface.
	Resize(width, height int)

	// Tick advances the controller, syncs changed geometry and renders if anything changed.
	//
	// Returns:
	//   - bool: true if a frame was presented
	Tick() bool

	// Run drives Tick from the window message loop. Blocks until the window closes or Quit is called.
	Run()

	// Quit stops Run. Safe to call multiple times and from any goroutine.
	Quit()

	// Done is closed once the engine has quit.
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a viewer with the given options. Missing collaborators are
// replaced by defaults: a 45 degree Z-up perspective camera, a default framer,
// a bounds provider and a memory-only preference store. The camera is snapped to
// the persisted view and that placement becomes the reset point.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		envelope:    common.EmptyBox(),
		quitChannel: make(chan struct{}),
		// Forces the first Tick to build every layer.
		seenRevision: ^uint64(0),
	}
	for _, opt := range options {
		opt(e)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithUp(mgl32.Vec3{0, 0, 1}))
	}
	if e.framer == nil {
		e.framer = framer.NewViewFramer()
	}
	if e.bounds == nil {
		e.bounds = bounds.NewProvider()
	}
	if e.prefs == nil {
		// An empty filename never touches the filesystem.
		e.prefs, _ = prefs.Open("")
	}
	e.profiler = profiler.NewProfiler(time.Second)

	e.controller = camera.NewOrbitController(e.camera, e.controllerOptions...)
	e.controller.SetChangeCallback(func() {
		e.cameraDirty.Store(true)
	})

	if e.window != nil {
		e.bindWindow()
		e.Resize(e.window.Width(), e.window.Height())
	}

	p := e.prefs.Prefs()
	e.applyVisibility(p.Show)
	e.SnapTo(p.View)
	e.controller.SaveState()

	return e
}

// bindWindow forwards window input to the controller and hotkeys.
func (e *engine) bindWindow() {
	e.window.SetResizeCallback(e.Resize)
	e.window.SetMouseButtonCallback(func(ev camera.MouseEvent, pressed bool) {
		if pressed {
			e.controller.HandleMouseDown(ev)
		} else {
			e.controller.HandleMouseUp(ev)
		}
	})
	e.window.SetMouseMoveCallback(e.controller.HandleMouseMove)
	e.window.SetScrollCallback(e.controller.HandleWheel)
	e.window.SetKeyDownCallback(e.HandleKey)
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Controller() camera.OrbitController {
	return e.controller
}

func (e *engine) Bounds() bounds.Provider {
	return e.bounds
}

func (e *engine) View() framer.Direction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

func (e *engine) Snap(label string) error {
	d, err := framer.ParseDirection(label)
	if err != nil {
		err = fmt.Errorf("snap: %w", err)
		log.Printf("[Engine] %v", err)
		return err
	}
	e.SnapTo(d)
	return nil
}

func (e *engine) SnapTo(d framer.Direction) {
	box := e.bounds.ModelBounds()
	cam := e.camera

	req := framer.FrameRequest{
		Box:       box,
		Direction: d,
		Aspect:    cam.Aspect(),
		Near:      cam.Near(),
		Up:        cam.Up(),
	}
	if p, ok := cam.Projection().(camera.Perspective); ok {
		req.Fov = p.Fov
	}
	f := e.framer.Frame(req)

	if o, ok := cam.Projection().(camera.Orthographic); ok {
		cam.SetProjection(fitOrthographic(o, box))
	}
	e.controller.Place(f.Target, f.Position)

	e.mu.Lock()
	e.view = d
	e.mu.Unlock()

	if err := e.prefs.SetView(d); err != nil {
		log.Printf("[Engine] failed to save view %q: %v", d, err)
	}
}

func (e *engine) Reset() {
	e.controller.Reset()
}

func (e *engine) SaveState() {
	e.controller.SaveState()
}

func (e *engine) Visibility() prefs.Visibility {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visibility
}

func (e *engine) SetVisibility(v prefs.Visibility) error {
	e.applyVisibility(v)
	if err := e.prefs.SetVisibility(v); err != nil {
		return fmt.Errorf("save visibility: %w", err)
	}
	return nil
}

// applyVisibility pushes the toggles to the bounds provider and renderer.
func (e *engine) applyVisibility(v prefs.Visibility) {
	e.mu.Lock()
	e.visibility = v
	e.mu.Unlock()

	e.bounds.SetEnvelopeVisible(v.Envelope)
	if e.renderer != nil {
		e.renderer.SetLayerVisible(renderer.LayerPath, v.Path)
		e.renderer.SetLayerVisible(renderer.LayerBox, v.Box)
		e.renderer.SetLayerVisible(renderer.LayerAxes, v.Axes)
		e.renderer.SetLayerVisible(renderer.LayerEnvelope, v.Envelope)
	}
}

func (e *engine) ShowTool() bool {
	return e.Visibility().Tool && e.bounds.ShowTool()
}

func (e *engine) HandleKey(ev camera.KeyEvent) {
	switch ev.Key {
	case common.Key1, common.Key2, common.Key3, common.Key4, common.Key5, common.Key6, common.Key7:
		e.SnapTo(framer.Directions()[ev.Key-common.Key1])
	case common.KeyR:
		e.Reset()
	case common.KeyS:
		e.SaveState()
		log.Printf("[Engine] saved camera state")
	case common.KeyO:
		v := e.Visibility()
		v.Envelope = !v.Envelope
		if err := e.SetVisibility(v); err != nil {
			log.Printf("[Engine] %v", err)
		}
	default:
		e.controller.HandleKeyDown(ev)
	}
}

func (e *engine) Resize(width, height int) {
	if width > 0 && height > 0 {
		aspect := float32(width) / float32(height)
		e.camera.SetAspect(aspect)
		if o, ok := e.camera.Projection().(camera.Orthographic); ok {
			half := (o.Top - o.Bottom) / 2
			o.Left, o.Right = -half*aspect, half*aspect
			e.camera.SetProjection(o)
		}
		e.controller.SetViewport(float32(width), float32(height))
		e.cameraDirty.Store(true)
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
}

func (e *engine) SetPath(points []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.path = points
	e.bounds.SetPath(points)
}

func (e *engine) SetSurface(vertices []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bounds.SetSurface(vertices)
}

func (e *engine) SetWorkpiece(box common.Box3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bounds.SetWorkpiece(box)
}

func (e *engine) SetEnvelope(box common.Box3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.envelope = box
	e.bounds.SetEnvelope(box)
}

func (e *engine) Tick() bool {
	if e.controller.Update() {
		e.cameraDirty.Store(true)
	}
	e.syncGeometry()

	if e.renderer == nil {
		return false
	}
	if e.cameraDirty.Swap(false) {
		e.renderer.SetCamera(e.camera.Uniform())
	}
	drawn, err := e.renderer.Render()
	if err != nil {
		log.Printf("[Engine] render failed: %v", err)
	}
	if e.profilingEnabled {
		e.profiler.Tick(drawn)
	}
	return drawn
}

// syncGeometry rebuilds the line layers when the bounds revision moved, and frames
// the model when real geometry arrives after being empty.
func (e *engine) syncGeometry() {
	e.mu.Lock()
	rev := e.bounds.Revision()
	if rev == e.seenRevision {
		e.mu.Unlock()
		return
	}
	e.seenRevision = rev
	path := e.path
	envelope := e.envelope
	realBox := e.bounds.RealBounds()
	firstReal := !e.framedReal && !realBox.IsEmpty()
	if firstReal {
		e.framedReal = true
	} else if realBox.IsEmpty() {
		// Cleared: frame the next load again.
		e.framedReal = false
	}
	view := e.view
	e.mu.Unlock()

	if firstReal {
		e.SnapTo(view)
		e.controller.SaveState()
	}

	if e.renderer == nil {
		return
	}
	e.renderer.SetLayer(renderer.LayerPath, renderer.PathLines(path, renderer.ColorPath))
	e.renderer.SetLayer(renderer.LayerBox, renderer.BoxLines(realBox, renderer.ColorBox))
	e.renderer.SetLayer(renderer.LayerEnvelope, renderer.BoxLines(envelope, renderer.ColorEnvelope))
	e.renderer.SetLayer(renderer.LayerAxes, renderer.AxesLines(mgl32.Vec3{}, axisLength(e.bounds.ModelBounds())))
}

func (e *engine) Run() {
	if e.window == nil {
		log.Printf("[Engine] Run called without a window")
		return
	}
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.signalQuit()
}

// frame is one message loop iteration.
// Recovers from panics so a bad frame shuts the viewer down instead of crashing it.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame recovered from panic: %v", r)
			e.signalQuit()
			e.window.RequestClose()
		}
	}()

	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}

	start := time.Now()
	e.Tick()

	if e.frameLimit > 0 {
		if remaining := e.frameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel exactly once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// fitOrthographic zooms o so a sphere around box fits the vertical and horizontal extents.
func fitOrthographic(o camera.Orthographic, box common.Box3) camera.Orthographic {
	radius := box.Size().Len() / 2 * framer.DefaultMargin
	if radius <= 0 {
		return o
	}
	halfW := (o.Right - o.Left) / 2
	halfH := (o.Top - o.Bottom) / 2
	zoom := min(halfW, halfH) / radius
	if zoom > 0 {
		o.Zoom = zoom
	}
	return o
}

// axisLength sizes the axes gizmo to a quarter of the model's largest side.
func axisLength(box common.Box3) float32 {
	s := box.Size()
	return max(s[0], s[1], s[2]) / 4
}
