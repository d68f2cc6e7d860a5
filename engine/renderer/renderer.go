// Package renderer draws the viewer's line layers with WebGPU.
package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-toolpath/engine/camera"
)

// Surface is the window side of the renderer: where frames go and how big it is.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Renderer owns the GPU line layers and redraws them only when something changed.
type Renderer interface {
	// Resize reconfigures the surface for a new framebuffer size and schedules a redraw.
	// A zero size (minimized window) is accepted and rendering pauses until the next resize.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetCamera stages a new camera uniform and schedules a redraw.
	//
	// Parameters:
	//   - u: the camera uniform to upload with the next frame
	SetCamera(u camera.GPUCameraUniform)

	// SetLayer replaces the vertices of a layer and schedules a redraw.
	//
	// Parameters:
	//   - layer: the layer to replace
	//   - vertices: interleaved line-list vertices, FloatsPerVertex values each
	SetLayer(layer Layer, vertices []float32)

	// SetLayerVisible shows or hides a layer.
	SetLayerVisible(layer Layer, visible bool)

	// LayerVisible reports whether a layer is drawn.
	LayerVisible(layer Layer) bool

	// Invalidate schedules a redraw without changing any state.
	Invalidate()

	// Render draws a frame if one is scheduled.
	//
	// Returns:
	//   - bool: true if a frame was presented
	//   - error: an error if the surface could not be acquired or a buffer upload failed
	Render() (bool, error)

	// Release frees every GPU resource. The renderer must not be used afterwards.
	Release()
}

type layerState struct {
	vertices []float32
	visible  bool
	buffer   bufferHandle
	count    uint32
	stale    bool
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend rendererBackend

	presentMode          PresentMode
	sampleCount          MSAASampleCount
	forceFallbackAdapter bool
	clearColor           Color

	camera      []byte
	cameraStale bool

	layers [layerCount]layerState

	width, height int
	dirty         bool
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into surface.
// Must be called from the thread that owns the window.
//
// Parameters:
//   - surface: the window surface to present to
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
//   - error: an error if no adapter or device could be acquired
func NewRenderer(surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(options...)
	backend, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.sampleCount, r.clearColor)
	if err != nil {
		return nil, fmt.Errorf("create wgpu backend: %w", err)
	}
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)
	r.Resize(surface.Width(), surface.Height())
	return r, nil
}

func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
		clearColor:  Color{0.1, 0.1, 0.1},
		dirty:       true,
	}
	for i := range r.layers {
		r.layers[i].visible = true
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	r.dirty = true
	if width <= 0 || height <= 0 {
		return
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		log.Printf("[Renderer] configure surface %dx%d: %v", width, height, err)
	}
}

func (r *renderer) SetCamera(u camera.GPUCameraUniform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera = u.Marshal()
	r.cameraStale = true
	r.dirty = true
}

func (r *renderer) SetLayer(layer Layer, vertices []float32) {
	if layer < 0 || layer >= layerCount {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l := &r.layers[layer]
	l.vertices = vertices
	l.stale = true
	r.dirty = true
}

func (r *renderer) SetLayerVisible(layer Layer, visible bool) {
	if layer < 0 || layer >= layerCount {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.layers[layer].visible != visible {
		r.layers[layer].visible = visible
		r.dirty = true
	}
}

func (r *renderer) LayerVisible(layer Layer) bool {
	if layer < 0 || layer >= layerCount {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layers[layer].visible
}

func (r *renderer) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = true
}

func (r *renderer) Render() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty || r.width <= 0 || r.height <= 0 {
		return false, nil
	}

	if err := r.upload(); err != nil {
		return false, err
	}

	if err := r.backend.BeginFrame(); err != nil {
		return false, fmt.Errorf("begin frame: %w", err)
	}
	for i := range r.layers {
		l := &r.layers[i]
		if l.visible && l.count > 0 {
			r.backend.DrawLines(l.buffer, l.count)
		}
	}
	r.backend.EndFrame()
	r.backend.Present()

	r.dirty = false
	return true, nil
}

// upload pushes every stale layer and the camera uniform to the GPU.
// Caller must hold the mutex.
func (r *renderer) upload() error {
	if r.cameraStale {
		r.backend.WriteCamera(r.camera)
		r.cameraStale = false
	}

	for i := range r.layers {
		l := &r.layers[i]
		if !l.stale {
			continue
		}
		if l.buffer != nil {
			l.buffer.Release()
			l.buffer = nil
			l.count = 0
		}
		n := len(l.vertices) / FloatsPerVertex
		if n > 0 {
			buf, err := r.backend.UploadVertices(Layer(i).String(), l.vertices[:n*FloatsPerVertex])
			if err != nil {
				return fmt.Errorf("upload %s layer: %w", Layer(i), err)
			}
			l.buffer = buf
			l.count = uint32(n)
		}
		l.stale = false
	}
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.layers {
		if r.layers[i].buffer != nil {
			r.layers[i].buffer.Release()
			r.layers[i].buffer = nil
		}
	}
	r.backend.Release()
}
