package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-toolpath/engine/bounds"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/camera"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/framer"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/prefs"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/renderer"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables frame statistics output.
//
// Parameters:
//   - enabled: if true, logs rendered and idle frame counts every second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow attaches the window whose message loop drives Run and whose input
// is forwarded to the controller.
//
// Parameters:
//   - w: a configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer attaches the renderer that draws each changed frame.
// Without one the engine still tracks camera state but draws nothing.
//
// Parameters:
//   - r: the Renderer to draw with
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera replaces the default perspective camera.
//
// Parameters:
//   - c: the camera to orbit
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithControllerOptions sets the options passed to the orbit controller when the engine creates it.
func WithControllerOptions(options ...camera.CameraControllerOption) EngineBuilderOption {
	return func(e *engine) {
		e.controllerOptions = append(e.controllerOptions, options...)
	}
}

// WithFramer replaces the default view framer.
func WithFramer(f framer.ViewFramer) EngineBuilderOption {
	return func(e *engine) {
		e.framer = f
	}
}

// WithBounds replaces the default bounds provider.
func WithBounds(b bounds.Provider) EngineBuilderOption {
	return func(e *engine) {
		e.bounds = b
	}
}

// WithPrefs sets the store the snap view and overlay toggles are persisted to.
// The default is a memory-only store.
//
// Parameters:
//   - s: the preference store
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPrefs(s prefs.Store) EngineBuilderOption {
	return func(e *engine) {
		e.prefs = s
	}
}

// WithRenderFrameLimit caps how often the loop polls and renders.
// Pass 0 to leave the loop uncapped.
//
// Parameters:
//   - fps: maximum iterations per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameLimit = 0
			return
		}
		e.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}
