package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraControllerOption is a functional option for configuring an OrbitController.
type CameraControllerOption func(*orbitControllerImpl)

// WithSettings replaces the whole settings block. Later options still apply on top.
//
// Parameters:
//   - s: the settings to use
//
// Returns:
//   - CameraControllerOption: functional option to set all settings
func WithSettings(s Settings) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings = s
	}
}

// WithEnabled turns all input handling on or off.
//
// Parameters:
//   - enabled: false makes every command a no-op
//
// Returns:
//   - CameraControllerOption: functional option to set the enabled flag
func WithEnabled(enabled bool) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.Enabled = enabled
	}
}

// WithRotate enables or disables orbiting.
func WithRotate(enabled bool) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.EnableRotate = enabled
	}
}

// WithPan enables or disables panning.
func WithPan(enabled bool) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.EnablePan = enabled
	}
}

// WithZoom enables or disables dolly and zoom.
func WithZoom(enabled bool) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.EnableZoom = enabled
	}
}

// WithKeys enables or disables arrow-key panning.
func WithKeys(enabled bool) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.EnableKeys = enabled
	}
}

// WithDamping enables inertia and sets the fraction of pending motion applied per update.
//
// Parameters:
//   - enabled: whether pending motion decays over several updates
//   - factor: the fraction in (0, 1] applied each update
//
// Returns:
//   - CameraControllerOption: functional option to configure damping
func WithDamping(enabled bool, factor float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.EnableDamping = enabled
		cc.settings.DampingFactor = factor
	}
}

// WithRotateSpeed sets the orbit speed multiplier.
func WithRotateSpeed(speed float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.RotateSpeed = speed
	}
}

// WithPanSpeed sets the pan speed multiplier.
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.PanSpeed = speed
	}
}

// WithZoomSpeed sets the dolly speed exponent.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.ZoomSpeed = speed
	}
}

// WithKeyPanSpeed sets the number of pixels panned per arrow key press.
func WithKeyPanSpeed(speed float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.KeyPanSpeed = speed
	}
}

// WithDistanceBounds sets the minimum and maximum orbit radius for perspective cameras.
//
// Parameters:
//   - min: minimum distance to the target
//   - max: maximum distance to the target
//
// Returns:
//   - CameraControllerOption: functional option to set distance bounds
func WithDistanceBounds(min, max float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.MinDistance = min
		cc.settings.MaxDistance = max
	}
}

// WithZoomBounds sets the minimum and maximum zoom for orthographic cameras.
func WithZoomBounds(min, max float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.MinZoom = min
		cc.settings.MaxZoom = max
	}
}

// WithPolarBounds sets the allowed polar angle range. Values are limited to [0, Pi] by the update.
//
// Parameters:
//   - min: minimum angle from the up axis in radians
//   - max: maximum angle from the up axis in radians
//
// Returns:
//   - CameraControllerOption: functional option to set polar bounds
func WithPolarBounds(min, max float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.MinPolarAngle = min
		cc.settings.MaxPolarAngle = max
	}
}

// WithAzimuthBounds sets the allowed azimuth range. Infinite values leave azimuth unbounded.
func WithAzimuthBounds(min, max float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.MinAzimuthAngle = min
		cc.settings.MaxAzimuthAngle = max
	}
}

// WithMouseButtons sets the mouse button mapping.
func WithMouseButtons(buttons MouseButtons) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.MouseButtons = buttons
	}
}

// WithTouches sets the touch gesture mapping.
func WithTouches(touches Touches) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.Touches = touches
	}
}

// WithScreenSpacePanning selects panning along the screen's up axis.
func WithScreenSpacePanning(enabled bool) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.ScreenSpacePanning = enabled
	}
}

// WithAutoRotate enables idle rotation around the target.
//
// Parameters:
//   - enabled: whether to rotate when no gesture is active
//   - speed: full turns per 60 seconds at 60 updates per second
//
// Returns:
//   - CameraControllerOption: functional option to configure auto-rotate
func WithAutoRotate(enabled bool, speed float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.settings.AutoRotate = enabled
		cc.settings.AutoRotateSpeed = speed
	}
}

// WithTarget sets the initial orbit target.
//
// Parameters:
//   - target: world-space pivot point
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.target = target
	}
}

// WithViewport sets the initial pixel size of the input element.
func WithViewport(width, height float32) CameraControllerOption {
	return func(cc *orbitControllerImpl) {
		cc.viewport = Viewport{Width: width, Height: height}
	}
}
