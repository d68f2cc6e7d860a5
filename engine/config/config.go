// Package config loads the viewer configuration file and maps it onto the
// functional options of the camera, controller and framer packages.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/camera"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/framer"
)

// ErrUnknownAction is returned for a mouse or touch mapping that names no action.
var ErrUnknownAction = errors.New("unknown input action")

// Config is the decoded configuration file. Zero values select defaults.
type Config struct {
	Window   Window   `toml:"window"`
	Camera   Camera   `toml:"camera"`
	Controls Controls `toml:"controls"`
	Framing  Framing  `toml:"framing"`
	Feed     Feed     `toml:"feed"`
	Prefs    Prefs    `toml:"prefs"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type Camera struct {
	// Fov is the vertical field of view in degrees.
	Fov  float32    `toml:"fov"`
	Near float32    `toml:"near"`
	Far  float32    `toml:"far"`
	Up   [3]float32 `toml:"up"`
	// Orthographic selects a parallel projection of half height OrthoHalfHeight.
	Orthographic    bool    `toml:"orthographic"`
	OrthoHalfHeight float32 `toml:"ortho_half_height"`
}

type Controls struct {
	Enabled            *bool   `toml:"enabled"`
	EnableRotate       *bool   `toml:"enable_rotate"`
	EnablePan          *bool   `toml:"enable_pan"`
	EnableZoom         *bool   `toml:"enable_zoom"`
	EnableKeys         *bool   `toml:"enable_keys"`
	Damping            bool    `toml:"damping"`
	DampingFactor      float32 `toml:"damping_factor"`
	RotateSpeed        float32 `toml:"rotate_speed"`
	PanSpeed           float32 `toml:"pan_speed"`
	ZoomSpeed          float32 `toml:"zoom_speed"`
	KeyPanSpeed        float32 `toml:"key_pan_speed"`
	ScreenSpacePanning bool    `toml:"screen_space_panning"`

	// Angles are in degrees. A zero maximum leaves the bound at its default.
	MinDistance     float32  `toml:"min_distance"`
	MaxDistance     float32  `toml:"max_distance"`
	MinZoom         float32  `toml:"min_zoom"`
	MaxZoom         float32  `toml:"max_zoom"`
	MinPolarAngle   float32  `toml:"min_polar_angle"`
	MaxPolarAngle   float32  `toml:"max_polar_angle"`
	MinAzimuthAngle *float32 `toml:"min_azimuth_angle"`
	MaxAzimuthAngle *float32 `toml:"max_azimuth_angle"`

	AutoRotate      bool    `toml:"auto_rotate"`
	AutoRotateSpeed float32 `toml:"auto_rotate_speed"`

	Mouse Mouse `toml:"mouse"`
	Touch Touch `toml:"touch"`
}

// Mouse maps buttons to "rotate", "dolly", "pan" or "none".
type Mouse struct {
	Left   string `toml:"left"`
	Middle string `toml:"middle"`
	Right  string `toml:"right"`
}

// Touch maps one finger to "rotate" or "pan" and two fingers to "dolly-pan" or "dolly-rotate".
type Touch struct {
	One string `toml:"one"`
	Two string `toml:"two"`
}

type Framing struct {
	Margin            float32 `toml:"margin"`
	DefaultHalfExtent float32 `toml:"default_half_extent"`
}

type Feed struct {
	// URL is the controller push socket, e.g. ws://cnc.local/sock. Empty disables the feed.
	URL string `toml:"url"`
}

type Prefs struct {
	File string `toml:"file"`
}

// Load reads and decodes the configuration in filename. Unknown keys are rejected.
//
// Parameters:
//   - filename: path of the TOML configuration file
//
// Returns:
//   - Config: the decoded configuration with defaults applied
//   - error: if the file cannot be read or decoded
func Load(filename string) (Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", filename, err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", filename, err)
	}
	return c, nil
}

// Parse decodes a configuration document from r and applies defaults.
//
// Parameters:
//   - r: the TOML document
//
// Returns:
//   - Config: the decoded configuration
//   - error: if the document is malformed or has unknown keys
func Parse(r io.Reader) (Config, error) {
	var c Config
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

// Default returns the configuration used when there is no file.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	c.Window.Title = common.Coalesce(c.Window.Title, "Toolpath Viewer")
	c.Window.Width = common.Coalesce(c.Window.Width, 1280)
	c.Window.Height = common.Coalesce(c.Window.Height, 800)

	c.Camera.Fov = common.Coalesce(c.Camera.Fov, 45)
	c.Camera.Near = common.Coalesce(c.Camera.Near, 0.1)
	c.Camera.Far = common.Coalesce(c.Camera.Far, 10000)
	c.Camera.Up = common.Coalesce(c.Camera.Up, [3]float32{0, 0, 1})
	c.Camera.OrthoHalfHeight = common.Coalesce(c.Camera.OrthoHalfHeight, 100)

	c.Controls.Mouse.Left = common.Coalesce(c.Controls.Mouse.Left, "rotate")
	c.Controls.Mouse.Middle = common.Coalesce(c.Controls.Mouse.Middle, "dolly")
	c.Controls.Mouse.Right = common.Coalesce(c.Controls.Mouse.Right, "pan")
	c.Controls.Touch.One = common.Coalesce(c.Controls.Touch.One, "rotate")
	c.Controls.Touch.Two = common.Coalesce(c.Controls.Touch.Two, "dolly-pan")

	c.Framing.Margin = common.Coalesce(c.Framing.Margin, framer.DefaultMargin)
	c.Framing.DefaultHalfExtent = common.Coalesce(c.Framing.DefaultHalfExtent, framer.DefaultHalfExtent)
}

// CameraOptions returns the camera builder options for the configured projection.
//
// Parameters:
//   - aspect: the initial viewport aspect ratio
//
// Returns:
//   - []camera.CameraBuilderOption: options for camera.NewCamera
func (c Config) CameraOptions(aspect float32) []camera.CameraBuilderOption {
	var projection camera.Projection = camera.Perspective{Fov: mgl32.DegToRad(c.Camera.Fov)}
	if c.Camera.Orthographic {
		h := c.Camera.OrthoHalfHeight
		w := h * aspect
		projection = camera.Orthographic{Zoom: 1, Left: -w, Right: w, Top: h, Bottom: -h}
	}
	return []camera.CameraBuilderOption{
		camera.WithUp(mgl32.Vec3(c.Camera.Up)),
		camera.WithProjection(projection),
		camera.WithAspect(aspect),
		camera.WithNear(c.Camera.Near),
		camera.WithFar(c.Camera.Far),
	}
}

// ControllerOptions returns the orbit controller options for the [controls] table.
//
// Returns:
//   - []camera.CameraControllerOption: options for camera.NewOrbitController
//   - error: wraps ErrUnknownAction for an unrecognized mapping
func (c Config) ControllerOptions() ([]camera.CameraControllerOption, error) {
	ctl := c.Controls
	d := camera.DefaultSettings()

	buttons, err := mouseButtons(ctl.Mouse)
	if err != nil {
		return nil, err
	}
	touches, err := touches(ctl.Touch)
	if err != nil {
		return nil, err
	}

	minAzimuth, maxAzimuth := d.MinAzimuthAngle, d.MaxAzimuthAngle
	if ctl.MinAzimuthAngle != nil {
		minAzimuth = mgl32.DegToRad(*ctl.MinAzimuthAngle)
	}
	if ctl.MaxAzimuthAngle != nil {
		maxAzimuth = mgl32.DegToRad(*ctl.MaxAzimuthAngle)
	}

	return []camera.CameraControllerOption{
		camera.WithEnabled(boolOr(ctl.Enabled, d.Enabled)),
		camera.WithRotate(boolOr(ctl.EnableRotate, d.EnableRotate)),
		camera.WithPan(boolOr(ctl.EnablePan, d.EnablePan)),
		camera.WithZoom(boolOr(ctl.EnableZoom, d.EnableZoom)),
		camera.WithKeys(boolOr(ctl.EnableKeys, d.EnableKeys)),
		camera.WithDamping(ctl.Damping, common.Coalesce(ctl.DampingFactor, d.DampingFactor)),
		camera.WithRotateSpeed(common.Coalesce(ctl.RotateSpeed, d.RotateSpeed)),
		camera.WithPanSpeed(common.Coalesce(ctl.PanSpeed, d.PanSpeed)),
		camera.WithZoomSpeed(common.Coalesce(ctl.ZoomSpeed, d.ZoomSpeed)),
		camera.WithKeyPanSpeed(common.Coalesce(ctl.KeyPanSpeed, d.KeyPanSpeed)),
		camera.WithScreenSpacePanning(ctl.ScreenSpacePanning),
		camera.WithDistanceBounds(ctl.MinDistance, common.Coalesce(ctl.MaxDistance, d.MaxDistance)),
		camera.WithZoomBounds(ctl.MinZoom, common.Coalesce(ctl.MaxZoom, d.MaxZoom)),
		camera.WithPolarBounds(mgl32.DegToRad(ctl.MinPolarAngle), degOr(ctl.MaxPolarAngle, d.MaxPolarAngle)),
		camera.WithAzimuthBounds(minAzimuth, maxAzimuth),
		camera.WithAutoRotate(ctl.AutoRotate, common.Coalesce(ctl.AutoRotateSpeed, d.AutoRotateSpeed)),
		camera.WithMouseButtons(buttons),
		camera.WithTouches(touches),
	}, nil
}

// FramerOptions returns the view framer options for the [framing] table.
func (c Config) FramerOptions() []framer.ViewFramerOption {
	return []framer.ViewFramerOption{
		framer.WithMargin(c.Framing.Margin),
		framer.WithDefaultHalfExtent(c.Framing.DefaultHalfExtent),
	}
}

func mouseButtons(m Mouse) (camera.MouseButtons, error) {
	var out camera.MouseButtons
	for _, b := range []struct {
		name string
		dst  *camera.MouseAction
	}{
		{m.Left, &out.Left},
		{m.Middle, &out.Middle},
		{m.Right, &out.Right},
	} {
		a, err := mouseAction(b.name)
		if err != nil {
			return camera.MouseButtons{}, err
		}
		*b.dst = a
	}
	return out, nil
}

func mouseAction(name string) (camera.MouseAction, error) {
	switch strings.ToLower(name) {
	case "rotate":
		return camera.MouseRotate, nil
	case "dolly", "zoom":
		return camera.MouseDolly, nil
	case "pan":
		return camera.MousePan, nil
	case "none":
		return camera.MouseNone, nil
	}
	return camera.MouseNone, fmt.Errorf("%w: mouse %q", ErrUnknownAction, name)
}

func touches(t Touch) (camera.Touches, error) {
	var out camera.Touches
	switch strings.ToLower(t.One) {
	case "rotate":
		out.One = camera.TouchRotate
	case "pan":
		out.One = camera.TouchPan
	case "none":
	default:
		return out, fmt.Errorf("%w: one-finger touch %q", ErrUnknownAction, t.One)
	}
	switch strings.ToLower(t.Two) {
	case "dolly-pan":
		out.Two = camera.TouchDollyPan
	case "dolly-rotate":
		out.Two = camera.TouchDollyRotate
	case "none":
	default:
		return out, fmt.Errorf("%w: two-finger touch %q", ErrUnknownAction, t.Two)
	}
	return out, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// degOr converts degrees to radians, or returns def when deg is zero.
func degOr(deg, def float32) float32 {
	if deg == 0 {
		return def
	}
	return mgl32.DegToRad(deg)
}
