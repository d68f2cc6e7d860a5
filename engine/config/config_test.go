package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-toolpath/engine/camera"
)

const sample = `
[window]
title = "Mill"
width = 1600

[camera]
fov = 60.0
up = [0.0, 1.0, 0.0]

[controls]
enable_keys = false
damping = true
damping_factor = 0.2
zoom_speed = 2.0
max_distance = 500.0
max_polar_angle = 90.0
min_azimuth_angle = -45.0
max_azimuth_angle = 45.0

[controls.mouse]
left = "pan"
right = "rotate"

[controls.touch]
two = "dolly-rotate"

[feed]
url = "ws://cnc.local/sock"
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "Mill", c.Window.Title)
	assert.Equal(t, 1600, c.Window.Width)
	assert.Equal(t, 800, c.Window.Height)
	assert.Equal(t, float32(60), c.Camera.Fov)
	assert.Equal(t, float32(0.1), c.Camera.Near)
	assert.Equal(t, [3]float32{0, 1, 0}, c.Camera.Up)
	assert.Equal(t, "dolly", c.Controls.Mouse.Middle)
	assert.Equal(t, "ws://cnc.local/sock", c.Feed.URL)
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, [3]float32{0, 0, 1}, c.Camera.Up)
	assert.Equal(t, float32(1.2), c.Framing.Margin)

	opts, err := c.ControllerOptions()
	require.NoError(t, err)
	cc := camera.NewOrbitController(camera.NewCamera(c.CameraOptions(1)...), opts...)
	assert.Equal(t, camera.DefaultSettings(), cc.Settings())
}

func TestControllerOptions(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	opts, err := c.ControllerOptions()
	require.NoError(t, err)

	cc := camera.NewOrbitController(camera.NewCamera(c.CameraOptions(1.5)...), opts...)
	s := cc.Settings()

	assert.False(t, s.EnableKeys)
	assert.True(t, s.EnableRotate)
	assert.True(t, s.EnableDamping)
	assert.Equal(t, float32(0.2), s.DampingFactor)
	assert.Equal(t, float32(2), s.ZoomSpeed)
	assert.Equal(t, float32(1), s.RotateSpeed)
	assert.Equal(t, float32(500), s.MaxDistance)
	assert.InDelta(t, mgl32.DegToRad(90), s.MaxPolarAngle, 1e-6)
	assert.InDelta(t, mgl32.DegToRad(-45), s.MinAzimuthAngle, 1e-6)
	assert.Equal(t, camera.MouseButtons{Left: camera.MousePan, Middle: camera.MouseDolly, Right: camera.MouseRotate}, s.MouseButtons)
	assert.Equal(t, camera.Touches{One: camera.TouchRotate, Two: camera.TouchDollyRotate}, s.Touches)
}

func TestCameraOptions(t *testing.T) {
	c := Default()
	cam := camera.NewCamera(c.CameraOptions(2)...)
	require.IsType(t, camera.Perspective{}, cam.Projection())
	assert.InDelta(t, mgl32.DegToRad(45), cam.Projection().(camera.Perspective).Fov, 1e-6)
	assert.Equal(t, float32(2), cam.Aspect())

	c.Camera.Orthographic = true
	cam = camera.NewCamera(c.CameraOptions(2)...)
	o, ok := cam.Projection().(camera.Orthographic)
	require.True(t, ok)
	assert.Equal(t, float32(100), o.Top)
	assert.Equal(t, float32(200), o.Right)
}

func TestUnknownAction(t *testing.T) {
	c := Default()
	c.Controls.Mouse.Left = "spin"
	_, err := c.ControllerOptions()
	assert.ErrorIs(t, err, ErrUnknownAction)

	c = Default()
	c.Controls.Touch.Two = "pan"
	_, err = c.ControllerOptions()
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("[camera]\nfocal = 3.0\n"))
	var strict *toml.StrictMissingError
	assert.ErrorAs(t, err, &strict)
}

func TestLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(fn, []byte(sample), 0o644))

	c, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, "Mill", c.Window.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
