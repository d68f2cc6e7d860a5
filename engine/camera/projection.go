package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Projection is the closed set of camera projection models: Perspective or Orthographic.
// The interface is sealed so the controller can treat dolly and pan as total
// functions over the two variants.
type Projection interface {
	// Matrix builds the projection matrix for this model.
	//
	// Parameters:
	//   - aspect: viewport aspect ratio (width / height)
	//   - near, far: clipping plane distances
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (OpenGL clip convention)
	Matrix(aspect, near, far float32) mgl32.Mat4

	sealed()
}

// Perspective is a pinhole projection with a vertical field of view.
type Perspective struct {
	// Fov is the vertical field of view in radians.
	Fov float32
}

// Orthographic is a parallel projection over the view volume [Left, Right] x [Bottom, Top],
// scaled down by Zoom.
type Orthographic struct {
	Zoom   float32
	Left   float32
	Right  float32
	Top    float32
	Bottom float32
}

var (
	_ Projection = Perspective{}
	_ Projection = Orthographic{}
)

func (Perspective) sealed()  {}
func (Orthographic) sealed() {}

func (p Perspective) Matrix(aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(p.Fov, aspect, near, far)
}

func (o Orthographic) Matrix(_, near, far float32) mgl32.Mat4 {
	zoom := o.EffectiveZoom()
	dx := (o.Right - o.Left) / (2 * zoom)
	dy := (o.Top - o.Bottom) / (2 * zoom)
	cx := (o.Right + o.Left) / 2
	cy := (o.Top + o.Bottom) / 2
	return mgl32.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, near, far)
}

// EffectiveZoom returns Zoom, or 1 when Zoom is not positive.
func (o Orthographic) EffectiveZoom() float32 {
	if o.Zoom <= 0 {
		return 1
	}
	return o.Zoom
}
