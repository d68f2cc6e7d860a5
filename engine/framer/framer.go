// Package framer computes snap-to-view camera placements that fit a bounding box
// inside the view frustum from one of the canonical directions.
package framer

import (
	"log"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/camera"
)

const (
	// DefaultMargin leaves breathing room around the fitted box.
	DefaultMargin float32 = 1.2
	// DefaultHalfExtent is the half size of the cube framed when there is nothing to frame.
	DefaultHalfExtent float32 = 10

	defaultFov float32 = 45 * math.Pi / 180
)

// FrameRequest is a single framing problem. It is recomputed for every snap.
type FrameRequest struct {
	Box       common.Box3
	Direction Direction
	// Fov is the vertical field of view in radians.
	Fov    float32
	Aspect float32
	Near   float32
	Up     mgl32.Vec3
}

// Framing is the solved camera placement.
type Framing struct {
	Target   mgl32.Vec3
	Position mgl32.Vec3
	// Distance is the final distance from Position to Target, margin included.
	Distance float32
}

// ViewFramer solves FrameRequests. It holds configuration only and may be shared.
type ViewFramer interface {
	// Frame computes the closest camera placement along the request direction
	// from which every corner of the box is visible.
	//
	// Parameters:
	//   - req: the framing request
	//
	// Returns:
	//   - Framing: target, camera position and distance
	Frame(req FrameRequest) Framing

	// DefaultBox returns the cube framed in place of an empty or non-finite box.
	DefaultBox() common.Box3
}

type viewFramerImpl struct {
	margin            float32
	defaultHalfExtent float32
}

var _ ViewFramer = &viewFramerImpl{}

// NewViewFramer creates a ViewFramer with a 1.2 margin and a default box of half extent 10.
//
// Parameters:
//   - options: functional options to configure the framer
//
// Returns:
//   - ViewFramer: the configured framer
func NewViewFramer(options ...ViewFramerOption) ViewFramer {
	vf := &viewFramerImpl{
		margin:            DefaultMargin,
		defaultHalfExtent: DefaultHalfExtent,
	}
	for _, option := range options {
		option(vf)
	}
	return vf
}

func (vf *viewFramerImpl) DefaultBox() common.Box3 {
	return common.CubeBox(mgl32.Vec3{}, vf.defaultHalfExtent)
}

func (vf *viewFramerImpl) Frame(req FrameRequest) Framing {
	box := req.Box
	switch {
	case box.IsEmpty():
		box = vf.DefaultBox()
	case !box.IsFinite():
		log.Printf("[Framer] non-finite box %v, framing default box", box)
		box = vf.DefaultBox()
	}
	box = box.Nudged()

	fov := req.Fov
	if !(fov > 0 && fov < common.Pi) {
		fov = defaultFov
	}
	aspect := req.Aspect
	if !(aspect > 0) || math32.IsInf(aspect, 0) {
		aspect = 1
	}
	near := max(req.Near, 0)
	if math32.IsNaN(near) || math32.IsInf(near, 0) {
		near = 0
	}

	upVec := req.Up
	if upVec.Len() == 0 {
		upVec = mgl32.Vec3{0, 0, 1}
	}

	target := box.Center()
	offset := req.Direction.Offset()

	// Orient a probe camera one unit out to recover the true screen axes.
	probe := camera.NewCamera(
		camera.WithPosition(target.Add(offset)),
		camera.WithUp(upVec),
		camera.WithLookAt(target),
	)
	right, up, back := probe.Basis()

	tanHalf := math32.Tan(fov / 2)
	distance := near
	nearest := math32.Inf(-1)
	for _, corner := range box.Corners() {
		foot := common.ClosestPointOnLine(target, target.Add(back), corner)
		d := foot.Sub(target).Dot(back)
		v := corner.Sub(foot)
		lUp := math32.Abs(v.Dot(up))
		lLeft := math32.Abs(v.Dot(right))

		distance = max(distance, d+lUp/tanHalf, d+lLeft/(tanHalf*aspect))
		nearest = max(nearest, d)
	}
	// Keep the nearest corner beyond the near plane once the margin is applied.
	distance = max(distance, (nearest+near)/vf.margin)

	final := distance * vf.margin
	return Framing{
		Target:   target,
		Position: target.Add(offset.Mul(final)),
		Distance: final,
	}
}
