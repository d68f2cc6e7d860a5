// package common contains common types that are used throughout the viewer. They are not interface-wrapped structs, just plain value types
// and math helpers shared by the camera, framer and bounds packages.
package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AxisEpsilon is the amount a degenerate (zero-size) box axis is widened by before
// any computation that would otherwise divide by the axis length.
const AxisEpsilon float32 = 1e-6

// Box3 is an axis-aligned bounding box described by its minimum and maximum corners.
// A box whose Max is less than its Min on any axis is empty.
type Box3 struct {
	// Min is the corner with the smallest coordinates.
	Min mgl32.Vec3
	// Max is the corner with the largest coordinates.
	Max mgl32.Vec3
}

// EmptyBox returns a box that contains nothing. Expanding it by any point yields a
// zero-volume box at that point.
//
// Returns:
//   - Box3: an empty box with Min = +Inf and Max = -Inf
func EmptyBox() Box3 {
	inf := math32.Inf(1)
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// NewBox returns the box spanning the two given corners. The corners do not need to be ordered.
//
// Parameters:
//   - a, b: opposite corners of the box
//
// Returns:
//   - Box3: the box containing both corners
func NewBox(a, b mgl32.Vec3) Box3 {
	return EmptyBox().ExpandByPoint(a).ExpandByPoint(b)
}

// CubeBox returns a cube centered at center with the given half extent on every axis.
//
// Parameters:
//   - center: the center of the cube
//   - halfExtent: distance from the center to each face
//
// Returns:
//   - Box3: the cube
func CubeBox(center mgl32.Vec3, halfExtent float32) Box3 {
	h := mgl32.Vec3{halfExtent, halfExtent, halfExtent}
	return Box3{Min: center.Sub(h), Max: center.Add(h)}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// IsFinite reports whether every coordinate of the box is a finite number.
// An empty box is not finite.
func (b Box3) IsFinite() bool {
	for i := range 3 {
		if !isFinite(b.Min[i]) || !isFinite(b.Max[i]) {
			return false
		}
	}
	return true
}

// ExpandByPoint returns the smallest box containing both b and p.
// Points with NaN coordinates are ignored.
func (b Box3) ExpandByPoint(p mgl32.Vec3) Box3 {
	if math32.IsNaN(p[0]) || math32.IsNaN(p[1]) || math32.IsNaN(p[2]) {
		return b
	}
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes. Empty boxes do not
// contribute to the result.
//
// Parameters:
//   - o: the box to merge with b
//
// Returns:
//   - Box3: the union of b and o
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Center returns the midpoint of the box.
func (b Box3) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b Box3) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Nudged returns a copy of the box in which every zero-size axis has been widened
// by AxisEpsilon on both sides. Non-degenerate axes are returned unchanged.
func (b Box3) Nudged() Box3 {
	for i := range 3 {
		if b.Max[i]-b.Min[i] <= 0 {
			b.Min[i] -= AxisEpsilon
			b.Max[i] += AxisEpsilon
		}
	}
	return b
}

// Corners returns the eight corners of the box. Bit 0 of the index selects X,
// bit 1 selects Y and bit 2 selects Z, with a set bit meaning Max.
//
// Returns:
//   - [8]mgl32.Vec3: the box corners
func (b Box3) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range 8 {
		for axis := range 3 {
			if i&(1<<axis) != 0 {
				out[i][axis] = b.Max[axis]
			} else {
				out[i][axis] = b.Min[axis]
			}
		}
	}
	return out
}

func isFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
