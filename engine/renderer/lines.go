package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

// FloatsPerVertex is the number of float32 values in one line vertex: position xyz then color rgb.
const FloatsPerVertex = 6

// vertexStride is the byte stride of one vertex in the line vertex buffer.
const vertexStride = FloatsPerVertex * 4

// Color is a linear RGB color.
type Color [3]float32

// Default layer colors.
var (
	ColorPath     = Color{0.95, 0.75, 0.2}
	ColorBox      = Color{0.55, 0.55, 0.6}
	ColorEnvelope = Color{0.3, 0.45, 0.8}
	ColorAxisX    = Color{0.9, 0.25, 0.25}
	ColorAxisY    = Color{0.25, 0.85, 0.3}
	ColorAxisZ    = Color{0.3, 0.45, 0.95}
)

// PathLines converts a polyline of flat xyz triples into line-list vertices.
// Consecutive points become one segment each; trailing values that do not form
// a whole point are ignored.
//
// Parameters:
//   - points: flat x, y, z triples
//   - color: the color of every vertex
//
// Returns:
//   - []float32: interleaved vertices, FloatsPerVertex values each
func PathLines(points []float32, color Color) []float32 {
	n := len(points) / 3
	if n < 2 {
		return nil
	}
	out := make([]float32, 0, (n-1)*2*FloatsPerVertex)
	for i := 0; i < n-1; i++ {
		out = appendVertex(out, points[i*3:i*3+3], color)
		out = appendVertex(out, points[i*3+3:i*3+6], color)
	}
	return out
}

// BoxLines returns the 12 edges of box as line-list vertices. An empty box has no edges.
//
// Parameters:
//   - box: the box to outline
//   - color: the color of every vertex
//
// Returns:
//   - []float32: interleaved vertices, FloatsPerVertex values each
func BoxLines(box common.Box3, color Color) []float32 {
	if box.IsEmpty() {
		return nil
	}
	corners := box.Corners()
	out := make([]float32, 0, 24*FloatsPerVertex)
	for i := range corners {
		for axis := range 3 {
			bit := 1 << axis
			if i&bit != 0 {
				continue
			}
			a, b := corners[i], corners[i|bit]
			out = appendVertex(out, a[:], color)
			out = appendVertex(out, b[:], color)
		}
	}
	return out
}

// AxesLines returns the X, Y and Z axes from origin, each of the given length.
func AxesLines(origin mgl32.Vec3, length float32) []float32 {
	out := make([]float32, 0, 6*FloatsPerVertex)
	axes := [3]Color{ColorAxisX, ColorAxisY, ColorAxisZ}
	for axis, color := range axes {
		tip := origin
		tip[axis] += length
		out = appendVertex(out, origin[:], color)
		out = appendVertex(out, tip[:], color)
	}
	return out
}

func appendVertex(out []float32, p []float32, c Color) []float32 {
	return append(out, p[0], p[1], p[2], c[0], c[1], c[2])
}
