package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUCameraUniformSource is the WGSL definition of the CameraUniform struct consumed
// by the toolpath line shader. It matches GPUCameraUniform field for field.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniformSize is the size of the marshalled uniform in bytes.
const GPUCameraUniformSize = 80

// GPUCameraUniform is the camera uniform block uploaded once per redrawn frame.
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space camera position (vec3<f32>)
}

// Marshal serializes the uniform in the little-endian layout expected by the shader.
// The trailing 4 bytes are padding.
//
// Returns:
//   - []byte: a GPUCameraUniformSize byte buffer
func (g GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, GPUCameraUniformSize)
	off := 0
	for _, f := range g.ViewProj {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	for _, f := range g.CameraPosition {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	return buf
}
