package camera

import (
	"math"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

// lookAtNudge perturbs the view direction when it is parallel to the up vector.
const lookAtNudge float32 = 0.0001

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	up       mgl32.Vec3

	// right, upAxis and back are the columns of the camera's world rotation.
	right  mgl32.Vec3
	upAxis mgl32.Vec3
	back   mgl32.Vec3
	quat   mgl32.Quat

	// initialTarget is the point faced on construction.
	initialTarget mgl32.Vec3

	projection Projection
	aspect     float32
	near       float32
	far        float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
}

// Camera defines the interface for the viewer camera.
// The camera owns its world position and orientation together with a
// Projection model. Controllers write the position and call LookAt; the camera
// recomputes its matrices on every mutation.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space position
	Position() mgl32.Vec3

	// SetPosition moves the camera without changing its orientation.
	//
	// Parameters:
	//   - p: new world-space position
	SetPosition(p mgl32.Vec3)

	// Up returns the configured up vector used by LookAt and orbiting.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// SetUp sets the configured up vector.
	//
	// Parameters:
	//   - up: the up vector
	SetUp(up mgl32.Vec3)

	// LookAt orients the camera so that it faces target with its up axis as
	// close to Up() as possible.
	//
	// Parameters:
	//   - target: world-space point to face
	LookAt(target mgl32.Vec3)

	// Orientation returns the camera's world rotation.
	//
	// Returns:
	//   - mgl32.Quat: the rotation from camera space to world space
	Orientation() mgl32.Quat

	// Basis returns the camera's local axes in world space.
	//
	// Returns:
	//   - right: the screen-right axis
	//   - up: the screen-up axis
	//   - back: the axis pointing from the target toward the camera
	Basis() (right, up, back mgl32.Vec3)

	// Projection returns the active projection model.
	//
	// Returns:
	//   - Projection: Perspective or Orthographic
	Projection() Projection

	// SetProjection replaces the projection model and recomputes matrices.
	//
	// Parameters:
	//   - p: the projection model
	SetProjection(p Projection)

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	Near() float32

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// Far returns the far clipping plane distance.
	Far() float32

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// ViewMatrix returns the world-to-camera matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the camera-to-clip matrix.
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
	ViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the view frustum of the current view-projection matrix.
	//
	// Returns:
	//   - common.Frustum: the six inward-facing frustum planes
	Frustum() common.Frustum

	// Uniform returns the GPU uniform block for the current camera state.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform data ready for upload
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings. The default
// camera uses +Z as up, sits at (0, -10, 10) and faces the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		position:   mgl32.Vec3{0, -10, 10},
		up:         mgl32.Vec3{0, 0, 1},
		projection: Perspective{Fov: float32(45.0 * (math.Pi / 180.0))},
		aspect:     1.0,
		near:       0.1,
		far:        10000.0,
	}
	for _, option := range options {
		option(c)
	}
	c.lookAt(c.initialTarget)
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.updateMatrices()
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
}

func (c *cameraImpl) LookAt(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookAt(target)
}

func (c *cameraImpl) Orientation() mgl32.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quat
}

func (c *cameraImpl) Basis() (right, up, back mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right, c.upAxis, c.back
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) SetProjection(p Projection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	c.updateMatrices()
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustum(c.viewProjectionMatrix)
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       [16]float32(c.viewProjectionMatrix),
		CameraPosition: [3]float32(c.position),
	}
}

// lookAt rebuilds the orientation basis so the camera faces target.
// Caller must hold the mutex.
func (c *cameraImpl) lookAt(target mgl32.Vec3) {
	back := c.position.Sub(target)
	if back.Dot(back) == 0 {
		back[2] = 1
	}
	back = back.Normalize()

	up := c.up
	if up.Dot(up) == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	right := up.Cross(back)
	if right.Dot(right) == 0 {
		// View direction is parallel to up; tilt it slightly off the pole.
		if math32.Abs(up.Normalize()[2]) == 1 {
			back[0] += lookAtNudge
		} else {
			back[2] += lookAtNudge
		}
		back = back.Normalize()
		right = up.Cross(back)
	}
	right = right.Normalize()

	c.right = right
	c.back = back
	c.upAxis = back.Cross(right)
	c.quat = mgl32.Mat4ToQuat(mgl32.Mat4{
		right[0], right[1], right[2], 0,
		c.upAxis[0], c.upAxis[1], c.upAxis[2], 0,
		back[0], back[1], back[2], 0,
		0, 0, 0, 1,
	}).Normalize()
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// A nil projection leaves the projection matrix as identity.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	x, y, z, p := c.right, c.upAxis, c.back, c.position
	c.viewMatrix = mgl32.Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(p), -y.Dot(p), -z.Dot(p), 1,
	}

	if c.projection != nil {
		c.projectionMatrix = c.projection.Matrix(c.aspect, c.near, c.far)
	} else {
		c.projectionMatrix = mgl32.Ident4()
	}
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
