package components

import (
	"github.com/spaghettifunk/stlpose/engine/math"
)

const (
	// DefaultLensMM and DefaultSensorWidthMM describe a full-frame 50 mm camera.
	DefaultLensMM        float64 = 50
	DefaultSensorWidthMM float64 = 36

	DefaultClipStart float32 = 0.1
	DefaultClipEnd   float32 = 1000
)

/**
 * @brief Represents a physical pinhole camera. With no rotation it looks
 * down the -Z axis with +Y up.
 */
type Camera struct {
	Name string
	/** @brief Focal length of the lens in millimetres. */
	Lens float64
	/** @brief Horizontal sensor size in millimetres. */
	SensorWidth float64
	/** @brief Distance of the near clipping plane. */
	ClipStart float32
	/** @brief Distance of the far clipping plane. */
	ClipEnd float32
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using XYZ Euler angles in radians.
	 * NOTE: Do not set this directly, use SetEulerRotation() instead
	 * so the view matrix is recalculated when needed.
	 */
	EulerRotation math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "Camera"

func NewCamera() *Camera {
	camera := &Camera{Name: DEFAULT_CAMERA_NAME}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Lens = DefaultLensMM
	c.SensorWidth = DefaultSensorWidthMM
	c.ClipStart = DefaultClipStart
	c.ClipEnd = DefaultClipEnd
	c.EulerRotation = math.NewVec3Zero()
	c.Position = math.NewVec3Zero()
	c.IsDirty = false
	c.ViewMatrix = math.NewMat4Identity()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.IsDirty = true
}

// GetView returns the world-to-camera matrix.
func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		rotation := math.NewMat4EulerXYZ(c.EulerRotation.X, c.EulerRotation.Y, c.EulerRotation.Z)
		translation := math.NewMat4Translation(c.Position)

		c.ViewMatrix = rotation.Mul(translation)
		c.ViewMatrix = c.ViewMatrix.Inverse()

		c.IsDirty = false
	}
	return c.ViewMatrix
}

// Intrinsics derives the pinhole parameters of this camera for an image of
// resX by resY pixels.
func (c *Camera) Intrinsics(resX, resY int) (Intrinsics, error) {
	return ComputeIntrinsics(c.Lens, c.SensorWidth, resX, resY)
}
