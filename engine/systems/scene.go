package systems

import (
	"fmt"

	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer/components"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
)

/** @brief Everything needed to stage a single still. */
type SceneConfig struct {
	Background math.Vec4

	CameraPosition math.Vec3
	/** @brief Camera XYZ Euler rotation, in degrees. */
	CameraRotation math.Vec3
	Lens           float64
	SensorWidth    float64

	LightPosition math.Vec3
	/** @brief Sun XYZ Euler rotation, in degrees. */
	LightRotation math.Vec3
	LightEnergy   float32

	Material *metadata.Material
	Pose     metadata.Pose
}

// SceneSystem stages a scene from a configuration. It keeps no state
// between builds; the returned scene is owned by the caller.
type SceneSystem struct{}

func NewSceneSystem() *SceneSystem {
	return &SceneSystem{}
}

// Build clears a fresh scene, then sets background, camera, light, material
// and the posed mesh object, in that order.
func (ss *SceneSystem) Build(config *SceneConfig, mesh *metadata.TriangleMesh) (*metadata.Scene, error) {
	if config == nil || mesh == nil {
		err := fmt.Errorf("func Build - config and mesh are required")
		core.LogError(err.Error())
		return nil, err
	}
	if config.Material == nil {
		return nil, fmt.Errorf("func Build - material is required")
	}
	if err := config.Material.Validate(); err != nil {
		return nil, err
	}

	scene := metadata.NewScene()
	scene.Clear()
	scene.Background = config.Background

	camera := components.NewCamera()
	camera.Lens = config.Lens
	camera.SensorWidth = config.SensorWidth
	camera.SetPosition(config.CameraPosition)
	camera.SetEulerRotation(degToRadVec3(config.CameraRotation))
	scene.Camera = camera

	light := metadata.NewSunLight(config.LightPosition, config.LightEnergy)
	light.Rotation = degToRadVec3(config.LightRotation)
	if err := light.Validate(); err != nil {
		return nil, err
	}
	scene.Light = light

	transform := math.TransformCreate()
	transform.SetRotation(config.Pose.Radians())
	id := scene.Add(&metadata.SceneObject{
		Name:      "STLObject",
		Mesh:      mesh,
		Material:  config.Material,
		Transform: transform,
	})
	core.LogDebug("staged object %s with %d triangles at pose %d/%d/%d",
		id, mesh.TriangleCount(), config.Pose.Roll, config.Pose.Pitch, config.Pose.Yaw)

	return scene, nil
}

// CameraIntrinsics returns the pinhole parameters of the configured camera
// for an image of resX by resY pixels.
func (ss *SceneSystem) CameraIntrinsics(config *SceneConfig, resX, resY int) (components.Intrinsics, error) {
	return components.ComputeIntrinsics(config.Lens, config.SensorWidth, resX, resY)
}

func degToRadVec3(v math.Vec3) math.Vec3 {
	return math.NewVec3(math.DegToRad(v.X), math.DegToRad(v.Y), math.DegToRad(v.Z))
}
