package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer/components"
)

// SceneObject is a renderable mesh placed in the world.
type SceneObject struct {
	ID        uuid.UUID
	Name      string
	Mesh      *TriangleMesh
	Material  *Material
	Transform *math.Transform
}

// Scene is the explicit context every scene-construction step receives.
// Nothing about it is global: callers build one, fill it and hand it to
// the renderer.
type Scene struct {
	Background math.Vec4
	Camera     *components.Camera
	Light      *Light
	Objects    []*SceneObject
}

func NewScene() *Scene {
	return &Scene{
		Background: math.NewVec4(0, 0, 0, 1),
	}
}

// Add links obj into the scene, assigning it a fresh identifier.
func (s *Scene) Add(obj *SceneObject) uuid.UUID {
	obj.ID = uuid.New()
	if obj.Transform == nil {
		obj.Transform = math.TransformCreate()
	}
	s.Objects = append(s.Objects, obj)
	return obj.ID
}

// Find returns the object with the given identifier, or nil.
func (s *Scene) Find(id uuid.UUID) *SceneObject {
	for _, obj := range s.Objects {
		if obj.ID == id {
			return obj
		}
	}
	return nil
}

// Clear removes every object, the camera and the light.
func (s *Scene) Clear() {
	s.Objects = nil
	s.Camera = nil
	s.Light = nil
}
