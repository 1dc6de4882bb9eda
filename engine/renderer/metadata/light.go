package metadata

import (
	"fmt"

	"github.com/spaghettifunk/stlpose/engine/math"
)

type LightType int

const (
	// LightTypeSun is a directional light; its position does not affect shading.
	LightTypeSun LightType = iota
)

type Light struct {
	Name     string
	Type     LightType
	Position math.Vec3
	// Rotation is an XYZ Euler rotation in radians applied to the -Z axis
	// to obtain the direction the light travels in.
	Rotation math.Vec3
	Energy   float32
	Colour   math.Vec3
}

func NewSunLight(position math.Vec3, energy float32) *Light {
	return &Light{
		Name:     "Light",
		Type:     LightTypeSun,
		Position: position,
		Energy:   energy,
		Colour:   math.NewVec3One(),
	}
}

// Direction returns the normalized direction the light travels in.
func (l *Light) Direction() math.Vec3 {
	return math.NewMat4EulerXYZ(l.Rotation.X, l.Rotation.Y, l.Rotation.Z).Forward()
}

func (l *Light) Validate() error {
	if l.Energy < 0 {
		return fmt.Errorf("light energy must be a non-negative value")
	}
	return nil
}
