package metadata

import (
	"fmt"

	"github.com/spaghettifunk/stlpose/engine/math"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "CustomColor"

/**
 * @brief A surface material: a base colour and a roughness, the two inputs
 * a principled surface needs for a plain coloured object.
 */
type Material struct {
	/** @brief The name of the material. */
	Name string
	/** @brief Linear RGBA base colour, each component in [0, 1]. */
	BaseColour math.Vec4
	/** @brief Roughness in [0, 1]; 0 is mirror-like, 1 is fully diffuse. */
	Roughness float32
}

func NewDefaultMaterial() *Material {
	return &Material{
		Name:       DefaultMaterialName,
		BaseColour: math.NewVec4(0.0, 0.5, 1.0, 1.0),
		Roughness:  0.4,
	}
}

func (m *Material) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("material name is required")
	}
	// Check that BaseColour values are within [0.0, 1.0] range
	if !isValidVec4(m.BaseColour) {
		return fmt.Errorf("base colour values must be between 0.0 and 1.0")
	}
	if !inRange(m.Roughness) {
		return fmt.Errorf("roughness must be between 0.0 and 1.0")
	}
	return nil
}

func isValidVec4(v math.Vec4) bool {
	return inRange(v.X) && inRange(v.Y) && inRange(v.Z) && inRange(v.W)
}

// Check if a float32 value is within [0.0, 1.0]
func inRange(value float32) bool {
	return value >= 0.0 && value <= 1.0
}
