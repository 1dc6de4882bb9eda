package metadata

import "github.com/spaghettifunk/stlpose/engine/math"

// Pose is an object orientation as roll (X), pitch (Y) and yaw (Z) in whole
// degrees, applied in that order.
type Pose struct {
	Roll  int `toml:"roll"`
	Pitch int `toml:"pitch"`
	Yaw   int `toml:"yaw"`
}

// Radians returns the pose as an XYZ Euler rotation in radians.
func (p Pose) Radians() math.Vec3 {
	return math.NewVec3(
		math.DegToRad(float32(p.Roll)),
		math.DegToRad(float32(p.Pitch)),
		math.DegToRad(float32(p.Yaw)),
	)
}
