package loaders

import (
	"encoding/binary"
	stdmath "math"

	"github.com/spaghettifunk/stlpose/engine/math"
)

// short name, for convenience
var le = binary.LittleEndian

func getVec3(b []byte) math.Vec3 {
	_ = b[11] // early bounds check
	return math.Vec3{
		X: stdmath.Float32frombits(le.Uint32(b)),
		Y: stdmath.Float32frombits(le.Uint32(b[4:])),
		Z: stdmath.Float32frombits(le.Uint32(b[8:])),
	}
}
