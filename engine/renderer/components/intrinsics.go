package components

import (
	"fmt"
	stdmath "math"

	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/math"
)

// Intrinsics holds the pinhole-camera parameters for a given sensor and
// image resolution. It is a plain value and is never mutated.
type Intrinsics struct {
	FocalLengthMM  float64
	SensorWidthMM  float64
	SensorHeightMM float64
	ResolutionX    int
	ResolutionY    int

	Fx float64
	Fy float64
	Cx float64
	Cy float64
}

// ComputeIntrinsics derives fx, fy, cx and cy from a physical focal length and
// sensor width. The sensor height is not measured: it is back-computed from
// the pixel aspect ratio, so pixels are square and fx always equals fy.
func ComputeIntrinsics(focalLengthMM, sensorWidthMM float64, resX, resY int) (Intrinsics, error) {
	if !positiveFinite(focalLengthMM) {
		return Intrinsics{}, fmt.Errorf("focal length must be > 0, got %v: %w", focalLengthMM, core.ErrInvalidParameter)
	}
	if !positiveFinite(sensorWidthMM) {
		return Intrinsics{}, fmt.Errorf("sensor width must be > 0, got %v: %w", sensorWidthMM, core.ErrInvalidParameter)
	}
	if resX <= 0 {
		return Intrinsics{}, fmt.Errorf("horizontal resolution must be > 0, got %d: %w", resX, core.ErrInvalidParameter)
	}
	if resY <= 0 {
		return Intrinsics{}, fmt.Errorf("vertical resolution must be > 0, got %d: %w", resY, core.ErrInvalidParameter)
	}

	w := float64(resX)
	h := float64(resY)
	sensorHeight := sensorWidthMM * (h / w)

	// resY/sensorHeight reduces to resX/sensorWidth. Dividing by the rounded
	// sensorHeight can land one ulp away (1920x1080 does), so the shared
	// density is evaluated once and fx and fy stay bit-identical.
	pixelsPerMM := w / sensorWidthMM
	fx := focalLengthMM * pixelsPerMM
	fy := focalLengthMM * pixelsPerMM

	return Intrinsics{
		FocalLengthMM:  focalLengthMM,
		SensorWidthMM:  sensorWidthMM,
		SensorHeightMM: sensorHeight,
		ResolutionX:    resX,
		ResolutionY:    resY,
		Fx:             fx,
		Fy:             fy,
		Cx:             w / 2,
		Cy:             h / 2,
	}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !stdmath.IsInf(v, 0) && !stdmath.IsNaN(v)
}

// Project maps a camera-space point (camera looking down -Z, +Y up) to
// continuous pixel coordinates with the origin at the top-left corner.
// depth is the distance along the viewing axis; ok is false for points
// on or behind the camera plane.
func (in Intrinsics) Project(p math.Vec3) (u, v, depth float64, ok bool) {
	depth = -float64(p.Z)
	if depth <= 0 {
		return 0, 0, depth, false
	}
	u = in.Cx + in.Fx*float64(p.X)/depth
	v = in.Cy - in.Fy*float64(p.Y)/depth
	return u, v, depth, true
}

// Lines returns human-readable diagnostic lines for the intrinsics.
func (in Intrinsics) Lines() []string {
	return []string{
		fmt.Sprintf("Focal length (mm): %g", in.FocalLengthMM),
		fmt.Sprintf("Sensor width (mm): %g", in.SensorWidthMM),
		fmt.Sprintf("Resolution: %dx%d", in.ResolutionX, in.ResolutionY),
		fmt.Sprintf("fx: %.2f px", in.Fx),
		fmt.Sprintf("fy: %.2f px", in.Fy),
		fmt.Sprintf("Optical center: (%g, %g)", in.Cx, in.Cy),
	}
}
