package software

import (
	stdmath "math"

	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
)

// dielectricF0 is the normal-incidence reflectance of plastics and paints.
const dielectricF0 = 0.04

// shade returns the linear radiance leaving a flat face lit by a sun.
// Diffuse is Lambertian; specular is a normalized Blinn-Phong lobe whose
// exponent follows the material roughness.
func shade(mat *metadata.Material, light *metadata.Light, normal, toLight, toCamera math.Vec3) math.Vec3 {
	base := mat.BaseColour.ToVec3()
	ndl := float64(normal.Dot(toLight))
	if ndl <= 0 || light.Energy == 0 {
		return math.NewVec3Zero()
	}
	irradiance := float64(light.Energy) * ndl

	diffuse := irradiance / stdmath.Pi

	half := toLight.Add(toCamera).Normalize()
	ndh := stdmath.Max(0, float64(normal.Dot(half)))
	exponent := blinnExponent(mat.Roughness)
	specular := dielectricF0 * (exponent + 8) / (8 * stdmath.Pi) * stdmath.Pow(ndh, exponent) * irradiance

	return math.NewVec3(
		float32(float64(base.X*light.Colour.X)*diffuse+specular*float64(light.Colour.X)),
		float32(float64(base.Y*light.Colour.Y)*diffuse+specular*float64(light.Colour.Y)),
		float32(float64(base.Z*light.Colour.Z)*diffuse+specular*float64(light.Colour.Z)),
	)
}

// blinnExponent maps roughness to a Blinn-Phong exponent via alpha = r^2.
func blinnExponent(roughness float32) float64 {
	r := stdmath.Max(float64(roughness), 0.05)
	alpha := r * r
	return stdmath.Max(2/(alpha*alpha)-2, 1)
}

// encodeSRGB converts a linear channel to an 8-bit sRGB value.
func encodeSRGB(c float32) uint8 {
	v := float64(math.Saturate(c))
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*stdmath.Pow(v, 1/2.4) - 0.055
	}
	return uint8(stdmath.Round(math.Saturate(v) * 255))
}
