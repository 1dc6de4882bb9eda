package systems

import (
	stdmath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
)

// degenerateArea is the area below which a triangle is reported as degenerate.
const degenerateArea = 1e-12

// MeshInfo summarizes a decoded mesh for diagnostics.
type MeshInfo struct {
	Triangles   int
	Vertices    int
	Bounds      math.Extents3D
	Center      math.Vec3
	SurfaceArea float64
	Degenerate  int
}

// ComputeMeshInfo walks every face once. Sums are carried in float64 so
// large meshes do not lose precision.
func ComputeMeshInfo(mesh *metadata.TriangleMesh) MeshInfo {
	info := MeshInfo{
		Triangles: mesh.TriangleCount(),
	}
	if mesh == nil || len(mesh.Vertices) == 0 {
		return info
	}
	info.Vertices = len(mesh.Vertices)

	lo := r3.Vec{X: stdmath.Inf(1), Y: stdmath.Inf(1), Z: stdmath.Inf(1)}
	hi := r3.Vec{X: stdmath.Inf(-1), Y: stdmath.Inf(-1), Z: stdmath.Inf(-1)}
	for _, v := range mesh.Vertices {
		p := toR3(v)
		lo = r3.Vec{X: stdmath.Min(lo.X, p.X), Y: stdmath.Min(lo.Y, p.Y), Z: stdmath.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: stdmath.Max(hi.X, p.X), Y: stdmath.Max(hi.Y, p.Y), Z: stdmath.Max(hi.Z, p.Z)}
	}
	info.Bounds = math.Extents3D{Min: fromR3(lo), Max: fromR3(hi)}
	info.Center = fromR3(r3.Scale(0.5, r3.Add(lo, hi)))

	for i := range mesh.Faces {
		tri := mesh.Triangle(i)
		a, b, c := toR3(tri[0]), toR3(tri[1]), toR3(tri[2])
		area := 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
		if area < degenerateArea {
			info.Degenerate++
		}
		info.SurfaceArea += area
	}
	return info
}

func toR3(v math.Vec3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func fromR3(v r3.Vec) math.Vec3 {
	return math.NewVec3(float32(v.X), float32(v.Y), float32(v.Z))
}
