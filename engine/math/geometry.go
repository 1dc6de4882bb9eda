package math

// GeometryFaceNormal returns the unit normal of the triangle (v0, v1, v2)
// following its winding. ok is false for degenerate triangles: the squared
// sine of the angle between the two edges at v0 is below K_FLOAT_EPSILON,
// which holds for collinear corners at any scale.
func GeometryFaceNormal(v0, v1, v2 Vec3) (normal Vec3, ok bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	c := edge1.Cross(edge2)
	// |e1 x e2|^2 = |e1|^2 |e2|^2 sin^2
	if c.LengthSquared() <= K_FLOAT_EPSILON*edge1.LengthSquared()*edge2.LengthSquared() {
		return NewVec3Zero(), false
	}
	// NOTE: This is a face normal. STL normals are ignored on load, so the winding is the only source.
	return c.Normalize(), true
}

// GeometryCentroid returns the average of the three corners.
func GeometryCentroid(v0, v1, v2 Vec3) Vec3 {
	return v0.Add(v1).Add(v2).MulScalar(1.0 / 3.0)
}
