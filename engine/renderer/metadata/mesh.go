package metadata

import (
	"bytes"
	"strings"

	"github.com/spaghettifunk/stlpose/engine/math"
)

// Face holds three indices into TriangleMesh.Vertices, in file winding order.
type Face [3]uint32

// TriangleMesh is a triangle soup: every face owns three vertices of its own,
// nothing is shared or merged. It is immutable once decoded.
type TriangleMesh struct {
	// Header is the raw 80-byte STL header. Its content is not interpreted.
	Header   [80]byte
	Vertices []math.Vec3
	Faces    []Face
}

// TriangleCount returns the number of faces in the mesh.
func (m *TriangleMesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Faces)
}

// Triangle returns the three vertices referenced by face i.
func (m *TriangleMesh) Triangle(i int) [3]math.Vec3 {
	f := m.Faces[i]
	return [3]math.Vec3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// HeaderName returns the printable prefix of the STL header, trimmed of
// padding. Many exporters store the solid name there.
func (m *TriangleMesh) HeaderName() string {
	end := bytes.IndexByte(m.Header[:], 0)
	if end < 0 {
		end = len(m.Header)
	}
	return strings.TrimSpace(string(m.Header[:end]))
}
