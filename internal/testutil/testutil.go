// Package testutil provides shared test fixtures.
//
// Binary STL writing is not a feature of stlpose; the encoder here only
// exists so decoder, scene and engine tests can synthesize their inputs.
package testutil

import (
	"encoding/binary"
	stdmath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/stlpose/engine/math"
)

// STLRecord is one triangle record of a binary STL fixture.
type STLRecord struct {
	Normal math.Vec3
	Vertex [3]math.Vec3
	Attr   uint16
}

// STLBytes encodes records in the binary STL layout: header (truncated or
// zero-padded to 80 bytes), little-endian count, then 50-byte records.
func STLBytes(header string, records ...STLRecord) []byte {
	return STLBytesWithCount(header, uint32(len(records)), records...)
}

// STLBytesWithCount is STLBytes with an explicit, possibly false, count.
func STLBytesWithCount(header string, count uint32, records ...STLRecord) []byte {
	buf := make([]byte, 84, 84+50*len(records))
	copy(buf[:80], header)
	binary.LittleEndian.PutUint32(buf[80:], count)

	var rec [50]byte
	for _, r := range records {
		putVec3(rec[0:], r.Normal)
		putVec3(rec[12:], r.Vertex[0])
		putVec3(rec[24:], r.Vertex[1])
		putVec3(rec[36:], r.Vertex[2])
		binary.LittleEndian.PutUint16(rec[48:], r.Attr)
		buf = append(buf, rec[:]...)
	}
	return buf
}

func putVec3(b []byte, v math.Vec3) {
	binary.LittleEndian.PutUint32(b, stdmath.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], stdmath.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], stdmath.Float32bits(v.Z))
}

// Tri builds a record with a zero normal from three vertices.
func Tri(a, b, c math.Vec3) STLRecord {
	return STLRecord{Vertex: [3]math.Vec3{a, b, c}}
}

// FacingTriangle is a triangle in the z=0 plane centred on the origin,
// half-extent size, wound counter-clockwise when seen from +Z.
func FacingTriangle(size float32) STLRecord {
	return Tri(
		math.NewVec3(-size, -size, 0),
		math.NewVec3(size, -size, 0),
		math.NewVec3(0, size, 0),
	)
}

// WriteSTL writes records to dir/name and returns the full path.
func WriteSTL(t *testing.T, dir, name string, records ...STLRecord) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, STLBytes("stlpose fixture", records...), 0o644))
	return path
}
