package loaders

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
)

const (
	stlHeaderSize = 80
	stlCountSize  = 4
	stlRecordSize = 50

	// maxPreallocTriangles bounds the up-front allocation so a header that
	// lies about its count cannot force a huge allocation before the
	// truncation is detected.
	maxPreallocTriangles = 1 << 20
)

// Triangle is one 50-byte binary STL record.
type Triangle struct {
	Normal math.Vec3
	Vertex [3]math.Vec3
	Attr   uint16
}

// TriangleScanner reads binary STL records one at a time, in file order,
// without holding more than the current record in memory.
type TriangleScanner struct {
	r      io.Reader
	header [stlHeaderSize]byte
	count  uint32
	read   uint32
	buf    [stlRecordSize]byte
	tri    Triangle
	err    error
}

// NewTriangleScanner consumes the header and triangle count from r.
// It fails with core.ErrMalformedHeader if r ends before 84 bytes.
func NewTriangleScanner(r io.Reader) (*TriangleScanner, error) {
	s := &TriangleScanner{r: r}

	var head [stlHeaderSize + stlCountSize]byte
	if n, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("need %d bytes, got %d: %w", len(head), n, core.ErrMalformedHeader)
		}
		return nil, err
	}
	copy(s.header[:], head[:stlHeaderSize])
	s.count = le.Uint32(head[stlHeaderSize:])
	return s, nil
}

// Header returns the raw 80-byte header.
func (s *TriangleScanner) Header() [stlHeaderSize]byte {
	return s.header
}

// Count returns the number of triangles the header declares.
func (s *TriangleScanner) Count() uint32 {
	return s.count
}

// Scan advances to the next record. It returns false once all declared
// records were read or an error occurred; check Err afterwards.
func (s *TriangleScanner) Scan() bool {
	if s.err != nil || s.read >= s.count {
		return false
	}
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.err = fmt.Errorf("record %d of %d: %w", s.read, s.count, core.ErrTruncatedInput)
		} else {
			s.err = err
		}
		return false
	}

	// the 12 normal bytes are kept verbatim, never checked against the winding
	b := s.buf[:]
	s.tri.Normal = getVec3(b)
	s.tri.Vertex[0] = getVec3(b[12:])
	s.tri.Vertex[1] = getVec3(b[24:])
	s.tri.Vertex[2] = getVec3(b[36:])
	s.tri.Attr = le.Uint16(b[48:])
	s.read++
	return true
}

// Triangle returns the record read by the last successful Scan.
func (s *TriangleScanner) Triangle() Triangle {
	return s.tri
}

// Err returns the first error met while scanning, if any.
func (s *TriangleScanner) Err() error {
	return s.err
}

// Decode reads a whole binary STL stream into a triangle soup. Record i
// contributes vertices 3i, 3i+1, 3i+2 and the face (3i, 3i+1, 3i+2).
// A stream holding fewer records than declared fails as a whole; no partial
// mesh is returned. Bytes after the last declared record are ignored.
func Decode(r io.Reader) (*metadata.TriangleMesh, error) {
	s, err := NewTriangleScanner(r)
	if err != nil {
		return nil, err
	}

	capacity := int(min(s.Count(), maxPreallocTriangles))
	mesh := &metadata.TriangleMesh{
		Header:   s.Header(),
		Vertices: make([]math.Vec3, 0, 3*capacity),
		Faces:    make([]metadata.Face, 0, capacity),
	}
	for i := uint32(0); s.Scan(); i++ {
		t := s.Triangle()
		mesh.Vertices = append(mesh.Vertices, t.Vertex[0], t.Vertex[1], t.Vertex[2])
		mesh.Faces = append(mesh.Faces, metadata.Face{3 * i, 3*i + 1, 3*i + 2})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(b []byte) (*metadata.TriangleMesh, error) {
	return Decode(bytes.NewReader(b))
}

// STLLoader loads binary STL files from disk.
type STLLoader struct{}

func (sl *STLLoader) Load(path string) (*metadata.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mesh, err := Decode(bufio.NewReader(f))
	if err != nil {
		core.LogError("failed to decode '%s': %s", path, err)
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	core.LogDebug("decoded '%s': %d triangles", path, mesh.TriangleCount())

	return &metadata.Resource{
		Name:     mesh.HeaderName(),
		FullPath: path,
		DataSize: uint64(stlHeaderSize + stlCountSize + stlRecordSize*mesh.TriangleCount()),
		Data:     mesh,
	}, nil
}

func (sl *STLLoader) Unload(*metadata.Resource) error {
	return nil
}
