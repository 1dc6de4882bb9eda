package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-5

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.Truef(t, want.Compare(got, tolerance), "want %+v, got %+v", want, got)
}

func TestEulerXYZAppliesXThenYThenZ(t *testing.T) {
	r := NewMat4EulerXYZ(0, DegToRad(90), DegToRad(90))
	// Y takes +X to -Z, Z then leaves it there. Z first would give +Y.
	assertVec3(t, NewVec3(0, 0, -1), NewVec3(1, 0, 0).Transform(r))

	r = NewMat4EulerXYZ(DegToRad(90), 0, DegToRad(90))
	assertVec3(t, NewVec3(0, 0, 1), NewVec3(0, 1, 0).Transform(r))
}

func TestSingleAxisRotationsAreRightHanded(t *testing.T) {
	quarter := DegToRad(90)
	assertVec3(t, NewVec3(0, 0, 1), NewVec3(0, 1, 0).Transform(NewMat4EulerX(quarter)))
	assertVec3(t, NewVec3(0, 0, -1), NewVec3(1, 0, 0).Transform(NewMat4EulerY(quarter)))
	assertVec3(t, NewVec3(0, 1, 0), NewVec3(1, 0, 0).Transform(NewMat4EulerZ(quarter)))
}

func TestInverse(t *testing.T) {
	m := NewMat4EulerXYZ(0.3, -0.7, 1.1).Mul(NewMat4Translation(NewVec3(1, 2, 3)))
	p := NewVec3(0.5, -4, 2)
	assertVec3(t, p, p.Transform(m).Transform(m.Inverse()))

	id := m.Mul(m.Inverse())
	for i, want := range NewMat4Identity().Data {
		assert.InDelta(t, want, id.Data[i], tolerance)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := NewMat4Translation(NewVec3(5, 5, 5))
	assertVec3(t, NewVec3(0, 0, 1), NewVec3(0, 0, 1).TransformDirection(m))
	assertVec3(t, NewVec3(5, 5, 6), NewVec3(0, 0, 1).Transform(m))
}

func TestForward(t *testing.T) {
	assertVec3(t, NewVec3(0, 0, -1), NewMat4Identity().Forward())
	assertVec3(t, NewVec3(0, 1, 0), NewMat4EulerX(DegToRad(90)).Forward())
	assertVec3(t, NewVec3Forward(), NewMat4Translation(NewVec3(3, 4, 5)).Forward())
}

func TestTransformLocalOrder(t *testing.T) {
	tr := TransformCreate()
	tr.SetPositionRotationScale(NewVec3(0, 0, 1), NewVec3(0, 0, DegToRad(90)), NewVec3(2, 2, 2))
	// scaled, rotated about Z, then moved
	assertVec3(t, NewVec3(0, 2, 1), NewVec3(1, 0, 0).Transform(tr.GetWorld()))
	assert.False(t, tr.IsDirty)

	tr.Translate(NewVec3(1, 0, 0))
	assert.True(t, tr.IsDirty)
	assertVec3(t, NewVec3(1, 2, 1), NewVec3(1, 0, 0).Transform(tr.GetWorld()))
}

func TestTransformParent(t *testing.T) {
	parent := TransformFromPosition(NewVec3(10, 0, 0))
	child := TransformFromEulerDegrees(0, 0, 90)
	child.Parent = parent
	assertVec3(t, NewVec3(10, 1, 0), NewVec3(1, 0, 0).Transform(child.GetWorld()))

	var none *Transform
	assert.Equal(t, NewMat4Identity(), none.GetWorld())
}

func TestNormalize(t *testing.T) {
	assertVec3(t, NewVec3(0.6, 0.8, 0), NewVec3(3, 4, 0).Normalize())
	assert.Equal(t, NewVec3Zero(), NewVec3Zero().Normalize())
}

func TestGeometryFaceNormal(t *testing.T) {
	n, ok := GeometryFaceNormal(NewVec3(0, 0, 0), NewVec3(1, 0, 0), NewVec3(0, 1, 0))
	assert.True(t, ok)
	assertVec3(t, NewVec3(0, 0, 1), n)

	n, ok = GeometryFaceNormal(NewVec3(0, 0, 0), NewVec3(0, 1, 0), NewVec3(1, 0, 0))
	assert.True(t, ok)
	assertVec3(t, NewVec3(0, 0, -1), n)

	_, ok = GeometryFaceNormal(NewVec3(0, 0, 0), NewVec3(1, 1, 1), NewVec3(2, 2, 2))
	assert.False(t, ok)

	// a sliver whose third corner sits a hair off the line
	_, ok = GeometryFaceNormal(NewVec3(0, 0, 0), NewVec3(1, 0, 0), NewVec3(2, 1e-5, 0))
	assert.False(t, ok)

	// small but well shaped: the test is on the angle, not the size
	n, ok = GeometryFaceNormal(NewVec3(0, 0, 0), NewVec3(1e-4, 0, 0), NewVec3(0, 1e-4, 0))
	assert.True(t, ok)
	assertVec3(t, NewVec3(0, 0, 1), n)

	assertVec3(t, NewVec3(1, 1, 0), GeometryCentroid(NewVec3(0, 0, 0), NewVec3(3, 0, 0), NewVec3(0, 3, 0)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(42, 0, 10))
	assert.Equal(t, 7, Clamp(7, 0, 10))
	assert.Equal(t, float32(1), Saturate(float32(1.5)))
	assert.Equal(t, 0.25, Saturate(0.25))
}
