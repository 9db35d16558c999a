package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3NormalizeOr(t *testing.T) {
	t.Run("degenerate uses fallback", func(t *testing.T) {
		assert.Equal(t, WorldUp, Vec3{1e-4, 0, 0}.NormalizeOr(WorldUp))
	})
	t.Run("unit length otherwise", func(t *testing.T) {
		n := Vec3{3, 4, 0}.NormalizeOr(WorldUp)
		assert.InDelta(t, 1.0, n.Len(), 1e-12)
		assert.InDelta(t, 0.6, n[0], 1e-12)
	})
}

func TestLerpEndpoints(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{-4, 5, 9}
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	mid := Lerp(a, b, 0.5)
	assert.InDelta(t, -1.5, mid[0], 1e-12)
}

func TestLookAtMapsTargetOntoNegativeZ(t *testing.T) {
	eye := Vec3{10, 20, 30}
	target := Vec3{0, 0, 0}
	view := LookAt(eye, target, WorldUp)

	e := view.MulPoint(eye)
	assert.InDelta(t, 0, e.Len(), 1e-9)

	p := view.MulPoint(target)
	assert.InDelta(t, 0, p[0], 1e-9)
	assert.InDelta(t, 0, p[1], 1e-9)
	assert.InDelta(t, -eye.Len(), p[2], 1e-9)
}

func TestLookAtStraightDown(t *testing.T) {
	view := LookAt(Vec3{0, 100, 0}, Vec3{}, WorldUp)
	p := view.MulPoint(Vec3{})
	assert.InDelta(t, -100, p[2], 1e-9)
	for _, v := range p {
		assert.False(t, math.IsNaN(v))
	}
}

func TestQuatRotateAboutX(t *testing.T) {
	q := EulerToQuat(math.Pi/2, 0, 0)
	r := q.Rotate(WorldUp)
	assert.InDelta(t, 0, r[1], 1e-12)
	assert.InDelta(t, 1, r[2], 1e-12)
	assert.InDelta(t, 1, QuatToMat3(q).MulVec3(WorldX)[0], 1e-12)
}

func TestMat3FromColumns(t *testing.T) {
	m := Mat3FromColumns(WorldX, WorldUp, WorldZ)
	assert.Equal(t, Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}, m)
	skew := Mat3FromColumns(Vec3{1, 2, 3}, Vec3{4, 5, 6}, Vec3{7, 8, 9})
	assert.Equal(t, Mat3FromRows(Vec3{1, 4, 7}, Vec3{2, 5, 8}, Vec3{3, 6, 9}), skew)
	assert.Equal(t, Vec3{4, 5, 6}, skew.MulVec3(WorldUp))
}

func TestRotYQuarterTurn(t *testing.T) {
	v := RotY(Deg2Rad(90)).MulVec3(WorldZ)
	assert.InDelta(t, 1, v[0], 1e-12)
	assert.InDelta(t, 0, v[2], 1e-12)
	back := RotX(-0.3).MulVec3(RotX(0.3).MulVec3(WorldUp))
	assert.InDelta(t, 1, back[1], 1e-12)
}
