// Package track holds the editable control-point sequence and the train's
// position along it. The rest of the core reads a Track; only the editing
// operations in this package mutate one.
package track

import (
	"math"

	"trainview/internal/mathutil"
)

// MinPoints is the smallest track DeletePoint will leave behind.
const MinPoints = 4

// ControlPoint is one waypoint of the cyclic track. Orient is a reference
// "up" vector; it need not be unit length or orthogonal to the curve.
type ControlPoint struct {
	Pos    mathutil.Vec3 `json:"pos"`
	Orient mathutil.Vec3 `json:"orient"`
}

// NewControlPoint returns a point at pos with a world-up orientation.
func NewControlPoint(pos mathutil.Vec3) ControlPoint {
	return ControlPoint{Pos: pos, Orient: mathutil.WorldUp}
}

// Track is the shared session state: the control points and the train's
// curve parameter. TrainU indexes the sleeper sample list, not control points.
type Track struct {
	Points []ControlPoint
	TrainU float64
}

// NewDefault returns the starting layout: four points on a radius-50 circle.
func NewDefault() *Track {
	t := &Track{}
	t.Reset()
	return t
}

// Reset restores the default layout and puts the train back at the start.
func (t *Track) Reset() {
	t.Points = []ControlPoint{
		NewControlPoint(mathutil.Vec3{50, 5, 0}),
		NewControlPoint(mathutil.Vec3{0, 5, 50}),
		NewControlPoint(mathutil.Vec3{-50, 5, 0}),
		NewControlPoint(mathutil.Vec3{0, 5, -50}),
	}
	t.TrainU = 0
}

// Clone returns a deep copy.
func (t *Track) Clone() *Track {
	c := &Track{TrainU: t.TrainU, Points: make([]ControlPoint, len(t.Points))}
	copy(c.Points, t.Points)
	return c
}

// Len returns the control-point count.
func (t *Track) Len() int {
	return len(t.Points)
}

// AddPoint inserts a point halfway between points[after] and its successor
// and returns the new point's index. A negative index means "after 0".
func (t *Track) AddPoint(after int) int {
	n := len(t.Points)
	if n == 0 {
		t.Points = append(t.Points, NewControlPoint(mathutil.Vec3{}))
		return 0
	}
	if after < 0 || after >= n {
		after = 0
	}
	a := t.Points[after]
	b := t.Points[(after+1)%n]
	cp := ControlPoint{
		Pos:    mathutil.Lerp(a.Pos, b.Pos, 0.5),
		Orient: mathutil.Lerp(a.Orient, b.Orient, 0.5),
	}
	if cp.Orient.LenSq() < 1e-6 {
		cp.Orient = mathutil.WorldUp
	}

	t.Points = append(t.Points, ControlPoint{})
	copy(t.Points[after+2:], t.Points[after+1:])
	t.Points[after+1] = cp
	return after + 1
}

// DeletePoint removes points[i]. It refuses (returns false) when the track
// would drop below MinPoints or i is out of range.
func (t *Track) DeletePoint(i int) bool {
	if len(t.Points) <= MinPoints || i < 0 || i >= len(t.Points) {
		return false
	}
	t.Points = append(t.Points[:i], t.Points[i+1:]...)
	return true
}

// Axis selects the rotation axis for RollPoint.
type Axis int

const (
	AxisX Axis = iota
	AxisZ
)

// RollStep is the rotation applied by one RollPoint call.
const RollStep = math.Pi / 4

// RollPoint rotates the orientation of points[i] by dir*RollStep about the
// given world axis. dir is usually +1 or -1.
func (t *Track) RollPoint(i int, axis Axis, dir float64) bool {
	if i < 0 || i >= len(t.Points) {
		return false
	}
	a := RollStep * dir
	var q mathutil.Quat
	switch axis {
	case AxisX:
		q = mathutil.EulerToQuat(a, 0, 0)
	case AxisZ:
		q = mathutil.EulerToQuat(0, 0, -a)
	default:
		return false
	}
	t.Points[i].Orient = q.Rotate(t.Points[i].Orient)
	return true
}

// WrapTrainU folds TrainU into [0, maxU) by repeated add/subtract so the
// value stays continuous near the boundary. maxU <= 0 leaves it untouched.
func (t *Track) WrapTrainU(maxU float64) {
	t.TrainU = WrapParam(t.TrainU, maxU)
}

// WrapParam folds u into [0, maxU) by repeated add/subtract. Values more
// than one lap out are reduced with math.Mod first, since subtracting maxU
// from a large float stops changing it.
func WrapParam(u, maxU float64) float64 {
	if maxU <= 0 || math.IsNaN(u) || math.IsInf(u, 0) {
		return u
	}
	if u >= 2*maxU || u < -maxU {
		u = math.Mod(u, maxU)
	}
	for u >= maxU {
		u -= maxU
	}
	for u < 0 {
		u += maxU
	}
	// -tiny + maxU rounds to maxU.
	if u >= maxU {
		u = 0
	}
	return u
}
