// Package placement turns the train's sample-space position into a world
// frame for drawing the train.
package placement

import (
	"math"

	"trainview/internal/mathutil"
	"trainview/internal/spline"
	"trainview/internal/track"
)

// HalfSize is the half edge of the train cube; the frame origin is lifted
// by this much along Up so the cube rests on the rails.
const HalfSize = 3.0

// Frame is an orthonormal train frame with Right = Forward x Up.
type Frame struct {
	Pos     mathutil.Vec3 // lifted centre
	Contact mathutil.Vec3 // interpolated rail contact point
	Forward mathutil.Vec3
	Up      mathutil.Vec3
	Right   mathutil.Vec3
}

// Place interpolates the sleeper samples at trainU. trainU is wrapped into
// the sample count; the pair (floor, floor+1) is taken circularly so the
// frame is continuous across the seam. With no samples it returns a frame
// at the origin with world axes and false.
func Place(trainU float64, samples []spline.Sample) (Frame, bool) {
	n := len(samples)
	if n == 0 {
		return Orthonormalize(mathutil.WorldZ, mathutil.WorldUp), false
	}

	u := track.WrapParam(trainU, float64(n))
	fl := math.Floor(u)
	i0 := int(fl) % n
	i1 := (i0 + 1) % n
	t := u - fl
	a, b := samples[i0], samples[i1]

	pos := mathutil.Lerp(a.Pos, b.Pos, t)
	up := mathutil.Lerp(a.Orient, b.Orient, t).NormalizeOr(mathutil.WorldUp)
	fwd := mathutil.Lerp(a.Tangent, b.Tangent, t).NormalizeOr(mathutil.WorldZ)

	f := Orthonormalize(fwd, up)
	f.Contact = pos
	f.Pos = pos.Add(f.Up.Scale(HalfSize))
	return f, true
}

// Orthonormalize builds Right and re-derives Up from a forward direction and
// a reference up. When the two are parallel the reference falls back to
// world Y, then world X.
func Orthonormalize(fwd, up mathutil.Vec3) Frame {
	fwd = fwd.NormalizeOr(mathutil.WorldZ)
	right := fwd.Cross(up)
	if right.LenSq() < 1e-6 {
		up = mathutil.WorldUp
		right = fwd.Cross(up)
	}
	if right.LenSq() < 1e-6 {
		up = mathutil.WorldX
		right = fwd.Cross(up)
	}
	right = right.Normalize()
	up = right.Cross(fwd).Normalize()
	return Frame{Forward: fwd, Up: up, Right: right}
}

// Basis returns the rotation with columns Right, Up, Forward.
func (f Frame) Basis() mathutil.Mat3 {
	return mathutil.Mat3FromColumns(f.Right, f.Up, f.Forward)
}

// Matrix returns the local-to-world transform of the frame.
func (f Frame) Matrix() mathutil.Mat4 {
	return mathutil.FromMat3Translation(f.Basis(), f.Pos)
}

// Point maps local coordinates (x along Right, y along Up, z along Forward)
// into world space.
func (f Frame) Point(x, y, z float64) mathutil.Vec3 {
	return f.Pos.Add(f.Right.Scale(x)).Add(f.Up.Scale(y)).Add(f.Forward.Scale(z))
}

// Corners returns the eight corners of the train cube, bottom face first.
func (f Frame) Corners() [8]mathutil.Vec3 {
	h := HalfSize
	return [8]mathutil.Vec3{
		f.Point(-h, -h, -h), f.Point(h, -h, -h), f.Point(h, -h, h), f.Point(-h, -h, h),
		f.Point(-h, h, -h), f.Point(h, h, -h), f.Point(h, h, h), f.Point(-h, h, h),
	}
}
