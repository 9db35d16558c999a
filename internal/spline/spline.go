// Package spline samples the cyclic track curve defined by a control-point
// sequence. Sampling is a pure function of (points, u, kind).
package spline

import (
	"math"

	"trainview/internal/mathutil"
	"trainview/internal/track"
)

// Sample is one evaluated point on the curve.
//
// Param is segment + local t in control-point space. It is not a sleeper
// index even when the sample is stored in a sleeper list.
type Sample struct {
	Pos     mathutil.Vec3
	Orient  mathutil.Vec3 // unit length
	Tangent mathutil.Vec3
	Param   float64
}

// Wrap maps any integer index onto [0, n).
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// MinCubicPoints is the point count below which cubic kinds fall back to Linear.
const MinCubicPoints = 4

// At evaluates the curve at parameter u. u wraps over the point count, so
// At(u) and At(u+len(points)) agree. An empty point list yields a zero Sample.
func At(points []track.ControlPoint, u float64, kind Kind) Sample {
	n := len(points)
	if n == 0 {
		return Sample{}
	}

	span := float64(n)
	wrapped := math.Mod(u, span)
	if wrapped < 0 {
		wrapped += span
	}
	seg := int(math.Floor(wrapped))
	t := wrapped - float64(seg)
	seg = Wrap(seg, n)

	cp0 := points[seg]
	cp1 := points[Wrap(seg+1, n)]

	var s Sample
	s.Param = float64(seg) + t

	if n < MinCubicPoints {
		kind = Linear
	}

	switch kind {
	case Cardinal:
		w, d := cardinalWeights(t), cardinalDerivatives(t)
		blend(&s, window(points, seg), w, d)
	case BSpline:
		w, d := bsplineWeights(t), bsplineDerivatives(t)
		blend(&s, window(points, seg), w, d)
	default:
		s.Pos = mathutil.Lerp(cp0.Pos, cp1.Pos, t)
		s.Orient = mathutil.Lerp(cp0.Orient, cp1.Orient, t).NormalizeOr(mathutil.WorldUp)
		s.Tangent = cp1.Pos.Sub(cp0.Pos)
	}

	return s
}

// window returns {p[seg-1], p[seg], p[seg+1], p[seg+2]} with wrapping.
func window(points []track.ControlPoint, seg int) [4]track.ControlPoint {
	n := len(points)
	return [4]track.ControlPoint{
		points[Wrap(seg-1, n)],
		points[seg],
		points[Wrap(seg+1, n)],
		points[Wrap(seg+2, n)],
	}
}

func blend(s *Sample, g [4]track.ControlPoint, w, d [4]float64) {
	var pos, orient, tangent mathutil.Vec3
	for i := 0; i < 4; i++ {
		pos = pos.Add(g[i].Pos.Scale(w[i]))
		orient = orient.Add(g[i].Orient.Scale(w[i]))
		tangent = tangent.Add(g[i].Pos.Scale(d[i]))
	}
	s.Pos = pos
	s.Orient = orient.NormalizeOr(mathutil.WorldUp)
	s.Tangent = tangent
}

func cardinalWeights(t float64) [4]float64 {
	t2 := t * t
	t3 := t2 * t
	return [4]float64{
		-0.5*t3 + t2 - 0.5*t,
		1.5*t3 - 2.5*t2 + 1,
		-1.5*t3 + 2*t2 + 0.5*t,
		0.5*t3 - 0.5*t2,
	}
}

func cardinalDerivatives(t float64) [4]float64 {
	t2 := t * t
	return [4]float64{
		-1.5*t2 + 2*t - 0.5,
		4.5*t2 - 5*t,
		-4.5*t2 + 4*t + 0.5,
		1.5*t2 - t,
	}
}

func bsplineWeights(t float64) [4]float64 {
	t2 := t * t
	t3 := t2 * t
	return [4]float64{
		(-t3 + 3*t2 - 3*t + 1) / 6,
		(3*t3 - 6*t2 + 4) / 6,
		(-3*t3 + 3*t2 + 3*t + 1) / 6,
		t3 / 6,
	}
}

func bsplineDerivatives(t float64) [4]float64 {
	t2 := t * t
	return [4]float64{
		(-3*t2 + 6*t - 3) / 6,
		(9*t2 - 12*t) / 6,
		(-9*t2 + 6*t + 3) / 6,
		3 * t2 / 6,
	}
}
