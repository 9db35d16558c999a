// Package geometry turns the sampled track curve into renderable rails and
// sleepers. Sleepers are spaced by arc length; their samples double as the
// train's discrete motion grid.
package geometry

import (
	"math"

	"trainview/internal/mathutil"
	"trainview/internal/spline"
	"trainview/internal/track"
)

// Options controls sampling density and track dimensions.
type Options struct {
	StepsPerSegment   int
	TrackHalfWidth    float64
	SleeperSpacing    float64
	SleeperHalfWidth  float64
	SleeperHalfLength float64
}

// DefaultOptions returns the standard track dimensions.
func DefaultOptions() Options {
	return Options{
		StepsPerSegment:   10,
		TrackHalfWidth:    2.5,
		SleeperSpacing:    8,
		SleeperHalfWidth:  3,
		SleeperHalfLength: 2,
	}
}

// normalized fills zero fields with defaults.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.StepsPerSegment < 1 {
		o.StepsPerSegment = 1
	}
	if o.TrackHalfWidth <= 0 {
		o.TrackHalfWidth = d.TrackHalfWidth
	}
	if o.SleeperSpacing <= 0 {
		o.SleeperSpacing = d.SleeperSpacing
	}
	if o.SleeperHalfWidth <= 0 {
		o.SleeperHalfWidth = d.SleeperHalfWidth
	}
	if o.SleeperHalfLength <= 0 {
		o.SleeperHalfLength = d.SleeperHalfLength
	}
	return o
}

// RailLine is one straight piece of a rail.
type RailLine struct {
	A, B mathutil.Vec3
}

// SleeperQuad is one cross-tie. Corners wind (-f-r, -f+r, +f+r, +f-r).
type SleeperQuad struct {
	Center  mathutil.Vec3
	Forward mathutil.Vec3 // unit
	Right   mathutil.Vec3 // unit
	Up      mathutil.Vec3 // unit
	Corners [4]mathutil.Vec3
}

// Geometry is everything generated for one regeneration cycle.
type Geometry struct {
	Rails    []RailLine
	Sleepers []SleeperQuad
	// Samples holds one entry per sleeper, in generation order. When the
	// track is too short for a single sleeper it holds one fallback sample.
	Samples []spline.Sample
}

// Empty reports whether no track geometry was produced.
func (g Geometry) Empty() bool {
	return len(g.Rails) == 0 && len(g.Sleepers) == 0
}

// Build regenerates rails and sleepers from scratch. Fewer than 2 control
// points produce an empty Geometry.
func Build(points []track.ControlPoint, kind spline.Kind, opts Options) Geometry {
	if len(points) < 2 {
		return Geometry{}
	}
	opts = opts.normalized()
	g := Geometry{Rails: Rails(points, kind, opts)}
	g.Sleepers, g.Samples = Sleepers(points, kind, opts)
	return g
}

// RailOffset returns the lateral offset of length halfWidth from the
// centerline: normalize(dir × up), retrying with world up and then world Z
// when the cross product is near zero.
func RailOffset(dir, up mathutil.Vec3, halfWidth float64) mathutil.Vec3 {
	side := dir.Cross(up)
	if side.LenSq() < 1e-6 {
		side = dir.Cross(mathutil.WorldUp)
		if side.LenSq() < 1e-6 {
			side = dir.Cross(mathutil.WorldZ)
		}
	}
	return side.Normalize().Scale(halfWidth)
}

// Rails samples every control-point segment in StepsPerSegment sub-steps
// and emits the two rails offset by ±TrackHalfWidth.
func Rails(points []track.ControlPoint, kind spline.Kind, opts Options) []RailLine {
	if len(points) < 2 {
		return nil
	}
	opts = opts.normalized()
	steps := opts.StepsPerSegment
	inv := 1 / float64(steps)

	lines := make([]RailLine, 0, 2*len(points)*steps)
	for seg := range points {
		base := float64(seg)
		for step := 0; step < steps; step++ {
			s0 := spline.At(points, base+float64(step)*inv, kind)
			s1 := spline.At(points, base+float64(step+1)*inv, kind)
			dir := s1.Pos.Sub(s0.Pos)
			if dir.LenSq() < 1e-6 {
				continue
			}
			dir = dir.Normalize()
			off0 := RailOffset(dir, s0.Orient, opts.TrackHalfWidth)
			off1 := RailOffset(dir, s1.Orient, opts.TrackHalfWidth)
			lines = append(lines,
				RailLine{A: s0.Pos.Add(off0), B: s1.Pos.Add(off1)},
				RailLine{A: s0.Pos.Sub(off0), B: s1.Pos.Sub(off1)},
			)
		}
	}
	return lines
}

// Sleepers walks the curve accumulating arc length and drops a sleeper each
// time SleeperSpacing is reached. The crossing parameter is solved linearly
// inside the sub-step, so several sleepers may land in one sub-step.
func Sleepers(points []track.ControlPoint, kind spline.Kind, opts Options) ([]SleeperQuad, []spline.Sample) {
	if len(points) < 2 {
		return nil, nil
	}
	opts = opts.normalized()
	steps := opts.StepsPerSegment
	inv := 1 / float64(steps)
	probe := math.Max(inv*0.5, 0.01)
	spacing := opts.SleeperSpacing

	var (
		quads   []SleeperQuad
		samples []spline.Sample
		dist    float64
	)

	for seg := range points {
		base := float64(seg)
		for step := 0; step < steps; step++ {
			u0 := base + float64(step)*inv
			u1 := base + float64(step+1)*inv
			start := spline.At(points, u0, kind)
			end := spline.At(points, u1, kind)
			length := start.Pos.Dist(end.Pos)
			if length < 1e-5 {
				continue
			}

			cur := u0
			for dist+length >= spacing {
				ratio := mathutil.Clamp((spacing-dist)/length, 0, 1)
				u := cur + (u1-cur)*ratio

				s := spline.At(points, u, kind)
				tangent := probeTangent(points, kind, s, u, probe, end.Pos.Sub(start.Pos))
				s.Tangent = tangent
				s.Param = u
				samples = append(samples, s)
				quads = append(quads, makeSleeper(s, opts))

				dist = 0
				cur = u
				start = s
				length = start.Pos.Dist(end.Pos)
				if length < 1e-5 {
					break
				}
			}
			dist += length
		}
	}

	if len(samples) == 0 {
		samples = append(samples, fallbackSample(points, kind))
	}
	return quads, samples
}

// probeTangent estimates the unit tangent at u from nearby samples: ahead
// first, then behind, then the enclosing sub-step's secant.
func probeTangent(points []track.ControlPoint, kind spline.Kind, s spline.Sample, u, off float64, secant mathutil.Vec3) mathutil.Vec3 {
	tangent := spline.At(points, u+off, kind).Pos.Sub(s.Pos)
	if tangent.LenSq() < 1e-6 {
		tangent = s.Pos.Sub(spline.At(points, u-off, kind).Pos)
	}
	if tangent.LenSq() < 1e-6 {
		tangent = secant
	}
	return tangent.Normalize()
}

func makeSleeper(s spline.Sample, opts Options) SleeperQuad {
	right := RailOffset(s.Tangent, s.Orient, opts.SleeperHalfWidth)
	fwd := s.Tangent.Scale(opts.SleeperHalfLength)
	c := s.Pos
	return SleeperQuad{
		Center:  c,
		Forward: s.Tangent,
		Right:   right.Normalize(),
		Up:      s.Orient,
		Corners: [4]mathutil.Vec3{
			c.Sub(fwd).Sub(right),
			c.Sub(fwd).Add(right),
			c.Add(fwd).Add(right),
			c.Add(fwd).Sub(right),
		},
	}
}

// fallbackSample is the single motion-grid entry used when the track is
// shorter than one sleeper spacing.
func fallbackSample(points []track.ControlPoint, kind spline.Kind) spline.Sample {
	s := spline.At(points, 0, kind)
	ahead := spline.At(points, 0.1, kind)
	s.Tangent = ahead.Pos.Sub(s.Pos).NormalizeOr(mathutil.WorldZ)
	s.Param = 0
	return s
}
