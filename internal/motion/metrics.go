package motion

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"trainview/internal/spline"
	"trainview/internal/track"
)

// Metrics aggregates, per control-point segment, how many sleeper samples
// fall in it and how much arc length they cover. The advancement model uses
// it to convert between time, sample index and physical distance.
type Metrics struct {
	SampleCounts []float64
	ArcLengths   []float64

	AvgSamples   float64
	AvgArcLength float64
}

// Segments returns the number of segments the metrics describe.
func (m Metrics) Segments() int {
	return len(m.SampleCounts)
}

// Refresh rebuilds the metrics from the current sleeper samples. Each
// consecutive pair (circularly) credits its distance and one sample to the
// segment holding the first sample's Param. Without samples every segment
// gets one sample spanning its secant. spacing is the average length used
// when the track has no measurable length.
func Refresh(points []track.ControlPoint, samples []spline.Sample, spacing float64) Metrics {
	n := len(points)
	m := Metrics{
		SampleCounts: make([]float64, n),
		ArcLengths:   make([]float64, n),
		AvgSamples:   1,
		AvgArcLength: spacing,
	}
	if n == 0 {
		return m
	}

	if len(samples) > 0 {
		for i, s0 := range samples {
			s1 := samples[(i+1)%len(samples)]
			seg := spline.Wrap(int(math.Floor(s0.Param)), n)
			m.ArcLengths[seg] += s0.Pos.Dist(s1.Pos)
			m.SampleCounts[seg]++
		}
	} else {
		for seg := 0; seg < n; seg++ {
			m.ArcLengths[seg] = points[seg].Pos.Dist(points[(seg+1)%n].Pos)
			m.SampleCounts[seg] = 1
		}
	}

	if total := floats.Sum(m.SampleCounts); total > 1e-4 {
		m.AvgSamples = total / float64(n)
	}
	if total := floats.Sum(m.ArcLengths); total > 1e-4 {
		m.AvgArcLength = total / float64(n)
	}
	return m
}

// SegmentIndex returns the control-point segment the train is on. trainU
// indexes sleeper samples, so the segment is found by interpolating the
// Params of the two bracketing samples; a decrease across the cyclic seam
// is undone by adding the segment count.
func SegmentIndex(trainU float64, samples []spline.Sample, segments int) int {
	if segments <= 0 {
		return 0
	}
	if len(samples) == 0 {
		return spline.Wrap(int(math.Floor(trainU)), segments)
	}

	count := len(samples)
	wrapped := math.Mod(trainU, float64(count))
	if wrapped < 0 {
		wrapped += float64(count)
	}
	fl := math.Floor(wrapped)
	i0 := int(fl) % count
	i1 := (i0 + 1) % count
	t := wrapped - fl

	p0 := samples[i0].Param
	p1 := samples[i1].Param
	if p1 < p0 {
		p1 += float64(segments)
	}
	p := p0 + (p1-p0)*t
	return spline.Wrap(int(math.Floor(p)), segments)
}
