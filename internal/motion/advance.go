// Package motion moves the train along the track. It owns the segment
// metrics cache and the advancement model with its two pacing policies.
package motion

import (
	"math"
	"time"

	"trainview/internal/spline"
	"trainview/internal/timeutil"
	"trainview/internal/track"
)

const (
	// UpdatesPerSecond is the nominal tick rate; a tick that is not running
	// counts as exactly one frame at this rate.
	UpdatesPerSecond = 30.0
	// MaxFrameTime caps real elapsed time so pauses don't fling the train.
	MaxFrameTime = 0.25
	// StepScale is the arc-length step per nominal frame at slider 1.
	StepScale = 0.3
	// BaseArcSpeed is StepScale in per-second terms.
	BaseArcSpeed = StepScale * UpdatesPerSecond
	// SegmentDuration is the seconds spent per segment in fixed-duration
	// pacing at slider 1.
	SegmentDuration = 2.0
	// MinSlider keeps a zero slider from stalling or dividing by zero.
	MinSlider = 0.05
)

// Input is one tick's worth of user intent.
type Input struct {
	// Direction's sign picks forward/backward and its magnitude scales the
	// elapsed time, so 0 means "don't move".
	Direction float64
	// Running selects real elapsed time; otherwise each call is one frame.
	Running         bool
	SliderSpeed     float64
	ArcLengthPacing bool
}

// Step reports what one Advance call did.
type Step struct {
	DT      float64 // seconds, already scaled by |Direction|
	Segment int
	Rate    float64 // sleeper samples per second
	Delta   float64
	TrainU  float64
	MaxU    float64
}

// Advancer is the train advancement model. It keeps the previous tick time
// so running ticks can use real elapsed time.
type Advancer struct {
	clock   timeutil.Clock
	last    time.Time
	hasLast bool
}

// NewAdvancer returns an Advancer reading time from clock. A nil clock uses
// the real clock.
func NewAdvancer(clock timeutil.Clock) *Advancer {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Advancer{clock: clock}
}

// Reset forgets the previous tick so the next running tick counts as one frame.
func (a *Advancer) Reset() {
	a.hasLast = false
}

// frameTime returns the unscaled elapsed seconds for this tick and records
// the tick time.
func (a *Advancer) frameTime(running bool) float64 {
	now := a.clock.Now()
	if !a.hasLast {
		a.last = now
		a.hasLast = true
	}
	dt := now.Sub(a.last).Seconds()
	a.last = now

	if !running {
		return 1 / UpdatesPerSecond
	}
	if dt <= 0 {
		return 1 / UpdatesPerSecond
	}
	return math.Min(dt, MaxFrameTime)
}

// Advance moves tr.TrainU for one tick and returns what happened. samples
// is the current sleeper list and m the metrics built from it. Tracks with
// fewer than two points never move.
func (a *Advancer) Advance(in Input, tr *track.Track, samples []spline.Sample, m Metrics) Step {
	st := Step{TrainU: tr.TrainU}
	segments := len(tr.Points)
	if segments < 2 {
		return st
	}

	sign := 1.0
	if in.Direction < 0 {
		sign = -1
	}
	st.DT = a.frameTime(in.Running) * math.Abs(in.Direction)

	st.MaxU = float64(len(samples))
	if st.MaxU == 0 {
		st.MaxU = float64(segments)
	}
	if m.Segments() == 0 {
		return st
	}

	st.Segment = SegmentIndex(tr.TrainU, samples, segments)
	if st.Segment >= m.Segments() {
		st.Segment = m.Segments() - 1
	}

	slider := math.Max(in.SliderSpeed, MinSlider)
	if in.ArcLengthPacing {
		st.Rate = arcLengthRate(m, st.Segment, slider)
	} else {
		st.Rate = fixedDurationRate(m, st.Segment, slider)
	}

	st.Delta = sign * st.Rate * st.DT
	tr.TrainU += st.Delta
	tr.WrapTrainU(st.MaxU)
	st.TrainU = tr.TrainU
	return st
}

// arcLengthRate converts a constant physical speed into samples per second
// for the given segment.
func arcLengthRate(m Metrics, seg int, slider float64) float64 {
	samples := m.SampleCounts[seg]
	length := m.ArcLengths[seg]
	if samples <= 1e-4 {
		samples = positiveOr(m.AvgSamples, 1)
	}
	if length <= 1e-4 {
		length = positiveOr(m.AvgArcLength, 1)
	}

	perSample := length / math.Max(samples, 1)
	avgPerSample := m.AvgArcLength / math.Max(m.AvgSamples, 1)
	if perSample <= 1e-4 {
		perSample = avgPerSample
	}
	if avgPerSample <= 1e-4 {
		avgPerSample = 1
	}

	physical := slider * BaseArcSpeed * avgPerSample
	return physical / math.Max(perSample, 1e-4)
}

// fixedDurationRate spends SegmentDuration/slider seconds in every segment,
// whatever its length.
func fixedDurationRate(m Metrics, seg int, slider float64) float64 {
	samples := m.SampleCounts[seg]
	if samples <= 1e-4 {
		samples = m.AvgSamples
	}
	duration := SegmentDuration / slider
	if duration <= 1e-4 {
		duration = SegmentDuration
	}
	return samples / duration
}

func positiveOr(v, fallback float64) float64 {
	if v > 1e-4 {
		return v
	}
	return fallback
}
