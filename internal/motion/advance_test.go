package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainview/internal/geometry"
	"trainview/internal/mathutil"
	"trainview/internal/spline"
	"trainview/internal/timeutil"
	"trainview/internal/track"
)

var epoch = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func twoPoint(trainU float64) *track.Track {
	return &track.Track{
		Points: []track.ControlPoint{
			track.NewControlPoint(mathutil.Vec3{0, 0, 0}),
			track.NewControlPoint(mathutil.Vec3{10, 0, 0}),
		},
		TrainU: trainU,
	}
}

func uniform(segments int, samples, length float64) Metrics {
	m := Metrics{
		SampleCounts: make([]float64, segments),
		ArcLengths:   make([]float64, segments),
		AvgSamples:   samples,
		AvgArcLength: length,
	}
	for i := range m.SampleCounts {
		m.SampleCounts[i] = samples
		m.ArcLengths[i] = length
	}
	return m
}

func TestAdvanceZeroDirectionIsIdempotent(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	a := NewAdvancer(clock)
	tr := twoPoint(0.75)
	m := uniform(2, 4, 32)

	for i := 0; i < 5; i++ {
		clock.Advance(100 * time.Millisecond)
		st := a.Advance(Input{Direction: 0, Running: true, SliderSpeed: 2, ArcLengthPacing: true}, tr, nil, m)
		assert.Zero(t, st.Delta)
		assert.Equal(t, 0.75, tr.TrainU)
	}
}

func TestAdvanceTooFewPoints(t *testing.T) {
	a := NewAdvancer(timeutil.NewMockClock(epoch))
	tr := &track.Track{Points: []track.ControlPoint{track.NewControlPoint(mathutil.Vec3{})}, TrainU: 0.3}
	st := a.Advance(Input{Direction: 1, SliderSpeed: 2}, tr, nil, Refresh(tr.Points, nil, 8))
	assert.Equal(t, Step{TrainU: 0.3}, st)
	assert.Equal(t, 0.3, tr.TrainU)
}

func TestAdvanceFrameTime(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	a := NewAdvancer(clock)
	tr := twoPoint(0)
	m := uniform(2, 4, 32)
	run := Input{Direction: 1, Running: true, SliderSpeed: 1, ArcLengthPacing: true}

	st := a.Advance(run, tr, nil, m)
	assert.InDelta(t, 1.0/30, st.DT, 1e-12, "first running tick counts as one frame")

	clock.Advance(100 * time.Millisecond)
	st = a.Advance(run, tr, nil, m)
	assert.InDelta(t, 0.1, st.DT, 1e-12)

	clock.Advance(2 * time.Second)
	st = a.Advance(run, tr, nil, m)
	assert.InDelta(t, MaxFrameTime, st.DT, 1e-12, "long pauses are clamped")

	st = a.Advance(run, tr, nil, m)
	assert.InDelta(t, 1.0/30, st.DT, 1e-12, "no elapsed time counts as one frame")

	clock.Advance(time.Second)
	st = a.Advance(Input{Direction: 1, SliderSpeed: 1}, tr, nil, m)
	assert.InDelta(t, 1.0/30, st.DT, 1e-12, "stepping ignores the clock")

	clock.Advance(100 * time.Millisecond)
	st = a.Advance(Input{Direction: -2, Running: true, SliderSpeed: 1}, tr, nil, m)
	assert.InDelta(t, 0.2, st.DT, 1e-12, "direction magnitude scales time")
	assert.Less(t, st.Delta, 0.0)
}

func TestAdvanceArcLengthPacing(t *testing.T) {
	t.Run("uniform track moves StepScale per frame", func(t *testing.T) {
		a := NewAdvancer(timeutil.NewMockClock(epoch))
		tr := twoPoint(0)
		st := a.Advance(Input{Direction: 1, SliderSpeed: 1, ArcLengthPacing: true}, tr, nil, uniform(2, 4, 32))
		assert.InDelta(t, BaseArcSpeed, st.Rate, 1e-9)
		assert.InDelta(t, StepScale, tr.TrainU, 1e-9)
	})

	t.Run("physical speed is the same on every segment", func(t *testing.T) {
		m := Metrics{
			SampleCounts: []float64{2, 6},
			ArcLengths:   []float64{16, 16},
			AvgSamples:   4,
			AvgArcLength: 16,
		}
		in := Input{Direction: 1, SliderSpeed: 2, ArcLengthPacing: true}

		sparse := NewAdvancer(timeutil.NewMockClock(epoch)).Advance(in, twoPoint(0.5), nil, m)
		dense := NewAdvancer(timeutil.NewMockClock(epoch)).Advance(in, twoPoint(1.5), nil, m)
		require.Equal(t, 0, sparse.Segment)
		require.Equal(t, 1, dense.Segment)

		assert.InDelta(t, 4.5*2, sparse.Rate, 1e-9)
		assert.InDelta(t, 13.5*2, dense.Rate, 1e-9)
		assert.InDelta(t, sparse.Rate*16/2, dense.Rate*16/6, 1e-9)
	})

	t.Run("zero slider uses the minimum", func(t *testing.T) {
		a := NewAdvancer(timeutil.NewMockClock(epoch))
		st := a.Advance(Input{Direction: 1, SliderSpeed: 0, ArcLengthPacing: true}, twoPoint(0), nil, uniform(2, 4, 32))
		assert.InDelta(t, MinSlider*BaseArcSpeed, st.Rate, 1e-9)
		assert.Greater(t, st.Delta, 0.0)
	})

	t.Run("empty segment falls back to averages", func(t *testing.T) {
		m := Metrics{
			SampleCounts: []float64{0, 8},
			ArcLengths:   []float64{0, 64},
			AvgSamples:   4,
			AvgArcLength: 32,
		}
		st := NewAdvancer(timeutil.NewMockClock(epoch)).Advance(Input{Direction: 1, SliderSpeed: 1, ArcLengthPacing: true}, twoPoint(0.5), nil, m)
		assert.InDelta(t, BaseArcSpeed, st.Rate, 1e-9)
	})
}

func TestAdvanceFixedDurationPacing(t *testing.T) {
	m := Metrics{
		SampleCounts: []float64{2, 6},
		ArcLengths:   []float64{16, 16},
		AvgSamples:   4,
		AvgArcLength: 16,
	}
	in := Input{Direction: 1, SliderSpeed: 2}

	st := NewAdvancer(timeutil.NewMockClock(epoch)).Advance(in, twoPoint(0.5), nil, m)
	assert.InDelta(t, 2, st.Rate, 1e-9)
	st = NewAdvancer(timeutil.NewMockClock(epoch)).Advance(in, twoPoint(1.5), nil, m)
	assert.InDelta(t, 6, st.Rate, 1e-9)

	// Each segment takes SegmentDuration/slider seconds regardless of length.
	assert.InDelta(t, SegmentDuration/2, 6/st.Rate, 1e-9)
}

func TestAdvanceWraps(t *testing.T) {
	pts := square(40)
	_, samples := geometry.Sleepers(pts, spline.Linear, geometry.DefaultOptions())
	require.NotEmpty(t, samples)
	m := Refresh(pts, samples, 8)
	maxU := float64(len(samples))

	t.Run("forward past the end", func(t *testing.T) {
		tr := &track.Track{Points: pts, TrainU: maxU - 0.01}
		st := NewAdvancer(timeutil.NewMockClock(epoch)).Advance(Input{Direction: 1, SliderSpeed: 1, ArcLengthPacing: true}, tr, samples, m)
		assert.Equal(t, maxU, st.MaxU)
		assert.GreaterOrEqual(t, tr.TrainU, 0.0)
		assert.Less(t, tr.TrainU, 1.0)
		assert.InDelta(t, maxU-0.01+st.Delta-maxU, tr.TrainU, 1e-9)
	})

	t.Run("backward past the start", func(t *testing.T) {
		tr := &track.Track{Points: pts, TrainU: 0.01}
		NewAdvancer(timeutil.NewMockClock(epoch)).Advance(Input{Direction: -1, SliderSpeed: 1, ArcLengthPacing: true}, tr, samples, m)
		assert.Less(t, tr.TrainU, maxU)
		assert.Greater(t, tr.TrainU, maxU-1)
	})

	t.Run("many ticks stay in range", func(t *testing.T) {
		clock := timeutil.NewMockClock(epoch)
		a := NewAdvancer(clock)
		tr := &track.Track{Points: pts}
		for i := 0; i < 500; i++ {
			clock.Advance(40 * time.Millisecond)
			a.Advance(Input{Direction: 1, Running: true, SliderSpeed: 10, ArcLengthPacing: i%2 == 0}, tr, samples, m)
			require.GreaterOrEqual(t, tr.TrainU, 0.0)
			require.Less(t, tr.TrainU, maxU)
		}
	})
}

func TestAdvanceWithoutSleepersUsesPointCount(t *testing.T) {
	tr := twoPoint(1.9)
	st := NewAdvancer(timeutil.NewMockClock(epoch)).Advance(Input{Direction: 1, SliderSpeed: 10}, tr, nil, Refresh(tr.Points, nil, 8))
	assert.Equal(t, 2.0, st.MaxU)
	assert.Less(t, tr.TrainU, 2.0)
}
