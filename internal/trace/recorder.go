// Package trace records the train's motion across ticks and turns it into
// plots and summary statistics.
package trace

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"trainview/internal/mathutil"
	"trainview/internal/motion"
	"trainview/internal/placement"
)

// ErrEmpty is returned when a report needs records and there are none.
var ErrEmpty = errors.New("trace: no records")

// Record is one traced tick.
type Record struct {
	T       float64 // seconds since the session started
	TrainU  float64
	Segment int
	Rate    float64
	Pos     mathutil.Vec3
	// Speed is world units per second since the previous record.
	Speed float64
	// Wrapped is set when the train crossed the seam on this tick.
	Wrapped bool
}

// Recorder accumulates Records. The zero value is ready to use.
type Recorder struct {
	records []Record
}

// Record appends one tick.
func (r *Recorder) Record(t time.Duration, step motion.Step, f placement.Frame) {
	rec := Record{
		T:       t.Seconds(),
		TrainU:  step.TrainU,
		Segment: step.Segment,
		Rate:    step.Rate,
		Pos:     f.Pos,
	}
	if n := len(r.records); n > 0 {
		prev := r.records[n-1]
		if dt := rec.T - prev.T; dt > 0 {
			rec.Speed = rec.Pos.Dist(prev.Pos) / dt
		}
		switch {
		case step.Delta > 0 && rec.TrainU < prev.TrainU:
			rec.Wrapped = true
		case step.Delta < 0 && rec.TrainU > prev.TrainU:
			rec.Wrapped = true
		}
	}
	r.records = append(r.records, rec)
}

// Records returns the recorded ticks in order.
func (r *Recorder) Records() []Record {
	return r.records
}

// Len returns the number of records.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Path returns the recorded train positions.
func (r *Recorder) Path() []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Pos
	}
	return out
}

// Stats summarises the speed and distance of a trace. Speeds exclude the
// first record, which has no predecessor.
type Stats struct {
	Records   int
	Duration  float64
	Distance  float64
	MeanSpeed float64
	StdSpeed  float64
	MinSpeed  float64
	MaxSpeed  float64
	Wraps     int
}

// Stats computes summary statistics over the recorded ticks.
func (r *Recorder) Stats() (Stats, error) {
	if len(r.records) == 0 {
		return Stats{}, ErrEmpty
	}
	s := Stats{
		Records:  len(r.records),
		Duration: r.records[len(r.records)-1].T - r.records[0].T,
	}
	if len(r.records) < 2 {
		return s, nil
	}

	speeds := make([]float64, 0, len(r.records)-1)
	steps := make([]float64, 0, len(r.records)-1)
	for i, rec := range r.records[1:] {
		speeds = append(speeds, rec.Speed)
		steps = append(steps, rec.Pos.Dist(r.records[i].Pos))
		if rec.Wrapped {
			s.Wraps++
		}
	}
	s.Distance = floats.Sum(steps)
	s.MeanSpeed, s.StdSpeed = stat.MeanStdDev(speeds, nil)
	s.MinSpeed = floats.Min(speeds)
	s.MaxSpeed = floats.Max(speeds)
	return s, nil
}
