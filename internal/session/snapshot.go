package session

import (
	"slices"
	"time"

	"trainview/internal/geometry"
	"trainview/internal/motion"
	"trainview/internal/placement"
	"trainview/internal/spline"
	"trainview/internal/track"
)

// Snapshot is an immutable copy of what a renderer needs for one frame. It
// is safe to hand to another goroutine while the session keeps ticking.
type Snapshot struct {
	Index    int
	Time     time.Duration
	Points   []track.ControlPoint
	Selected int
	Kind     spline.Kind
	Geometry geometry.Geometry
	TrainU   float64
	Train    placement.Frame
	Step     motion.Step
}

// Snapshot captures the current state, re-placing the train in case the
// track was edited since the last tick. Geometry slices are shared because
// the session replaces them instead of editing them.
func (s *Session) Snapshot() Snapshot {
	s.refresh()
	s.place()
	return Snapshot{
		Time:     s.Elapsed(),
		Points:   slices.Clone(s.track.Points),
		Selected: s.selected,
		Kind:     s.kind,
		Geometry: s.geom,
		TrainU:   s.track.TrainU,
		Train:    s.train,
		Step:     s.last,
	}
}

// Segment returns the control-point segment the train was on.
func (sn Snapshot) Segment() int {
	return motion.SegmentIndex(sn.TrainU, sn.Geometry.Samples, len(sn.Points))
}
