// Package session owns one track together with everything derived from it:
// generated geometry, segment metrics, the advancement model and the train
// frame. A Session is driven from a single goroutine, one Tick per frame.
package session

import (
	"slices"
	"time"

	"trainview/internal/geometry"
	"trainview/internal/monitoring"
	"trainview/internal/motion"
	"trainview/internal/placement"
	"trainview/internal/spline"
	"trainview/internal/timeutil"
	"trainview/internal/track"
)

// buildKey is everything geometry and metrics are derived from. A Session
// rebuilds both whenever the current key differs from the cached one.
type buildKey struct {
	points []track.ControlPoint
	kind   spline.Kind
	opts   geometry.Options
}

func (k buildKey) equal(o buildKey) bool {
	return k.kind == o.kind && k.opts == o.opts && slices.Equal(k.points, o.points)
}

// Session is the single owner of a track's mutable state.
type Session struct {
	track *track.Track
	kind  spline.Kind
	opts  geometry.Options

	clock   timeutil.Clock
	start   time.Time
	adv     *motion.Advancer
	geom    geometry.Geometry
	metrics motion.Metrics
	key     buildKey
	built   bool

	train    placement.Frame
	last     motion.Step
	selected int
}

// New returns a session over tr. A nil track starts from the default
// layout; a nil clock uses the real clock.
func New(tr *track.Track, kind spline.Kind, opts geometry.Options, clock timeutil.Clock) *Session {
	if tr == nil {
		tr = track.NewDefault()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	s := &Session{
		track: tr,
		kind:  kind,
		opts:  opts,
		clock: clock,
		start: clock.Now(),
		adv:   motion.NewAdvancer(clock),
	}
	s.refresh()
	s.place()
	return s
}

// Track returns the live track handle. Edits made through it are picked up
// on the next Tick or query.
func (s *Session) Track() *track.Track { return s.track }

// Kind returns the spline family used to sample the track.
func (s *Session) Kind() spline.Kind { return s.kind }

// SetKind switches the spline family. The geometry is rebuilt on the next
// Tick or query.
func (s *Session) SetKind(k spline.Kind) {
	if k == s.kind {
		return
	}
	monitoring.Logf("session: spline kind %s -> %s", s.kind, k)
	s.kind = k
}

// Options returns the current geometry options.
func (s *Session) Options() geometry.Options { return s.opts }

// SetStepsPerSegment changes the sampling density. Values below 1 are
// treated as 1 by the geometry generator.
func (s *Session) SetStepsPerSegment(n int) {
	s.opts.StepsPerSegment = n
}

// SetSleeperSpacing changes the arc length between sleepers. Non-positive
// spacings are ignored.
func (s *Session) SetSleeperSpacing(spacing float64) {
	if spacing > 0 {
		s.opts.SleeperSpacing = spacing
	}
}

// Sample evaluates the curve at u with the current kind.
func (s *Session) Sample(u float64) spline.Sample {
	return spline.At(s.track.Points, u, s.kind)
}

// SleeperCount returns the number of sleeper samples, including the single
// fallback sample of a very short track.
func (s *Session) SleeperCount() int {
	s.refresh()
	return len(s.geom.Samples)
}

// SleeperSamples returns a copy of the current sleeper samples.
func (s *Session) SleeperSamples() []spline.Sample {
	s.refresh()
	return slices.Clone(s.geom.Samples)
}

// Geometry returns the current rails and sleepers. The slices are rebuilt,
// never modified, so the value stays valid after later ticks.
func (s *Session) Geometry() geometry.Geometry {
	s.refresh()
	return s.geom
}

// Metrics returns the segment metrics for the current geometry.
func (s *Session) Metrics() motion.Metrics {
	s.refresh()
	return s.metrics
}

// Train returns the frame computed by the last Tick.
func (s *Session) Train() placement.Frame { return s.train }

// LastStep returns what the last Tick's advancement did.
func (s *Session) LastStep() motion.Step { return s.last }

// Elapsed returns the time since the session was created.
func (s *Session) Elapsed() time.Duration { return s.clock.Since(s.start) }

// Tick runs one frame: geometry and metrics are brought up to date with the
// track, the train advances, and its frame is recomputed.
func (s *Session) Tick(in motion.Input) motion.Step {
	s.refresh()
	s.last = s.adv.Advance(in, s.track, s.geom.Samples, s.metrics)
	s.place()
	return s.last
}

// Regenerate forces geometry and metrics to be rebuilt.
func (s *Session) Regenerate() {
	s.built = false
	s.refresh()
}

func (s *Session) refresh() {
	cur := buildKey{points: s.track.Points, kind: s.kind, opts: s.opts}
	if s.built && s.key.equal(cur) {
		return
	}

	prevSleepers := len(s.geom.Samples)
	prevPoints := len(s.key.points)
	s.geom = geometry.Build(s.track.Points, s.kind, s.opts)
	s.metrics = motion.Refresh(s.track.Points, s.geom.Samples, s.opts.SleeperSpacing)
	cur.points = slices.Clone(cur.points)
	s.key = cur
	s.built = true

	n := len(s.track.Points)
	switch {
	case n < 2 && (prevPoints >= 2 || prevSleepers > 0):
		monitoring.Logf("session: track has %d point(s), geometry disabled", n)
	case len(s.geom.Samples) != prevSleepers:
		monitoring.Logf("session: %d sleepers over %d points (%s)", len(s.geom.Samples), n, s.kind)
	}
}

func (s *Session) place() {
	s.train, _ = placement.Place(s.track.TrainU, s.geom.Samples)
}

// Selected returns the index of the control point targeted by edits.
func (s *Session) Selected() int { return s.selected }

// Select targets point i, wrapping over the point count.
func (s *Session) Select(i int) {
	s.selected = spline.Wrap(i, len(s.track.Points))
}

// SelectNext moves the selection to the following point.
func (s *Session) SelectNext() { s.Select(s.selected + 1) }

// AddPoint inserts a point after the selected one and selects it.
func (s *Session) AddPoint() {
	s.selected = s.track.AddPoint(s.selected)
	monitoring.Logf("session: added point %d (%d total)", s.selected, len(s.track.Points))
}

// DeletePoint removes the selected point if the track keeps enough points.
func (s *Session) DeletePoint() bool {
	if !s.track.DeletePoint(s.selected) {
		return false
	}
	s.Select(s.selected)
	return true
}

// Roll rotates the selected point's orientation.
func (s *Session) Roll(axis track.Axis, dir float64) bool {
	return s.track.RollPoint(s.selected, axis, dir)
}

// Reset restores the default track and rewinds the train.
func (s *Session) Reset() {
	s.track.Reset()
	s.selected = 0
	s.adv.Reset()
	s.refresh()
	s.place()
}
