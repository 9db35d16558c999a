package batch

import (
	"time"

	"trainview/internal/motion"
	"trainview/internal/session"
	"trainview/internal/timeutil"
	"trainview/internal/trace"
)

// Simulate ticks s frames times, advancing clock by one frame period before
// each tick, and returns one snapshot per tick. s must have been built on
// clock. rec may be nil.
func Simulate(s *session.Session, clock *timeutil.MockClock, in motion.Input, frames, fps int, rec *trace.Recorder) []session.Snapshot {
	if frames <= 0 {
		return nil
	}
	if fps <= 0 {
		fps = motion.UpdatesPerSecond
	}
	period := time.Second / time.Duration(fps)

	snaps := make([]session.Snapshot, 0, frames)
	for i := 0; i < frames; i++ {
		clock.Advance(period)
		s.Tick(in)
		snap := s.Snapshot()
		snap.Index = i
		if rec != nil {
			rec.Record(snap.Time, snap.Step, snap.Train)
		}
		snaps = append(snaps, snap)
	}
	return snaps
}
