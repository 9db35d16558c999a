package main

import (
	"flag"
	"fmt"
	"os"

	"trainview/internal/config"
	"trainview/internal/monitoring"
	"trainview/internal/motion"
	"trainview/internal/session"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	splineName := flag.String("spline", "", "Spline kind: linear, cardinal, bspline")
	trainU := flag.Float64("u", 0, "Train parameter to place the train at")
	ticks := flag.Int("ticks", 0, "Advance this many frame ticks before printing")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{Spline: *splineName})
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	kind, _, _, _, _ := cfg.Enums()
	monitoring.SetLogger(nil)

	tr := cfg.Track()
	tr.TrainU = *trainU
	s := session.New(tr, kind, cfg.GeometryOptions(), nil)
	in := motion.Input{Direction: 1, SliderSpeed: cfg.SliderSpeed, ArcLengthPacing: cfg.ArcLengthPacing()}
	for i := 0; i < *ticks; i++ {
		s.Tick(in)
	}
	snap := s.Snapshot()

	g := snap.Geometry
	fmt.Printf("Spline: %s, Points: %d, Rails: %d, Sleepers: %d\n", kind, len(snap.Points), len(g.Rails), len(g.Sleepers))

	m := s.Metrics()
	fmt.Printf("Average: %.2f samples, %.2f length per segment\n", m.AvgSamples, m.AvgArcLength)
	for i := 0; i < m.Segments(); i++ {
		p := snap.Points[i].Pos
		fmt.Printf("  Segment[%d]: from (%.1f, %.1f, %.1f) samples=%.0f length=%.2f\n",
			i, p[0], p[1], p[2], m.SampleCounts[i], m.ArcLengths[i])
	}

	f := snap.Train
	fmt.Printf("Train: u=%.3f segment=%d\n", snap.TrainU, snap.Segment())
	fmt.Printf("  Pos:     (%.2f, %.2f, %.2f)\n", f.Pos[0], f.Pos[1], f.Pos[2])
	fmt.Printf("  Contact: (%.2f, %.2f, %.2f)\n", f.Contact[0], f.Contact[1], f.Contact[2])
	fmt.Printf("  Forward: (%.3f, %.3f, %.3f)\n", f.Forward[0], f.Forward[1], f.Forward[2])
	fmt.Printf("  Up:      (%.3f, %.3f, %.3f)\n", f.Up[0], f.Up[1], f.Up[2])
	fmt.Printf("  Right:   (%.3f, %.3f, %.3f)\n", f.Right[0], f.Right[1], f.Right[2])
	if *ticks > 0 {
		st := snap.Step
		fmt.Printf("Last step: dt=%.4f rate=%.3f delta=%.4f maxU=%.0f\n", st.DT, st.Rate, st.Delta, st.MaxU)
	}
}
