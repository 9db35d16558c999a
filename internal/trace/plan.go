package trace

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"trainview/internal/mathutil"
	"trainview/internal/spline"
	"trainview/internal/track"
)

// WriteTrackPlan renders a top-down HTML scatter of control points, sleeper
// samples and an optional train path. X is world x, Y is world z.
func WriteTrackPlan(w io.Writer, points []track.ControlPoint, samples []spline.Sample, path []mathutil.Vec3) error {
	pad := 10.0
	grow := func(v mathutil.Vec3) {
		pad = math.Max(pad, math.Max(math.Abs(v[0]), math.Abs(v[2]))+10)
	}

	cps := make([]opts.ScatterData, 0, len(points))
	for i, p := range points {
		grow(p.Pos)
		cps = append(cps, opts.ScatterData{Name: fmt.Sprintf("point %d", i), Value: []interface{}{p.Pos[0], p.Pos[2]}})
	}
	sleepers := make([]opts.ScatterData, 0, len(samples))
	for i, s := range samples {
		grow(s.Pos)
		sleepers = append(sleepers, opts.ScatterData{Name: fmt.Sprintf("sleeper %d", i), Value: []interface{}{s.Pos[0], s.Pos[2]}})
	}
	trail := make([]opts.ScatterData, 0, len(path))
	for _, p := range path {
		grow(p)
		trail = append(trail, opts.ScatterData{Value: []interface{}{p[0], p[2]}})
	}
	pad = math.Ceil(pad)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Track plan", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Track plan", Subtitle: fmt.Sprintf("points=%d sleepers=%d", len(points), len(samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Z", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("sleepers", sleepers, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	scatter.AddSeries("control points", cps, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	if len(trail) > 0 {
		scatter.AddSeries("train", trail, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("trace: render plan: %w", err)
	}
	return nil
}

// SaveTrackPlan writes WriteTrackPlan's output to path.
func SaveTrackPlan(path string, points []track.ControlPoint, samples []spline.Sample, trail []mathutil.Vec3) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trace: create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTrackPlan(f, points, samples, trail)
}
