package trace

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	colorTrainU = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorSpeed  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// SavePlot writes a PNG with trainU and speed against time, stacked.
func (r *Recorder) SavePlot(path string) error {
	if len(r.records) == 0 {
		return ErrEmpty
	}

	pU := plot.New()
	pU.Title.Text = "Train parameter"
	pU.X.Label.Text = "Time (s)"
	pU.Y.Label.Text = "trainU (samples)"

	pS := plot.New()
	pS.Title.Text = "Train speed"
	pS.X.Label.Text = "Time (s)"
	pS.Y.Label.Text = "Speed (units/s)"

	uPts := make(plotter.XYs, 0, len(r.records))
	sPts := make(plotter.XYs, 0, len(r.records))
	for i, rec := range r.records {
		uPts = append(uPts, plotter.XY{X: rec.T, Y: rec.TrainU})
		if i > 0 {
			sPts = append(sPts, plotter.XY{X: rec.T, Y: rec.Speed})
		}
	}

	uLine, err := plotter.NewScatter(uPts)
	if err != nil {
		return fmt.Errorf("trace: trainU series: %w", err)
	}
	uLine.Color = colorTrainU
	uLine.Radius = vg.Points(1.5)
	pU.Add(uLine, plotter.NewGrid())

	if len(sPts) > 0 {
		sLine, err := plotter.NewLine(sPts)
		if err != nil {
			return fmt.Errorf("trace: speed series: %w", err)
		}
		sLine.Color = colorSpeed
		sLine.Width = vg.Points(1)
		pS.Add(sLine, plotter.NewGrid())
	}

	const w, h = 10 * vg.Inch, 8 * vg.Inch
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadX: vg.Millimeter, PadY: 4 * vg.Millimeter, PadTop: 2 * vg.Millimeter, PadBottom: 2 * vg.Millimeter, PadLeft: 2 * vg.Millimeter, PadRight: 2 * vg.Millimeter}
	canvases := plot.Align([][]*plot.Plot{{pU}, {pS}}, tiles, dc)
	pU.Draw(canvases[0][0])
	pS.Draw(canvases[1][0])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trace: create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("trace: write %s: %w", path, err)
	}
	return nil
}
