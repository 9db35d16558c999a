// Package batch renders simulated session snapshots to WebP frames on a
// worker pool.
package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"trainview/internal/camera"
	"trainview/internal/monitoring"
	"trainview/internal/postprocess"
	"trainview/internal/raster"
	"trainview/internal/scene"
	"trainview/internal/session"
	"trainview/internal/texture"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	TexResolver texture.Resolver
	Scene       scene.Options
	Orbit       camera.Orbit
	Light       raster.LightConfig
	RenderSize  int
	Supersample int
	Workers     int
	// KeepFrames retains each downsampled frame in its Result.
	KeepFrames bool
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index   int
	Image   string // relative to OutputDir
	Success bool
	Error   string
	Frame   *image.NRGBA
}

// FrameName is the output path of frame i relative to OutputDir.
func FrameName(i int) string {
	return filepath.Join("frames", fmt.Sprintf("%04d.webp", i))
}

// Run renders all snapshots using a worker pool.
func Run(cfg Config, snaps []session.Snapshot) []Result {
	total := len(snaps)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					monitoring.Logf("batch: [%d/%d] %.1f frames/sec", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = processFrame(cfg, snaps[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range snaps {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

// RenderFrame draws one snapshot at the configured output size. A zero
// Orbit uses camera.DefaultOrbit.
func RenderFrame(cfg Config, snap session.Snapshot) *image.NRGBA {
	orbit := cfg.Orbit
	if orbit == (camera.Orbit{}) {
		orbit = camera.DefaultOrbit()
	}
	tris := scene.Build(snap, cfg.Scene)
	cam := camera.For(cfg.Scene.Camera, orbit, snap.Train)
	img := raster.Render(tris, cam, cfg.TexResolver, raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Light:       cfg.Light,
	})
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize, cfg.RenderSize)
	}
	return img
}

func processFrame(cfg Config, snap session.Snapshot) Result {
	res := Result{Index: snap.Index, Image: FrameName(snap.Index)}

	img := RenderFrame(cfg, snap)
	if cfg.KeepFrames {
		res.Frame = img
	}

	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := writeWebP(outPath, img); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	return nil
}

// SaveSheet writes a WebP contact sheet of the retained frames.
func SaveSheet(path string, results []Result, cols, thumb int) error {
	frames := make([]*image.NRGBA, len(results))
	for i, r := range results {
		frames[i] = r.Frame
	}
	sheet := postprocess.ContactSheet(frames, cols, thumb, 2)
	if sheet.Bounds().Empty() {
		return fmt.Errorf("batch: no frames for contact sheet")
	}
	return writeWebP(path, sheet)
}
