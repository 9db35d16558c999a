package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trainview/internal/batch"
	"trainview/internal/camera"
	"trainview/internal/config"
	"trainview/internal/motion"
	"trainview/internal/raster"
	"trainview/internal/scene"
	"trainview/internal/session"
	"trainview/internal/surface"
	"trainview/internal/texture"
	"trainview/internal/timeutil"
	"trainview/internal/trace"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	frames := flag.Int("frames", 0, "Number of frames to simulate (default: 60)")
	fps := flag.Int("fps", 0, "Simulated frames per second (default: 30)")
	splineName := flag.String("spline", "", "Spline kind: linear, cardinal, bspline")
	camName := flag.String("camera", "", "Camera: world, top, train")
	lightName := flag.String("light", "", "Light: normal, directional, spot")
	surfaceName := flag.String("surface", "", "Surface: castle, colored, wave")
	speed := flag.Float64("speed", 0, "Speed slider 0-10 (default: 2)")
	fixed := flag.Bool("fixed", false, "Use fixed-duration pacing instead of arc length")
	size := flag.Int("size", 0, "Output frame size in pixels (default: 512)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	textureDir := flag.String("textures", "", "Directory with castle/ground images")
	tracePath := flag.String("trace", "", "Write a trainU/speed plot (PNG) to this path")
	planPath := flag.String("plan", "", "Write a track plan (HTML) to this path")
	sheet := flag.Bool("sheet", false, "Write sheet.webp with every frame")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		Spline:        *splineName,
		Surface:       *surfaceName,
		Light:         *lightName,
		Camera:        *camName,
		TextureDir:    *textureDir,
		OutputDir:     *outputDir,
		SliderSpeed:   *speed,
		Frames:        *frames,
		FPS:           *fps,
		Size:          *size,
		Workers:       *workers,
		FixedDuration: *fixed,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}
	kind, surf, light, cam, _ := cfg.Enums()

	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	clock := timeutil.NewMockClock(time.Unix(0, 0))
	sess := session.New(cfg.Track(), kind, cfg.GeometryOptions(), clock)
	in := motion.Input{
		Direction:       1,
		Running:         true,
		SliderSpeed:     cfg.SliderSpeed,
		ArcLengthPacing: cfg.ArcLengthPacing(),
	}

	var rec trace.Recorder
	snaps := batch.Simulate(sess, clock, in, cfg.Frames, cfg.FPS, &rec)

	fmt.Printf("Train track renderer → WebP (%s, %s camera)\n", kind, cam)
	fmt.Printf("Points: %d, Sleepers: %d, Frames: %d @ %d fps, Workers: %d\n",
		len(cfg.Track().Points), sess.SleeperCount(), len(snaps), cfg.FPS, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		Scene: scene.Options{
			Camera:    cam,
			Surface:   surf,
			Water:     surface.DefaultWater(),
			Shadows:   true,
			Headlight: light == raster.LightSpot,
			// The normal rig leaves the floor unlit.
			UnlitGround: light == raster.LightNormal,
		},
		Orbit:       camera.DefaultOrbit(),
		Light:       raster.NewLightConfig(light),
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		KeepFrames:  *sheet,
	}

	results := batch.Run(batchCfg, snaps)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(snaps))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Index, e.Error)
		}
	}

	manifest := batch.NewManifest(batch.Manifest{
		Spline:    kind.String(),
		Camera:    cam.String(),
		Surface:   surf.String(),
		Light:     light.String(),
		FPS:       cfg.FPS,
		ArcLength: cfg.ArcLengthPacing(),
	}, snaps, results)
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s (run %s)\n", manifestPath, manifest.RunID)
	}

	if *sheet {
		sheetPath := filepath.Join(cfg.OutputDir, "sheet.webp")
		if err := batch.SaveSheet(sheetPath, results, 8, 128); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: contact sheet failed: %v\n", err)
		} else {
			fmt.Printf("Contact sheet: %s\n", sheetPath)
		}
	}

	if *tracePath != "" {
		if err := rec.SavePlot(*tracePath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: trace plot failed: %v\n", err)
		} else if st, err := rec.Stats(); err == nil {
			fmt.Printf("Trace: %s (distance %.1f, mean speed %.2f ± %.2f, wraps %d)\n",
				*tracePath, st.Distance, st.MeanSpeed, st.StdSpeed, st.Wraps)
		}
	}

	if *planPath != "" {
		if err := trace.SaveTrackPlan(*planPath, sess.Track().Points, sess.SleeperSamples(), rec.Path()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: track plan failed: %v\n", err)
		} else {
			fmt.Printf("Track plan: %s\n", *planPath)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
