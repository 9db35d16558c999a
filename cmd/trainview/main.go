package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"trainview/internal/config"
	"trainview/internal/motion"
	"trainview/internal/session"
	"trainview/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	splineName := flag.String("spline", "", "Spline kind: linear, cardinal, bspline")
	size := flag.Int("size", 0, "Viewport size in pixels (default: 512)")
	textureDir := flag.String("textures", "", "Directory with castle/ground images")
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
	cfg.Resolve(config.Flags{Spline: *splineName, Size: *size, TextureDir: *textureDir})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}
	kind, surf, light, cam, _ := cfg.Enums()

	g := newGame(
		session.New(cfg.Track(), kind, cfg.GeometryOptions(), nil),
		texture.NewCache(texture.BuildIndex(cfg.TextureDir)),
		cfg.RenderSize,
	)
	g.surface = surf
	g.light = light
	g.mode = cam
	g.input.SliderSpeed = cfg.SliderSpeed
	g.input.ArcLengthPacing = cfg.ArcLengthPacing()

	ebiten.SetWindowTitle("trainview")
	ebiten.SetWindowSize(cfg.RenderSize, cfg.RenderSize)
	ebiten.SetTPS(motion.UpdatesPerSecond)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
