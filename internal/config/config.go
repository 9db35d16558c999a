// Package config loads the JSON run settings shared by the render, inspect
// and viewer binaries.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"trainview/internal/camera"
	"trainview/internal/geometry"
	"trainview/internal/raster"
	"trainview/internal/spline"
	"trainview/internal/surface"
	"trainview/internal/track"
)

// MaxSliderSpeed bounds the speed slider.
const MaxSliderSpeed = 10.0

// Config holds track, simulation and render settings.
type Config struct {
	// Track
	Points          []track.ControlPoint `json:"points"`
	Spline          string               `json:"spline"`
	StepsPerSegment int                  `json:"steps_per_segment"`
	SleeperSpacing  float64              `json:"sleeper_spacing"`
	TrackHalfWidth  float64              `json:"track_half_width"`

	// Motion
	SliderSpeed float64 `json:"slider_speed"`
	ArcLength   *bool   `json:"arc_length"`
	Frames      int     `json:"frames"`
	FPS         int     `json:"fps"`

	// Scene
	Surface    string `json:"surface"`
	Light      string `json:"light"`
	Camera     string `json:"camera"`
	TextureDir string `json:"texture_dir"`

	// Output
	OutputDir   string `json:"output_dir"`
	RenderSize  int    `json:"render_size"`
	Supersample int    `json:"supersample"`
	WebPQuality int    `json:"webp_quality"`
	Workers     int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Spline      string
	Surface     string
	Light       string
	Camera      string
	TextureDir  string
	OutputDir   string
	SliderSpeed float64
	Frames      int
	FPS         int
	Size        int
	Quality     int
	Workers     int
	// FixedDuration forces fixed-duration pacing when set.
	FixedDuration bool
}

// Resolve applies non-zero CLI flags over the file values, then fills any
// remaining zero fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Spline != "" {
		c.Spline = flags.Spline
	}
	if flags.Surface != "" {
		c.Surface = flags.Surface
	}
	if flags.Light != "" {
		c.Light = flags.Light
	}
	if flags.Camera != "" {
		c.Camera = flags.Camera
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.SliderSpeed > 0 {
		c.SliderSpeed = flags.SliderSpeed
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FixedDuration {
		off := false
		c.ArcLength = &off
	}

	d := geometry.DefaultOptions()
	if c.Spline == "" {
		c.Spline = spline.Cardinal.String()
	}
	if c.StepsPerSegment <= 0 {
		c.StepsPerSegment = d.StepsPerSegment
	}
	if c.SleeperSpacing <= 0 {
		c.SleeperSpacing = d.SleeperSpacing
	}
	if c.TrackHalfWidth <= 0 {
		c.TrackHalfWidth = d.TrackHalfWidth
	}
	if c.SliderSpeed <= 0 {
		c.SliderSpeed = 2
	}
	if c.SliderSpeed > MaxSliderSpeed {
		c.SliderSpeed = MaxSliderSpeed
	}
	if c.ArcLength == nil {
		on := true
		c.ArcLength = &on
	}
	if c.Frames <= 0 {
		c.Frames = 60
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Surface == "" {
		c.Surface = surface.Castle.String()
	}
	if c.Light == "" {
		c.Light = raster.LightNormal.String()
	}
	if c.Camera == "" {
		c.Camera = camera.World.String()
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate reports every unknown enum name and out-of-range value.
func (c Config) Validate() error {
	var errs []error
	if _, err := spline.ParseKind(c.Spline); err != nil {
		errs = append(errs, err)
	}
	if _, err := surface.ParseKind(c.Surface); err != nil {
		errs = append(errs, err)
	}
	if _, err := raster.ParseLightMode(c.Light); err != nil {
		errs = append(errs, err)
	}
	if _, err := camera.ParseMode(c.Camera); err != nil {
		errs = append(errs, err)
	}
	if c.WebPQuality > 100 {
		errs = append(errs, fmt.Errorf("config: webp_quality %d out of range 1..100", c.WebPQuality))
	}
	if len(c.Points) > 0 && len(c.Points) < 2 {
		errs = append(errs, fmt.Errorf("config: points: need at least 2, got %d", len(c.Points)))
	}
	return errors.Join(errs...)
}

// Track returns the configured control points, or the default layout when
// the file has none.
func (c Config) Track() *track.Track {
	if len(c.Points) == 0 {
		return track.NewDefault()
	}
	t := &track.Track{Points: make([]track.ControlPoint, len(c.Points))}
	copy(t.Points, c.Points)
	return t
}

// GeometryOptions returns the track dimensions.
func (c Config) GeometryOptions() geometry.Options {
	o := geometry.DefaultOptions()
	o.StepsPerSegment = c.StepsPerSegment
	o.SleeperSpacing = c.SleeperSpacing
	o.TrackHalfWidth = c.TrackHalfWidth
	return o
}

// ArcLengthPacing reports whether train speed is paced by arc length.
// Unresolved configs default to true.
func (c Config) ArcLengthPacing() bool {
	return c.ArcLength == nil || *c.ArcLength
}

// Enums parses the enum fields. Call Validate first for a combined report.
func (c Config) Enums() (spline.Kind, surface.Kind, raster.LightMode, camera.Mode, error) {
	k, err := spline.ParseKind(c.Spline)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	s, err := surface.ParseKind(c.Surface)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	l, err := raster.ParseLightMode(c.Light)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	m, err := camera.ParseMode(c.Camera)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return k, s, l, m, nil
}
