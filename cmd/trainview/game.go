package main

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"trainview/internal/camera"
	"trainview/internal/config"
	"trainview/internal/motion"
	"trainview/internal/raster"
	"trainview/internal/scene"
	"trainview/internal/session"
	"trainview/internal/spline"
	"trainview/internal/surface"
	"trainview/internal/texture"
	"trainview/internal/track"
)

const (
	sliderStep = 0.25
	dragScale  = 0.4 // degrees per pixel
	wheelZoom  = 0.9
)

type game struct {
	sess    *session.Session
	tex     texture.Resolver
	size    int
	running bool
	input   motion.Input

	mode    camera.Mode
	orbit   camera.Orbit
	light   raster.LightMode
	surface surface.Kind
	water   surface.Water

	dragging     bool
	lastX, lastY int

	fbImg *ebiten.Image
}

func newGame(s *session.Session, tex texture.Resolver, size int) *game {
	return &game{
		sess:  s,
		tex:   tex,
		size:  size,
		orbit: camera.DefaultOrbit(),
		water: surface.DefaultWater(),
		input: motion.Input{SliderSpeed: 2, ArcLengthPacing: true},
	}
}

func (g *game) Update() error {
	g.handleKeys()
	g.handleMouse()

	in := g.input
	in.Running = g.running
	in.Direction = 0
	if g.running {
		in.Direction = 1
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		in.Direction, in.Running = 1, false
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		in.Direction, in.Running = -1, false
	}
	g.sess.Tick(in)
	return nil
}

func (g *game) handleKeys() {
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	rollDir := 1.0
	if shift {
		rollDir = -1
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.running = !g.running
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		g.sess.SetKind(spline.Linear)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		g.sess.SetKind(spline.Cardinal)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		g.sess.SetKind(spline.BSpline)
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.input.ArcLengthPacing = !g.input.ArcLengthPacing
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		g.input.SliderSpeed = math.Min(g.input.SliderSpeed+sliderStep, config.MaxSliderSpeed)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		g.input.SliderSpeed = math.Max(g.input.SliderSpeed-sliderStep, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.mode = g.mode.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.light = g.light.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.surface = g.surface.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.sess.AddPoint()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.sess.DeletePoint()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.sess.SelectNext()
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.sess.Roll(track.AxisX, rollDir)
	case inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.sess.Roll(track.AxisZ, rollDir)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.sess.Reset()
		g.orbit = camera.DefaultOrbit()
	}
}

func (g *game) handleMouse() {
	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.orbit = g.orbit.Rotate(float64(x-g.lastX)*dragScale, float64(y-g.lastY)*dragScale)
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastX, g.lastY = x, y

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.orbit = g.orbit.Zoom(math.Pow(wheelZoom, dy))
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	snap := g.sess.Snapshot()
	tris := scene.Build(snap, scene.Options{
		Camera:      g.mode,
		Surface:     g.surface,
		Water:       g.water,
		Shadows:     true,
		UnlitGround: g.light == raster.LightNormal,
		Headlight:   g.light == raster.LightSpot,
	})
	img := raster.Render(tris, camera.For(g.mode, g.orbit, snap.Train), g.tex, raster.Options{
		Size:        g.size,
		Supersample: 1,
		Light:       raster.NewLightConfig(g.light),
	})

	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(g.size, g.size)
	}
	g.fbImg.WritePixels(img.Pix)
	screen.DrawImage(g.fbImg, nil)

	pacing := "arc length"
	if !g.input.ArcLengthPacing {
		pacing = "fixed"
	}
	state := "stopped"
	if g.running {
		state = "running"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s | %s | camera %s | light %s | surface %s\nspeed %.2f (%s) | u %.2f seg %d | sleepers %d | point %d/%d",
		state, snap.Kind, g.mode, g.light, g.surface,
		g.input.SliderSpeed, pacing, snap.TrainU, snap.Segment(), len(snap.Geometry.Sleepers),
		snap.Selected+1, len(snap.Points),
	))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size, g.size
}
