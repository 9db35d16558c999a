// Package scene turns a session snapshot into world-space triangles: ground,
// surface, rails, sleepers, control points, the train and their shadows.
package scene

import (
	"image/color"

	"trainview/internal/camera"
	"trainview/internal/geometry"
	"trainview/internal/mathutil"
	"trainview/internal/placement"
	"trainview/internal/session"
	"trainview/internal/surface"
	"trainview/internal/track"
)

// Blend selects how a triangle is composited.
type Blend int

const (
	// Opaque triangles are depth tested and written.
	Opaque Blend = iota
	// Shadow triangles darken what is already drawn, once per pixel.
	Shadow
	// Glow triangles add light without touching depth.
	Glow
)

// Triangle is one world-space triangle with per-vertex colour and UVs.
// Texture names are resolved by the renderer; empty means colour only.
type Triangle struct {
	V       [3]mathutil.Vec3
	UV      [3][2]float64
	Color   [3]color.NRGBA
	Texture string
	Unlit   bool
	Blend   Blend
}

// Normal returns the unit face normal, or zero for a degenerate triangle.
func (t Triangle) Normal() mathutil.Vec3 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])).Normalize()
}

// Centroid returns the mean of the three vertices.
func (t Triangle) Centroid() mathutil.Vec3 {
	return t.V[0].Add(t.V[1]).Add(t.V[2]).Scale(1.0 / 3)
}

var (
	ColorRail      = color.NRGBA{60, 60, 70, 255}
	ColorSleeper   = color.NRGBA{120, 80, 40, 255}
	ColorPoint     = color.NRGBA{240, 60, 60, 255}
	ColorSelected  = color.NRGBA{240, 240, 30, 255}
	ColorTrain     = color.NRGBA{255, 255, 255, 255}
	ColorGroundA   = color.NRGBA{200, 200, 200, 255}
	ColorGroundB   = color.NRGBA{150, 150, 150, 255}
	ColorShadow    = color.NRGBA{0, 0, 0, 255}
	ColorHeadlight = color.NRGBA{255, 230, 140, 255}
)

const (
	GroundSize     = 200.0
	GroundTiles    = 10
	PointHalfSize  = 2.0
	RailHalfWidth  = 0.3
	railLift       = 0.15
	sleeperLift    = 0.05
	shadowLift     = 0.05
	SurfaceScale   = 10.0
	headlightReach = 8.0
)

// SurfaceOffset is where the surface mesh is centred.
var SurfaceOffset = mathutil.Vec3{0, 10, 0}

// ShadowLight is the direction towards the light that casts shadows.
var ShadowLight = mathutil.Vec3{0, 1, 1}.Normalize()

// Options controls what Build emits.
type Options struct {
	Camera      camera.Mode
	Surface     surface.Kind
	Water       surface.Water
	Shadows     bool
	UnlitGround bool
	Headlight   bool
}

// Build emits every triangle for one frame. Control points and the train
// are hidden from the train camera; shadows are skipped from the top.
func Build(snap session.Snapshot, opts Options) []Triangle {
	var tris []Triangle
	tris = append(tris, Ground(opts.UnlitGround)...)

	mesh := surface.Build(opts.Surface, opts.Water, snap.Time.Seconds())
	tris = append(tris, FromMesh(mesh.Transform(SurfaceScale, SurfaceOffset))...)

	var casters []Triangle
	tris = append(tris, Rails(snap.Geometry.Rails)...)
	sleepers := Sleepers(snap.Geometry.Sleepers)
	tris = append(tris, sleepers...)
	casters = append(casters, sleepers...)

	if opts.Camera != camera.Train {
		points := ControlPoints(snap.Points, snap.Selected)
		tris = append(tris, points...)
		casters = append(casters, points...)

		if len(snap.Geometry.Samples) > 0 {
			train := Train(snap.Train)
			tris = append(tris, train...)
			casters = append(casters, train...)
			if opts.Headlight {
				tris = append(tris, Headlight(snap.Train)...)
			}
		}
	}

	if opts.Shadows && opts.Camera != camera.Top {
		tris = append(tris, Shadows(casters, ShadowLight, 0)...)
	}
	return tris
}

func flat(a, b, c mathutil.Vec3, col color.NRGBA) Triangle {
	return Triangle{V: [3]mathutil.Vec3{a, b, c}, Color: [3]color.NRGBA{col, col, col}}
}

// quad splits a-b-c-d into two triangles.
func quad(a, b, c, d mathutil.Vec3, col color.NRGBA) []Triangle {
	return []Triangle{flat(a, b, c, col), flat(a, c, d, col)}
}

// Ground is the checkerboard floor at y = 0.
func Ground(unlit bool) []Triangle {
	tile := GroundSize / GroundTiles
	half := GroundSize / 2
	tris := make([]Triangle, 0, GroundTiles*GroundTiles*2)
	for j := 0; j < GroundTiles; j++ {
		for i := 0; i < GroundTiles; i++ {
			col := ColorGroundA
			if (i+j)%2 == 1 {
				col = ColorGroundB
			}
			x0 := -half + float64(i)*tile
			z0 := -half + float64(j)*tile
			for _, t := range quad(
				mathutil.Vec3{x0, 0, z0},
				mathutil.Vec3{x0, 0, z0 + tile},
				mathutil.Vec3{x0 + tile, 0, z0 + tile},
				mathutil.Vec3{x0 + tile, 0, z0},
				col,
			) {
				t.Unlit = unlit
				tris = append(tris, t)
			}
		}
	}
	return tris
}

// FromMesh converts an indexed surface mesh.
func FromMesh(m surface.Mesh) []Triangle {
	tris := make([]Triangle, 0, m.Triangles())
	for k := 0; k+2 < len(m.Indices); k += 3 {
		var t Triangle
		for c := 0; c < 3; c++ {
			v := m.Vertices[m.Indices[k+c]]
			t.V[c] = v.Pos
			t.UV[c] = v.UV
			t.Color[c] = v.Color
		}
		t.Texture = m.Texture
		tris = append(tris, t)
	}
	return tris
}

// Rails widens each rail line into a thin flat strip.
func Rails(lines []geometry.RailLine) []Triangle {
	lift := mathutil.WorldUp.Scale(railLift)
	tris := make([]Triangle, 0, len(lines)*2)
	for _, l := range lines {
		dir := l.B.Sub(l.A)
		side := geometry.RailOffset(dir.Normalize(), mathutil.WorldUp, RailHalfWidth)
		a := l.A.Add(lift)
		b := l.B.Add(lift)
		tris = append(tris, quad(a.Sub(side), a.Add(side), b.Add(side), b.Sub(side), ColorRail)...)
	}
	return tris
}

// Sleepers draws each sleeper quad slightly above the curve.
func Sleepers(quads []geometry.SleeperQuad) []Triangle {
	tris := make([]Triangle, 0, len(quads)*2)
	for _, q := range quads {
		lift := q.Up.Scale(sleeperLift)
		c := q.Corners
		tris = append(tris, quad(c[0].Add(lift), c[1].Add(lift), c[2].Add(lift), c[3].Add(lift), ColorSleeper)...)
	}
	return tris
}

// box emits the six faces of a cube given its eight corners, bottom face
// first in the order placement.Frame.Corners uses.
func box(c [8]mathutil.Vec3, col color.NRGBA) []Triangle {
	faces := [6][4]int{
		{0, 1, 2, 3}, // bottom
		{4, 7, 6, 5}, // top
		{0, 3, 7, 4}, // left
		{1, 5, 6, 2}, // right
		{0, 4, 5, 1}, // back
		{3, 2, 6, 7}, // front
	}
	tris := make([]Triangle, 0, 12)
	for _, f := range faces {
		tris = append(tris, quad(c[f[0]], c[f[1]], c[f[2]], c[f[3]], col)...)
	}
	return tris
}

// ControlPoints draws a small cube at each point, rolled to its
// orientation. The selected point is yellow.
func ControlPoints(points []track.ControlPoint, selected int) []Triangle {
	tris := make([]Triangle, 0, len(points)*12)
	for i, p := range points {
		f := placement.Orthonormalize(mathutil.WorldZ, p.Orient)
		f.Pos = p.Pos
		col := ColorPoint
		if i == selected {
			col = ColorSelected
		}
		h := PointHalfSize
		tris = append(tris, box([8]mathutil.Vec3{
			f.Point(-h, -h, -h), f.Point(h, -h, -h), f.Point(h, -h, h), f.Point(-h, -h, h),
			f.Point(-h, h, -h), f.Point(h, h, -h), f.Point(h, h, h), f.Point(-h, h, h),
		}, col)...)
	}
	return tris
}

// Train draws the train cube.
func Train(f placement.Frame) []Triangle {
	return box(f.Corners(), ColorTrain)
}

// Headlight is an additive wedge on the track ahead of the train.
func Headlight(f placement.Frame) []Triangle {
	h := placement.HalfSize
	front := f.Point(0, -h+0.1, h)
	far := front.Add(f.Forward.Scale(headlightReach))
	spread := f.Right.Scale(h)
	t := flat(front, far.Add(spread), far.Sub(spread), ColorHeadlight)
	t.Blend = Glow
	t.Unlit = true
	return []Triangle{t}
}

// Shadows flattens casters onto the plane y = groundY along light, the
// direction towards the light.
func Shadows(casters []Triangle, light mathutil.Vec3, groundY float64) []Triangle {
	if light[1] <= 1e-6 {
		return nil
	}
	y := groundY + shadowLift
	tris := make([]Triangle, 0, len(casters))
	for _, c := range casters {
		var t Triangle
		for k, v := range c.V {
			t.V[k] = v.Sub(light.Scale((v[1] - y) / light[1]))
			t.Color[k] = ColorShadow
		}
		t.Unlit = true
		t.Blend = Shadow
		tris = append(tris, t)
	}
	return tris
}
