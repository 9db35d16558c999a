package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainview/internal/camera"
	"trainview/internal/geometry"
	"trainview/internal/mathutil"
	"trainview/internal/monitoring"
	"trainview/internal/placement"
	"trainview/internal/session"
	"trainview/internal/spline"
	"trainview/internal/surface"
	"trainview/internal/timeutil"
	"trainview/internal/track"
)

func snapshot(t *testing.T) session.Snapshot {
	t.Helper()
	orig := monitoring.Logf
	t.Cleanup(func() { monitoring.Logf = orig })
	monitoring.SetLogger(nil)

	s := session.New(nil, spline.Cardinal, geometry.DefaultOptions(), timeutil.NewMockClock(time.Unix(0, 0)))
	s.Select(2)
	return s.Snapshot()
}

func count(tris []Triangle, pred func(Triangle) bool) int {
	n := 0
	for _, t := range tris {
		if pred(t) {
			n++
		}
	}
	return n
}

func TestGround(t *testing.T) {
	g := Ground(true)
	require.Len(t, g, GroundTiles*GroundTiles*2)
	for _, tr := range g {
		assert.True(t, tr.Unlit)
		for _, v := range tr.V {
			assert.Zero(t, v[1])
			assert.LessOrEqual(t, v[0], GroundSize/2)
		}
	}
	assert.NotEqual(t, g[0].Color[0], g[2].Color[0], "neighbouring tiles alternate")
	assert.False(t, Ground(false)[0].Unlit)
}

func TestFromMesh(t *testing.T) {
	m := surface.Plane().Transform(SurfaceScale, SurfaceOffset)
	tris := FromMesh(m)
	require.Len(t, tris, 2)
	assert.Equal(t, surface.CastleTexture, tris[0].Texture)
	assert.Equal(t, mathutil.Vec3{-5, 10, -5}, tris[0].V[0])
	assert.Equal(t, [2]float64{1, 1}, tris[0].UV[2])
}

func TestRails(t *testing.T) {
	lines := []geometry.RailLine{{A: mathutil.Vec3{0, 0, 0}, B: mathutil.Vec3{0, 0, 10}}}
	tris := Rails(lines)
	require.Len(t, tris, 2)
	width := tris[0].V[0].Dist(tris[0].V[1])
	assert.InDelta(t, 2*RailHalfWidth, width, 1e-9)
	assert.InDelta(t, railLift, tris[0].V[0][1], 1e-12)
	assert.Equal(t, ColorRail, tris[1].Color[2])
}

func TestSleepers(t *testing.T) {
	q := geometry.SleeperQuad{Up: mathutil.WorldUp}
	q.Corners = [4]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}
	tris := Sleepers([]geometry.SleeperQuad{q})
	require.Len(t, tris, 2)
	assert.InDelta(t, sleeperLift, tris[0].V[0][1], 1e-12)
	assert.Equal(t, ColorSleeper, tris[0].Color[0])
}

func TestControlPoints(t *testing.T) {
	tr := track.NewDefault()
	tris := ControlPoints(tr.Points, 1)
	require.Len(t, tris, 4*12)
	assert.Equal(t, 12, count(tris, func(t Triangle) bool { return t.Color[0] == ColorSelected }))
	for _, tri := range tris[:12] {
		for _, v := range tri.V {
			assert.InDelta(t, PointHalfSize*1.7320508, v.Dist(tr.Points[0].Pos), 1e-6)
		}
	}
}

func TestTrainAndHeadlight(t *testing.T) {
	f := placement.Orthonormalize(mathutil.WorldX, mathutil.WorldUp)
	f.Pos = mathutil.Vec3{0, 3, 0}
	body := Train(f)
	require.Len(t, body, 12)
	for _, tri := range body {
		assert.InDelta(t, 1, tri.Normal().Len(), 1e-9)
	}

	glow := Headlight(f)
	require.Len(t, glow, 1)
	assert.Equal(t, Glow, glow[0].Blend)
	assert.Greater(t, glow[0].Centroid()[0], placement.HalfSize)
}

func TestShadows(t *testing.T) {
	caster := flat(mathutil.Vec3{0, 10, 0}, mathutil.Vec3{1, 10, 0}, mathutil.Vec3{0, 12, 1}, ColorTrain)
	light := mathutil.Vec3{0, 1, 1}.Normalize()
	sh := Shadows([]Triangle{caster}, light, 0)
	require.Len(t, sh, 1)
	assert.Equal(t, Shadow, sh[0].Blend)
	for _, v := range sh[0].V {
		assert.InDelta(t, shadowLift, v[1], 1e-12)
	}
	// y drops by 10 - lift, so z moves back by the same amount.
	assert.InDelta(t, -(10 - shadowLift), sh[0].V[0][2], 1e-9)

	assert.Nil(t, Shadows([]Triangle{caster}, mathutil.WorldX, 0))
}

func TestBuild(t *testing.T) {
	snap := snapshot(t)
	world := Build(snap, Options{Camera: camera.World, Surface: surface.Castle, Water: surface.DefaultWater(), Shadows: true, Headlight: true})

	nPoints := len(snap.Points) * 12
	nSleepers := len(snap.Geometry.Sleepers) * 2
	assert.Equal(t, 12, count(world, func(t Triangle) bool { return t.Color[0] == ColorSelected }))
	assert.Equal(t, nPoints+nSleepers+12, count(world, func(t Triangle) bool { return t.Blend == Shadow }))
	assert.Equal(t, 1, count(world, func(t Triangle) bool { return t.Blend == Glow }))
	assert.Equal(t, 2, count(world, func(t Triangle) bool { return t.Texture == surface.CastleTexture }))

	driver := Build(snap, Options{Camera: camera.Train, Surface: surface.ColoredCastle, Shadows: true, Headlight: true})
	assert.Zero(t, count(driver, func(t Triangle) bool { return t.Color[0] == ColorPoint || t.Color[0] == ColorSelected }))
	assert.Zero(t, count(driver, func(t Triangle) bool { return t.Blend == Glow }))
	assert.Equal(t, nSleepers, count(driver, func(t Triangle) bool { return t.Blend == Shadow }))

	top := Build(snap, Options{Camera: camera.Top, Surface: surface.Castle, Shadows: true})
	assert.Zero(t, count(top, func(t Triangle) bool { return t.Blend == Shadow }))
	assert.Equal(t, len(world)-(nPoints+nSleepers+12)-1, len(top))

	water := surface.DefaultWater()
	water.N = 3
	wave := Build(snap, Options{Camera: camera.Top, Surface: surface.Wave, Water: water})
	assert.Equal(t, len(top)-2+18, len(wave))
}
