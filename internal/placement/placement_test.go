package placement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainview/internal/geometry"
	"trainview/internal/mathutil"
	"trainview/internal/spline"
	"trainview/internal/track"
)

func assertOrthonormal(t *testing.T, f Frame) {
	t.Helper()
	assert.InDelta(t, 1, f.Forward.Len(), 1e-9)
	assert.InDelta(t, 1, f.Up.Len(), 1e-9)
	assert.InDelta(t, 1, f.Right.Len(), 1e-9)
	assert.InDelta(t, 0, f.Forward.Dot(f.Up), 1e-9)
	assert.InDelta(t, 0, f.Forward.Dot(f.Right), 1e-9)
	assert.InDelta(t, 0, f.Up.Dot(f.Right), 1e-9)
	want := f.Forward.Cross(f.Up)
	assert.InDelta(t, 0, want.Dist(f.Right), 1e-9)
}

func circleSamples(t *testing.T) []spline.Sample {
	t.Helper()
	tr := track.NewDefault()
	_, samples := geometry.Sleepers(tr.Points, spline.Cardinal, geometry.DefaultOptions())
	require.Greater(t, len(samples), 10)
	return samples
}

func TestPlaceEmpty(t *testing.T) {
	f, ok := Place(1.5, nil)
	assert.False(t, ok)
	assert.Equal(t, mathutil.Vec3{}, f.Pos)
	assert.Equal(t, mathutil.WorldZ, f.Forward)
	assertOrthonormal(t, f)
}

func TestPlaceOnSample(t *testing.T) {
	samples := circleSamples(t)
	f, ok := Place(3, samples)
	require.True(t, ok)
	assertOrthonormal(t, f)

	assert.InDelta(t, 0, f.Contact.Dist(samples[3].Pos), 1e-9)
	assert.InDelta(t, HalfSize, f.Pos.Dist(f.Contact), 1e-9)
	assert.InDelta(t, 0, f.Pos.Sub(f.Contact).Normalize().Dist(f.Up), 1e-9)
	assert.Greater(t, f.Forward.Dot(samples[3].Tangent), 0.99)
}

func TestPlaceInterpolates(t *testing.T) {
	samples := circleSamples(t)
	f, ok := Place(2.5, samples)
	require.True(t, ok)
	mid := mathutil.Lerp(samples[2].Pos, samples[3].Pos, 0.5)
	assert.InDelta(t, 0, f.Contact.Dist(mid), 1e-9)
}

func TestPlaceWrapsAcrossSeam(t *testing.T) {
	samples := circleSamples(t)
	n := float64(len(samples))

	last, ok := Place(n-1e-7, samples)
	require.True(t, ok)
	first, _ := Place(0, samples)
	assert.InDelta(t, 0, last.Contact.Dist(first.Contact), 1e-4)
	assertOrthonormal(t, last)

	wrapped, _ := Place(n+2.25, samples)
	direct, _ := Place(2.25, samples)
	assert.InDelta(t, 0, wrapped.Pos.Dist(direct.Pos), 1e-9)

	negative, _ := Place(-0.75, samples)
	fromEnd, _ := Place(n-0.75, samples)
	assert.InDelta(t, 0, negative.Pos.Dist(fromEnd.Pos), 1e-9)
}

func TestPlaceSingleSample(t *testing.T) {
	s := spline.Sample{Pos: mathutil.Vec3{1, 2, 3}, Orient: mathutil.WorldUp, Tangent: mathutil.WorldZ}
	f, ok := Place(0.4, []spline.Sample{s})
	require.True(t, ok)
	assert.Equal(t, s.Pos, f.Contact)
	assertOrthonormal(t, f)
}

func TestOrthonormalizeFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		fwd, up mathutil.Vec3
	}{
		{"regular", mathutil.WorldZ, mathutil.WorldUp},
		{"tilted up", mathutil.WorldZ, mathutil.Vec3{0, 1, 1}},
		{"up parallel to forward", mathutil.WorldZ, mathutil.Vec3{0, 0, 5}},
		{"vertical forward", mathutil.WorldUp, mathutil.WorldUp},
		{"zero up", mathutil.WorldX, mathutil.Vec3{}},
		{"zero forward", mathutil.Vec3{}, mathutil.WorldUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertOrthonormal(t, Orthonormalize(tt.fwd, tt.up))
		})
	}
}

func TestFramePoint(t *testing.T) {
	f := Orthonormalize(mathutil.WorldZ, mathutil.WorldUp)
	f.Pos = mathutil.Vec3{10, 0, 0}

	assert.Equal(t, mathutil.Vec3{10, 0, 2}, f.Point(0, 0, 2))
	assert.Equal(t, mathutil.Vec3{10, 3, 0}, f.Point(0, 3, 0))
	assert.InDelta(t, 0, f.Point(1, 2, 3).Dist(f.Matrix().MulPoint(mathutil.Vec3{1, 2, 3})), 1e-12)

	corners := f.Corners()
	for _, c := range corners {
		d := c.Sub(f.Pos)
		assert.InDelta(t, HalfSize*math.Sqrt(3), d.Len(), 1e-9)
	}
}
