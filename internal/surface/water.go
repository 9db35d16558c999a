package surface

import (
	"image/color"
	"math"

	"trainview/internal/mathutil"
)

// WaveTrain is one sine component of the water surface.
type WaveTrain struct {
	Direction  [2]float64 `json:"direction"`
	Wavelength float64    `json:"wavelength"`
	Amplitude  float64    `json:"amplitude"`
	Speed      float64    `json:"speed"`
}

// Frequency is 2π/Wavelength, or 0 for a non-positive wavelength.
func (w WaveTrain) Frequency() float64 {
	if w.Wavelength <= 0 {
		return 0
	}
	return 2 * math.Pi / w.Wavelength
}

func (w WaveTrain) height(x, z, t float64) float64 {
	phase := (w.Direction[0]*x+w.Direction[1]*z)*w.Frequency() + w.Speed*t
	return w.Amplitude * math.Sin(phase)
}

// NormalEpsilon is the central-difference step used for water normals.
const NormalEpsilon = 0.1

// Water is a square height field of summed sine waves centred on the origin.
type Water struct {
	Waves []WaveTrain `json:"waves"`
	N     int         `json:"n"`    // cells per side
	Size  float64     `json:"size"` // side length
}

// DefaultWater returns a 100x100 grid over a 10-unit square with three
// crossing wave trains.
func DefaultWater() Water {
	return Water{
		Waves: []WaveTrain{
			{Direction: [2]float64{1, 0}, Wavelength: 4, Amplitude: 0.05, Speed: 2},
			{Direction: [2]float64{0.7071, 0.7071}, Wavelength: 2.5, Amplitude: 0.03, Speed: 1.5},
			{Direction: [2]float64{-0.3, 0.95}, Wavelength: 6, Amplitude: 0.04, Speed: 1},
		},
		N:    100,
		Size: 10,
	}
}

// Height sums every wave at (x, z) and time t.
func (w Water) Height(x, z, t float64) float64 {
	h := 0.0
	for _, wt := range w.Waves {
		h += wt.height(x, z, t)
	}
	return h
}

// Normal estimates the surface normal by central differences.
func (w Water) Normal(x, z, t float64) mathutil.Vec3 {
	const eps = NormalEpsilon
	hL := w.Height(x-eps, z, t)
	hR := w.Height(x+eps, z, t)
	hD := w.Height(x, z-eps, t)
	hU := w.Height(x, z+eps, t)
	return mathutil.Vec3{hL - hR, 2 * eps, hD - hU}.NormalizeOr(mathutil.WorldUp)
}

// HeightColor tints water by height: higher crests are greener and bluer.
func HeightColor(h float64) color.NRGBA {
	g := mathutil.Clamp(0.5+2*h, 0, 1)
	b := mathutil.Clamp(0.6+3*h, 0, 1)
	return color.NRGBA{0, uint8(g*255 + 0.5), uint8(b*255 + 0.5), 255}
}

// Mesh tessellates the water at time t into an (N+1)x(N+1) vertex grid.
func (w Water) Mesh(t float64) Mesh {
	n := w.N
	if n < 1 {
		n = 1
	}
	size := w.Size
	half := size / 2

	m := Mesh{
		Vertices: make([]Vertex, 0, (n+1)*(n+1)),
		Indices:  make([]int, 0, n*n*6),
	}
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			x := float64(i)/float64(n)*size - half
			z := float64(j)/float64(n)*size - half
			h := w.Height(x, z, t)
			m.Vertices = append(m.Vertices, Vertex{
				Pos:    mathutil.Vec3{x, h, z},
				Normal: w.Normal(x, z, t),
				UV:     [2]float64{float64(i) / float64(n), float64(j) / float64(n)},
				Color:  HeightColor(h),
			})
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			tl := j*(n+1) + i
			tr := tl + 1
			bl := (j+1)*(n+1) + i
			br := bl + 1
			m.Indices = append(m.Indices, tl, bl, tr, tr, bl, br)
		}
	}
	return m
}
