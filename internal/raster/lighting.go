package raster

import (
	"fmt"
	"math"
	"strings"

	"trainview/internal/mathutil"
)

// LightMode selects the lighting rig.
type LightMode int

const (
	// LightNormal is the default three-light rig: a white key light with
	// rim, hemisphere and specular terms plus yellow and blue fills.
	LightNormal LightMode = iota
	// LightDirectional is a single white light from (1, 1, 0) with no fill.
	LightDirectional
	// LightSpot is a blue spotlight hanging 100 units above the origin.
	LightSpot
)

var LightModes = []LightMode{LightNormal, LightDirectional, LightSpot}

func (m LightMode) String() string {
	switch m {
	case LightNormal:
		return "normal"
	case LightDirectional:
		return "directional"
	case LightSpot:
		return "spot"
	}
	return fmt.Sprintf("light(%d)", int(m))
}

// Next cycles through LightModes.
func (m LightMode) Next() LightMode {
	return LightModes[(int(m)+1)%len(LightModes)]
}

// ParseLightMode accepts the String() names.
func ParseLightMode(s string) (LightMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "default":
		return LightNormal, nil
	case "directional", "dir":
		return LightDirectional, nil
	case "spot", "spotlight":
		return LightSpot, nil
	}
	return LightNormal, fmt.Errorf("raster: unknown light mode %q", s)
}

// RGB is a linear colour or light intensity per channel.
type RGB [3]float64

func gray(v float64) RGB { return RGB{v, v, v} }

func (a RGB) add(b RGB, s float64) RGB {
	return RGB{a[0] + b[0]*s, a[1] + b[1]*s, a[2] + b[2]*s}
}

// FillLight is an extra tinted directional light.
type FillLight struct {
	Dir   mathutil.Vec3
	Color RGB
}

// SpotLight is a point light restricted to a cone.
type SpotLight struct {
	Pos       mathutil.Vec3
	Dir       mathutil.Vec3
	CosCutoff float64
	Exponent  float64
	Ambient   RGB
	Diffuse   RGB
}

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	Mode      LightMode
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	ViewDir   mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
	Fills     []FillLight
	Spot      SpotLight
}

// DefaultLightConfig returns the normal rig.
func DefaultLightConfig() LightConfig {
	return NewLightConfig(LightNormal)
}

// NewLightConfig returns the rig for mode.
func NewLightConfig(mode LightMode) LightConfig {
	lightDir := mathutil.Vec3{0, 1, 1}.Normalize()
	rimDir := mathutil.Vec3{-160, 130, -210}.Normalize()
	viewDir := mathutil.Vec3{0, -110, -400}.Normalize()

	lc := LightConfig{
		Mode:      mode,
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   viewDir,
		HalfMain:  lightDir.Sub(viewDir).Normalize(),
		Ambient:   0.30,
		Hemi:      0.25,
		Direct:    0.90,
		Rim:       0.25,
		SpecInt:   0.30,
		SpecPow:   12.0,
		Exposure:  1.05,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
		Fills: []FillLight{
			{Dir: mathutil.WorldX, Color: RGB{0.5, 0.5, 0.1}},
			{Dir: mathutil.Vec3{0, -1, 0}, Color: RGB{0.1, 0.1, 0.3}},
		},
	}

	switch mode {
	case LightDirectional:
		lc.LightDir = mathutil.Vec3{1, 1, 0}.Normalize()
		lc.Ambient = 0.2
		lc.Direct = 1.0
		lc.Fills = nil
	case LightSpot:
		lc.Ambient = 0.12
		lc.Direct = 1.0
		lc.Fills = nil
		lc.Spot = SpotLight{
			Pos:       mathutil.Vec3{0, 100, 0},
			Dir:       mathutil.Vec3{0, -1, 0},
			CosCutoff: math.Cos(mathutil.Deg2Rad(35)),
			Exponent:  8,
			Ambient:   RGB{0.02, 0.03, 0.08},
			Diffuse:   RGB{0.2, 0.35, 1.0},
		}
	}
	return lc
}

// Shade returns the per-channel light reaching a face with the given unit
// normal at pos. Faces are double-sided.
func (lc *LightConfig) Shade(normal, pos mathutil.Vec3) RGB {
	switch lc.Mode {
	case LightDirectional:
		return gray(lc.Ambient + math.Abs(normal.Dot(lc.LightDir))*lc.Direct)
	case LightSpot:
		return lc.shadeSpot(normal, pos)
	}
	out := gray(lc.ComputeShade(normal))
	for _, f := range lc.Fills {
		out = out.add(f.Color, math.Abs(normal.Dot(f.Dir)))
	}
	return out
}

func (lc *LightConfig) shadeSpot(normal, pos mathutil.Vec3) RGB {
	s := lc.Spot
	out := gray(lc.Ambient).add(s.Ambient, 1)
	toPos := pos.Sub(s.Pos).Normalize()
	cos := toPos.Dot(s.Dir)
	if cos < s.CosCutoff {
		return out
	}
	spot := math.Pow(cos, s.Exponent)
	return out.add(s.Diffuse, spot*math.Abs(normal.Dot(toPos))*lc.Direct)
}

// ComputeShade returns the combined lighting scalar of the key, rim,
// hemisphere and specular terms for a face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	// Lambertian (abs for double-sided)
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Hemisphere fill
	hemi := (1.0-math.Abs(normal[1]))*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := normal.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
