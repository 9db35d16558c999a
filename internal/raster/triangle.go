package raster

import (
	"image"
	"math"

	"trainview/internal/scene"
)

// Vertex is a projected vertex: pixel position, inverse depth (larger is
// closer), texture coordinates and colour channels in 0..255.
type Vertex struct {
	X, Y, Z    float64
	U, V       float64
	R, G, B, A float64
}

// ShadowFactor is how much a shadow keeps of the colour beneath it.
const ShadowFactor = 0.55

// RasterizeTriangle fills one projected triangle. Colour is the
// barycentric blend of the vertex colours, modulated by tex when given,
// lit by shade and sent through the sRGB/ACES pipeline.
//
// Opaque triangles are depth tested and written. Shadow triangles are
// depth tested and darken each pixel at most once. Glow triangles are
// depth tested and added on top without writing depth.
//
// This is the HOT PATH and does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	v [3]Vertex,
	tex *image.NRGBA,
	shade RGB,
	blend scene.Blend,
	lc *LightConfig,
) {
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	exposure := lc.Exposure
	invGamma := lc.InvGamma

	for sy := minY; sy <= maxY; sy++ {
		// Sample at pixel centres.
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*v[0].Z + w1*v[1].Z + w2*v[2].Z
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			pxIdx := zIdx * 4

			if blend == scene.Shadow {
				if !fb.Shaded[zIdx] {
					fb.Shaded[zIdx] = true
					fb.Color[pxIdx] = clamp255(float64(fb.Color[pxIdx]) * ShadowFactor)
					fb.Color[pxIdx+1] = clamp255(float64(fb.Color[pxIdx+1]) * ShadowFactor)
					fb.Color[pxIdx+2] = clamp255(float64(fb.Color[pxIdx+2]) * ShadowFactor)
				}
				continue
			}

			cr := w0*v[0].R + w1*v[1].R + w2*v[2].R
			cg := w0*v[0].G + w1*v[1].G + w2*v[2].G
			cb := w0*v[0].B + w1*v[1].B + w2*v[2].B
			ca := w0*v[0].A + w1*v[1].A + w2*v[2].A
			if tex != nil {
				u := w0*v[0].U + w1*v[1].U + w2*v[2].U
				tv := w0*v[0].V + w1*v[1].V + w2*v[2].V
				tr, tg, tb, ta := SampleTexture(tex, u, tv)
				cr *= tr / 255
				cg *= tg / 255
				cb *= tb / 255
				ca *= ta / 255
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}

			// sRGB decode → linear (LUT), shade, ACES, linear → sRGB
			fr := math.Pow(ACESTonemap(srgbToLinear[clamp255(cr)]*shade[0]*exposure), invGamma) * 255
			fg := math.Pow(ACESTonemap(srgbToLinear[clamp255(cg)]*shade[1]*exposure), invGamma) * 255
			fbl := math.Pow(ACESTonemap(srgbToLinear[clamp255(cb)]*shade[2]*exposure), invGamma) * 255

			if blend == scene.Glow {
				// Additive: add to existing pixel, clamp to 255
				fb.Color[pxIdx] = clamp255(float64(fb.Color[pxIdx]) + fr*ca/255)
				fb.Color[pxIdx+1] = clamp255(float64(fb.Color[pxIdx+1]) + fg*ca/255)
				fb.Color[pxIdx+2] = clamp255(float64(fb.Color[pxIdx+2]) + fbl*ca/255)
				continue
			}

			fb.ZBuf[zIdx] = z
			fb.Shaded[zIdx] = false
			fb.Color[pxIdx] = clamp255(fr)
			fb.Color[pxIdx+1] = clamp255(fg)
			fb.Color[pxIdx+2] = clamp255(fbl)
			fb.Color[pxIdx+3] = clamp255(ca)
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
