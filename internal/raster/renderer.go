// Package raster is a small software rasterizer: flat-shaded, z-buffered
// triangles with optional textures, rendered into an NRGBA image.
package raster

import (
	"image"
	"image/color"

	"trainview/internal/camera"
	"trainview/internal/scene"
	"trainview/internal/texture"
)

// DefaultBackground is the clear colour.
var DefaultBackground = color.NRGBA{135, 170, 210, 255}

// Options controls one render.
type Options struct {
	Size        int // output size before downsampling
	Supersample int
	Light       LightConfig
	Background  color.NRGBA
}

// RenderSize is the square size actually rasterized.
func (o Options) RenderSize() int {
	ss := o.Supersample
	if ss < 1 {
		ss = 1
	}
	return o.Size * ss
}

// Render draws tris from cam into a RenderSize() square image. Opaque
// triangles go first, then shadows, then glows. Triangles with a vertex
// behind the near plane are dropped. tex may be nil.
func Render(tris []scene.Triangle, cam camera.Camera, tex texture.Resolver, opts Options) *image.NRGBA {
	size := opts.RenderSize()
	fb := NewFrameBuffer(size, size)
	bg := opts.Background
	if bg == (color.NRGBA{}) {
		bg = DefaultBackground
	}
	fb.Fill(bg)

	lc := opts.Light
	if lc.Exposure == 0 {
		lc = DefaultLightConfig()
	}
	proj := cam.Projector(size)
	textures := make(map[string]*image.NRGBA)

	for _, pass := range []scene.Blend{scene.Opaque, scene.Shadow, scene.Glow} {
		for i := range tris {
			t := &tris[i]
			if t.Blend != pass {
				continue
			}
			drawTriangle(fb, t, proj, tex, textures, &lc)
		}
	}
	return fb.Image()
}

func drawTriangle(fb *FrameBuffer, t *scene.Triangle, proj camera.Projector, tex texture.Resolver, textures map[string]*image.NRGBA, lc *LightConfig) {
	var v [3]Vertex
	for k := 0; k < 3; k++ {
		x, y, z, ok := proj.Project(t.V[k])
		if !ok {
			return
		}
		c := t.Color[k]
		v[k] = Vertex{
			X: x, Y: y, Z: z,
			U: t.UV[k][0], V: t.UV[k][1],
			R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A),
		}
	}

	var img *image.NRGBA
	if t.Texture != "" && tex != nil {
		cached, seen := textures[t.Texture]
		if !seen {
			cached = tex.Resolve(t.Texture)
			textures[t.Texture] = cached
		}
		img = cached
	}

	shade := gray(1)
	if !t.Unlit && t.Blend != scene.Shadow {
		n := t.Normal()
		if n.LenSq() == 0 {
			return
		}
		shade = lc.Shade(n, t.Centroid())
	}
	RasterizeTriangle(fb, v, img, shade, t.Blend, lc)
}
