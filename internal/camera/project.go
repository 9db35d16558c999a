package camera

import (
	"math"

	"trainview/internal/mathutil"
)

// Projector maps world points to pixel coordinates of a square render
// target.
type Projector struct {
	view  mathutil.Mat4
	half  float64
	focal float64 // pixels per unit at depth 1, perspective only
	scale float64 // pixels per unit, orthographic only
	near  float64
}

// Projector prepares c for a size x size target.
func (c Camera) Projector(size int) Projector {
	half := float64(size) / 2
	p := Projector{view: c.View(), half: half, near: c.Near}
	if p.near <= 0 {
		p.near = DefaultNear
	}
	if c.Ortho > 0 {
		p.scale = half / c.Ortho
		return p
	}
	fov := c.FOV
	if fov <= 0 {
		fov = DefaultFOV
	}
	p.focal = half / math.Tan(mathutil.Deg2Rad(fov/2))
	return p
}

// Eye transforms v into eye space.
func (p Projector) Eye(v mathutil.Vec3) mathutil.Vec3 {
	return p.view.MulPoint(v)
}

// Project returns the pixel position of v and its inverse depth, so larger
// z is closer. ok is false for points behind the near plane.
func (p Projector) Project(v mathutil.Vec3) (x, y, z float64, ok bool) {
	e := p.view.MulPoint(v)
	depth := -e[2]
	if depth < p.near {
		return 0, 0, 0, false
	}
	if p.scale > 0 {
		x = p.half + e[0]*p.scale
		y = p.half - e[1]*p.scale
	} else {
		x = p.half + e[0]*p.focal/depth
		y = p.half - e[1]*p.focal/depth
	}
	return x, y, 1 / depth, true
}

// ProjectVertices projects a batch of points. A triangle that uses any
// point with ok[i] == false should be dropped.
func (p Projector) ProjectVertices(verts []mathutil.Vec3) (px, py, pz []float64, ok []bool) {
	n := len(verts)
	px = make([]float64, n)
	py = make([]float64, n)
	pz = make([]float64, n)
	ok = make([]bool, n)
	for i, v := range verts {
		px[i], py[i], pz[i], ok[i] = p.Project(v)
	}
	return px, py, pz, ok
}
