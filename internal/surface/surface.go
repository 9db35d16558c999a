// Package surface builds the decorative meshes drawn under the track: the
// textured castle quad, the vertex-coloured triangle and the animated
// sum-of-sines water.
package surface

import (
	"fmt"
	"image/color"
	"strings"

	"trainview/internal/mathutil"
)

// Kind selects which surface is drawn.
type Kind int

const (
	Castle Kind = iota
	ColoredCastle
	Wave
)

var Kinds = []Kind{Castle, ColoredCastle, Wave}

func (k Kind) String() string {
	switch k {
	case Castle:
		return "castle"
	case ColoredCastle:
		return "colored"
	case Wave:
		return "wave"
	}
	return fmt.Sprintf("surface(%d)", int(k))
}

// Next cycles through Kinds.
func (k Kind) Next() Kind {
	return Kinds[(int(k)+1)%len(Kinds)]
}

// ParseKind accepts the String() names and a few aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "castle", "regular":
		return Castle, nil
	case "colored", "coloured", "colored-castle":
		return ColoredCastle, nil
	case "wave", "water", "sine":
		return Wave, nil
	}
	return Castle, fmt.Errorf("surface: unknown kind %q", s)
}

// CastleTexture is the texture name the castle quad samples.
const CastleTexture = "castle"

// Vertex is one mesh vertex in surface-local space.
type Vertex struct {
	Pos    mathutil.Vec3
	Normal mathutil.Vec3
	UV     [2]float64
	Color  color.NRGBA
}

// Mesh is an indexed triangle list. Texture is empty for colour-only meshes.
type Mesh struct {
	Vertices []Vertex
	Indices  []int
	Texture  string
}

// Triangles returns the number of triangles.
func (m Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Transform scales every vertex uniformly and then translates it.
func (m Mesh) Transform(scale float64, offset mathutil.Vec3) Mesh {
	out := Mesh{Vertices: make([]Vertex, len(m.Vertices)), Indices: m.Indices, Texture: m.Texture}
	for i, v := range m.Vertices {
		v.Pos = v.Pos.Scale(scale).Add(offset)
		out.Vertices[i] = v
	}
	return out
}

var white = color.NRGBA{255, 255, 255, 255}

// Plane is the unit textured quad in the XZ plane.
func Plane() Mesh {
	up := mathutil.WorldUp
	return Mesh{
		Vertices: []Vertex{
			{Pos: mathutil.Vec3{-0.5, 0, -0.5}, Normal: up, UV: [2]float64{0, 0}, Color: white},
			{Pos: mathutil.Vec3{-0.5, 0, 0.5}, Normal: up, UV: [2]float64{1, 0}, Color: white},
			{Pos: mathutil.Vec3{0.5, 0, 0.5}, Normal: up, UV: [2]float64{1, 1}, Color: white},
			{Pos: mathutil.Vec3{0.5, 0, -0.5}, Normal: up, UV: [2]float64{0, 1}, Color: white},
		},
		Indices: []int{0, 1, 2, 0, 2, 3},
		Texture: CastleTexture,
	}
}

// ColoredTriangle is the red/blue/green triangle of the coloured castle mode.
func ColoredTriangle() Mesh {
	up := mathutil.WorldUp
	return Mesh{
		Vertices: []Vertex{
			{Pos: mathutil.Vec3{-0.5, 0, -0.5}, Normal: up, UV: [2]float64{1, 0}, Color: color.NRGBA{255, 0, 0, 255}},
			{Pos: mathutil.Vec3{-0.5, 0, 0.5}, Normal: up, UV: [2]float64{0, 0}, Color: color.NRGBA{0, 0, 255, 255}},
			{Pos: mathutil.Vec3{0.366, 0, 0}, Normal: up, UV: [2]float64{0.5, 1}, Color: color.NRGBA{0, 255, 0, 255}},
		},
		Indices: []int{0, 1, 2},
	}
}

// Build returns the local-space mesh for kind at time t seconds.
func Build(kind Kind, water Water, t float64) Mesh {
	switch kind {
	case ColoredCastle:
		return ColoredTriangle()
	case Wave:
		return water.Mesh(t)
	default:
		return Plane()
	}
}
