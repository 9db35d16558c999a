package mathutil

import "math"

// World axes. The scene is Y-up.
var (
	WorldX  = Vec3{1, 0, 0}
	WorldUp = Vec3{0, 1, 0}
	WorldZ  = Vec3{0, 0, 1}
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
