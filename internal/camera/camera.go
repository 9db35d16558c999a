// Package camera builds the three scene viewpoints (orbiting world view,
// top-down plan and the driver's view from the train) and projects world
// points into pixel space.
package camera

import (
	"fmt"
	"math"
	"strings"

	"trainview/internal/mathutil"
	"trainview/internal/placement"
)

// Mode selects the viewpoint.
type Mode int

const (
	World Mode = iota
	Top
	Train
)

var Modes = []Mode{World, Top, Train}

func (m Mode) String() string {
	switch m {
	case World:
		return "world"
	case Top:
		return "top"
	case Train:
		return "train"
	}
	return fmt.Sprintf("camera(%d)", int(m))
}

// Next cycles through Modes.
func (m Mode) Next() Mode {
	return Modes[(int(m)+1)%len(Modes)]
}

// ParseMode accepts the String() names.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "world", "orbit":
		return World, nil
	case "top", "plan":
		return Top, nil
	case "train", "driver":
		return Train, nil
	}
	return World, fmt.Errorf("camera: unknown mode %q", s)
}

const (
	DefaultFOV  = 40.0 // vertical, degrees
	DefaultNear = 0.5
	// TopHalfExtent is the half width of the area the top view shows.
	TopHalfExtent = 110.0
	topHeight     = 200.0
)

// Camera is a look-at camera. Ortho > 0 switches to an orthographic
// projection showing Ortho world units either side of the centre.
type Camera struct {
	Eye    mathutil.Vec3
	Target mathutil.Vec3
	Up     mathutil.Vec3
	FOV    float64
	Near   float64
	Ortho  float64
}

// View returns the world-to-eye transform.
func (c Camera) View() mathutil.Mat4 {
	return mathutil.LookAt(c.Eye, c.Target, c.Up)
}

// Orbit is the world view: a camera circling Target.
type Orbit struct {
	Target    mathutil.Vec3
	Azimuth   float64 // degrees around +Y, 0 looks from +Z
	Elevation float64 // degrees above the horizon
	Distance  float64
}

// DefaultOrbit frames the default track from above and to the side.
func DefaultOrbit() Orbit {
	return Orbit{Azimuth: 35, Elevation: 35, Distance: 250}
}

// Rotate turns the orbit, keeping the elevation short of the poles.
func (o Orbit) Rotate(dAzimuth, dElevation float64) Orbit {
	o.Azimuth = math.Mod(o.Azimuth+dAzimuth, 360)
	o.Elevation = mathutil.Clamp(o.Elevation+dElevation, -85, 85)
	return o
}

// Zoom scales the distance by factor, clamped to a sane range.
func (o Orbit) Zoom(factor float64) Orbit {
	o.Distance = mathutil.Clamp(o.Distance*factor, 10, 2000)
	return o
}

// Camera returns the orbit's perspective camera.
func (o Orbit) Camera() Camera {
	az := mathutil.Deg2Rad(o.Azimuth)
	el := mathutil.Deg2Rad(o.Elevation)
	// Tilt +Z up by the elevation, then swing it around Y by the azimuth.
	dir := mathutil.RotY(az).MulVec3(mathutil.RotX(-el).MulVec3(mathutil.WorldZ))
	return Camera{
		Eye:    o.Target.Add(dir.Scale(o.Distance)),
		Target: o.Target,
		Up:     mathutil.WorldUp,
		FOV:    DefaultFOV,
		Near:   DefaultNear,
	}
}

// TopDown looks straight down at the origin with -Z towards the top of
// the image.
func TopDown() Camera {
	return Camera{
		Eye:    mathutil.Vec3{0, topHeight, 0},
		Target: mathutil.Vec3{},
		Up:     mathutil.Vec3{0, 0, -1},
		Near:   DefaultNear,
		Ortho:  TopHalfExtent,
	}
}

// FromTrain is the driver's view: just above the front of the train cube,
// looking along the track.
func FromTrain(f placement.Frame) Camera {
	eye := f.Point(0, placement.HalfSize, placement.HalfSize)
	return Camera{
		Eye:    eye,
		Target: eye.Add(f.Forward.Scale(10)),
		Up:     f.Up,
		FOV:    60,
		Near:   DefaultNear,
	}
}

// For picks the camera for mode.
func For(mode Mode, orbit Orbit, train placement.Frame) Camera {
	switch mode {
	case Top:
		return TopDown()
	case Train:
		return FromTrain(train)
	default:
		return orbit.Camera()
	}
}
