package lighting

import (
	"math"

	"chosenoffset.com/lumen2d/internal/core/shadows"
)

// Vec3 is a light position. Z is carried into the glow shader's distance
// and is normally 0.
type Vec3 struct {
	X, Y, Z float64
}

// XY drops the Z component.
func (v Vec3) XY() shadows.Point {
	return shadows.Point{X: v.X, Y: v.Y}
}

// WrapAngle maps an angle in radians into [-π, π).
func WrapAngle(angle float64) float64 {
	wrapped := math.Mod(angle+math.Pi, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}
