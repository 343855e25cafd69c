package demo

import (
	"math"
	"math/rand"

	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/lighting"
)

// Scatter places random lights and shapes inside a viewport.
type Scatter struct {
	rng *rand.Rand
}

// NewScatter creates a Scatter with the given random source.
func NewScatter(rng *rand.Rand) *Scatter {
	return &Scatter{rng: rng}
}

func (s *Scatter) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Scatter) color() gg.RGBA {
	return gg.RGB(s.rng.Float64(), s.rng.Float64(), s.rng.Float64())
}

// Lights returns n omnidirectional lights with random position, colour and
// a radius between 300 and 1000.
func (s *Scatter) Lights(n, width, height int) []*lighting.Light {
	lights := make([]*lighting.Light, n)
	for i := range lights {
		lights[i] = s.LightAt(s.between(0, float64(width)), s.between(0, float64(height)))
	}
	return lights
}

// LightAt returns an omnidirectional light at (x, y) with a random colour
// and radius.
func (s *Scatter) LightAt(x, y float64) *lighting.Light {
	l := lighting.NewLight()
	l.SetPosition(lighting.Vec3{X: x, Y: y})
	l.SetRadius(s.between(300, 1000))
	l.SetColor(s.color())
	return l
}

// Spotlights returns n lights like Lights, except that about half are cones
// between 45 and 60 degrees wide pointing in a random direction.
func (s *Scatter) Spotlights(n, width, height int) []*lighting.Light {
	lights := s.Lights(n, width, height)
	for _, l := range lights {
		if s.rng.Float64() <= 0.5 {
			l.SetViewAngle(s.between(math.Pi/4, math.Pi/3))
		}
		l.SetAngle(s.between(0, 2*math.Pi))
	}
	return lights
}

// Shapes returns n rectangles between 10 and 20 pixels on a side centred at
// random points.
func (s *Scatter) Shapes(n, width, height int) []*lighting.Shape {
	shapes := make([]*lighting.Shape, n)
	for i := range shapes {
		shapes[i] = s.ShapeAt(s.between(0, float64(width)), s.between(0, float64(height)))
	}
	return shapes
}

// ShapeAt returns a clockwise rectangle centred at (cx, cy).
func (s *Scatter) ShapeAt(cx, cy float64) *lighting.Shape {
	hw, hh := s.between(10, 20)/2, s.between(10, 20)/2
	return lighting.NewShape(shadows.Polygon{
		{X: cx - hw, Y: cy - hh},
		{X: cx + hw, Y: cy - hh},
		{X: cx + hw, Y: cy + hh},
		{X: cx - hw, Y: cy + hh},
	})
}
