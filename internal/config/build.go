package config

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/lighting"
)

// World is a scene turned into lighting objects.
type World struct {
	Lights     []*lighting.Light
	Shapes     []*lighting.Shape
	Options    lighting.Options
	Background gg.RGBA
}

// Build creates the lights, shapes and options a scene describes. Shape
// loops are reordered clockwise. Call Resolve first to fill the viewport.
func (s Scene) Build() (World, error) {
	w := World{Options: lighting.DefaultOptions()}
	w.Options.Viewport = image.Pt(s.Width, s.Height)
	w.Options.CullOutOfRange = s.CullOutOfRange
	if s.DrawShapes != nil {
		w.Options.DrawShapes = *s.DrawShapes
	}

	var err error
	if w.Background, err = ParseColor(s.Background, gg.Black); err != nil {
		return World{}, fmt.Errorf("config: background: %w", err)
	}
	if w.Options.Ambient, err = ParseColor(s.Ambient, gg.Transparent); err != nil {
		return World{}, fmt.Errorf("config: ambient: %w", err)
	}

	for i, spec := range s.Lights {
		l, err := spec.build()
		if err != nil {
			return World{}, fmt.Errorf("config: light %d: %w", i, err)
		}
		w.Lights = append(w.Lights, l)
	}

	for i, spec := range s.Shapes {
		sh, err := spec.build()
		if err != nil {
			return World{}, fmt.Errorf("config: shape %d: %w", i, err)
		}
		w.Shapes = append(w.Shapes, sh)
	}

	for i, spec := range s.Grids {
		shapes, err := spec.build()
		if err != nil {
			return World{}, fmt.Errorf("config: grid %d: %w", i, err)
		}
		w.Shapes = append(w.Shapes, shapes...)
	}

	warnEnclosedLights(w)
	return w, nil
}

func (spec LightSpec) build() (*lighting.Light, error) {
	clr, err := ParseColor(spec.Color, gg.White)
	if err != nil {
		return nil, err
	}

	l := lighting.NewLight()
	l.SetPosition(lighting.Vec3{X: spec.X, Y: spec.Y, Z: spec.Z})
	l.SetAngle(spec.AngleDeg * math.Pi / 180)
	if spec.ViewAngleDeg > 0 {
		l.SetViewAngle(spec.ViewAngleDeg * math.Pi / 180)
	}
	if spec.Radius > 0 {
		l.SetRadius(spec.Radius)
	}
	l.SetColor(clr)
	l.SetBleed(spec.Bleed)
	if spec.LinearizeFactor != nil {
		l.SetLinearizeFactor(*spec.LinearizeFactor)
	}
	return l, nil
}

func (spec ShapeSpec) build() (*lighting.Shape, error) {
	var poly shadows.Polygon
	if r := spec.Rect; r != nil {
		poly = shadows.Polygon{
			{X: r.X - r.W/2, Y: r.Y - r.H/2},
			{X: r.X + r.W/2, Y: r.Y - r.H/2},
			{X: r.X + r.W/2, Y: r.Y + r.H/2},
			{X: r.X - r.W/2, Y: r.Y + r.H/2},
		}
	} else {
		poly = make(shadows.Polygon, len(spec.Points))
		for i, p := range spec.Points {
			poly[i] = shadows.Point{X: p[0], Y: p[1]}
		}
	}

	sh := lighting.NewShape(poly.EnsureClockwise())
	if spec.Color != "" {
		clr, err := ParseColor(spec.Color, lighting.DefaultShapeColor)
		if err != nil {
			return nil, err
		}
		sh.SetColor(clr)
	}
	return sh, nil
}

func (spec GridSpec) build() ([]*lighting.Shape, error) {
	clr, err := ParseColor(spec.Color, lighting.DefaultShapeColor)
	if err != nil {
		return nil, err
	}

	origin := shadows.Point{X: spec.Origin[0], Y: spec.Origin[1]}
	occluders := shadows.OccludersFromGrid(shadows.ParseGrid(spec.Rows), spec.TileSize, origin)

	shapes := make([]*lighting.Shape, len(occluders))
	for i, poly := range occluders {
		shapes[i] = lighting.NewShape(poly)
		shapes[i].SetColor(clr)
	}
	return shapes, nil
}

// warnEnclosedLights logs lights that sit inside an occluder. Such lights
// cast no shadow from that shape.
func warnEnclosedLights(w World) {
	for i, l := range w.Lights {
		for j, sh := range w.Shapes {
			if shadows.PointInPolygon(l.Position().XY(), sh.Shape()) {
				lighting.Logger().Warn("light inside shape", "light", i, "shape", j)
			}
		}
	}
}
