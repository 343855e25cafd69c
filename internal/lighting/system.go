package lighting

import (
	"image"
	"iter"
	"slices"

	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/render"
)

// maskColor is the colour of every shadow mask vertex. Multiplied into a
// light layer it removes all light it covers.
var maskColor = gg.Black

// Options configure a System.
type Options struct {
	// Viewport is the layer size allocated by Setup. A zero viewport defers
	// allocation to the first Draw, which uses the destination's size.
	Viewport image.Point

	// CullOutOfRange skips shapes whose bounds lie entirely outside a
	// light's radius. The glow is zero there, so the frame is unchanged.
	CullOutOfRange bool

	// DrawShapes fills the occluders over the lit scene.
	DrawShapes bool

	// Ambient is painted into the scene layer before any light.
	Ambient gg.RGBA
}

// DefaultOptions returns the options NewSystem uses when given nil.
func DefaultOptions() Options {
	return Options{DrawShapes: true}
}

// Stats counts the work done by the last Draw.
type Stats struct {
	Lights     int
	Masks      int
	EmptyMasks int
	Culled     int
}

// System composites lights and shadows. Every frame each light's glow is
// drawn into a private layer, the shadow mask of every shape is multiplied
// into that layer, and the layer is added to the scene.
//
// Lights and shapes are held by pointer in insertion order; duplicates are
// kept. A System is not safe for concurrent use: mutate it and its members
// between frames only.
type System struct {
	renderer render.Renderer
	res      *Resources
	opts     Options

	lights []*Light
	shapes []*Shape

	lightLayer render.Image
	sceneLayer render.Image
	width      int
	height     int

	stats Stats
}

// NewSystem creates a System drawing with the given renderer and resources.
func NewSystem(r render.Renderer, res *Resources, opts *Options) *System {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	return &System{renderer: r, res: res, opts: o}
}

// Options returns the current options.
func (s *System) Options() Options { return s.opts }

// SetOptions replaces the options from the next Draw on. The layers keep
// their size; call WindowResized to change it.
func (s *System) SetOptions(opts Options) { s.opts = opts }

// Setup allocates the layers for the configured viewport.
func (s *System) Setup() {
	if s.opts.Viewport.X <= 0 || s.opts.Viewport.Y <= 0 {
		Logger().Debug("no initial viewport, deferring layer allocation")
		return
	}
	s.WindowResized(s.opts.Viewport.X, s.opts.Viewport.Y)
}

// Entities yields every light, then every shape.
func (s *System) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, l := range s.lights {
			if !yield(l) {
				return
			}
		}
		for _, sh := range s.shapes {
			if !yield(sh) {
				return
			}
		}
	}
}

// Update updates every light, then every shape.
func (s *System) Update() {
	for e := range s.Entities() {
		e.Update()
	}
}

// WindowResized reallocates both layers at the new size. Non-positive sizes
// are ignored.
func (s *System) WindowResized(width, height int) {
	if width <= 0 || height <= 0 {
		Logger().Warn("ignoring resize", "width", width, "height", height)
		return
	}
	if s.sceneLayer != nil && width == s.width && height == s.height {
		return
	}

	s.disposeLayers()
	s.lightLayer = s.renderer.NewImage(width, height)
	s.sceneLayer = s.renderer.NewImage(width, height)
	s.width, s.height = width, height
	Logger().Info("layers allocated", "width", width, "height", height)
}

// Size returns the current layer size, or zero before allocation.
func (s *System) Size() (width, height int) {
	return s.width, s.height
}

// Draw composites the scene and draws it onto dst.
func (s *System) Draw(dst render.Image) {
	if s.sceneLayer == nil {
		s.WindowResized(dst.Size())
		if s.sceneLayer == nil {
			return
		}
	}

	s.stats = Stats{}
	s.sceneLayer.Clear()
	if s.opts.Ambient.A > 0 {
		s.sceneLayer.Fill(s.opts.Ambient.Color())
	}

	for _, l := range s.lights {
		s.drawLight(l)
	}

	if s.opts.DrawShapes {
		for _, sh := range s.shapes {
			sh.Draw(s.sceneLayer, s.res)
		}
	}

	dst.DrawImage(s.sceneLayer, &render.DrawImageOptions{Blend: render.BlendSourceOver})

	Logger().Debug("frame drawn",
		"lights", s.stats.Lights,
		"masks", s.stats.Masks,
		"empty", s.stats.EmptyMasks,
		"culled", s.stats.Culled)
}

// drawLight renders one light with its shadows and adds it to the scene.
func (s *System) drawLight(l *Light) {
	s.lightLayer.Clear()
	l.Draw(s.lightLayer, s.res)

	maskOpts := &render.DrawTrianglesOptions{Blend: render.BlendMultiply}
	for _, sh := range s.shapes {
		if s.opts.CullOutOfRange && !l.Reaches(sh) {
			s.stats.Culled++
			continue
		}

		mask := shadows.BuildMask(l.Position().XY(), l.Radius(), sh.vertices)
		if mask.Empty() {
			s.stats.EmptyMasks++
			continue
		}
		s.res.DrawSolid(s.lightLayer, maskMesh(mask), maskOpts)
		s.stats.Masks++
	}

	s.sceneLayer.DrawImage(s.lightLayer, &render.DrawImageOptions{Blend: render.BlendAdd})
	s.stats.Lights++
}

// maskMesh turns a shadow mask into an opaque black triangle strip.
func maskMesh(m shadows.Mask) render.Mesh {
	c := maskColor.Premultiply()
	vertices := make([]render.Vertex, len(m.Points))
	for i, p := range m.Points {
		vertices[i] = colored(p, c)
	}
	return render.Mesh{Mode: render.MeshTriangleStrip, Vertices: vertices}
}

// Stats returns the counters of the last Draw.
func (s *System) Stats() Stats { return s.stats }

// Dispose releases the layers. The System allocates them again on the next
// Setup, WindowResized or Draw.
func (s *System) Dispose() {
	s.disposeLayers()
}

func (s *System) disposeLayers() {
	if s.lightLayer != nil {
		s.lightLayer.Dispose()
		s.lightLayer = nil
	}
	if s.sceneLayer != nil {
		s.sceneLayer.Dispose()
		s.sceneLayer = nil
	}
	s.width, s.height = 0, 0
}

// AddLight appends a light.
func (s *System) AddLight(l *Light) {
	s.lights = append(s.lights, l)
}

// AddLights appends lights in order.
func (s *System) AddLights(lights []*Light) {
	s.lights = append(s.lights, lights...)
}

// AddShape appends a shape.
func (s *System) AddShape(sh *Shape) {
	s.shapes = append(s.shapes, sh)
}

// AddShapes appends shapes in order.
func (s *System) AddShapes(shapes []*Shape) {
	s.shapes = append(s.shapes, shapes...)
}

// RemoveLight removes the first occurrence of l. Removing a light that was
// never added does nothing.
func (s *System) RemoveLight(l *Light) {
	if i := slices.Index(s.lights, l); i >= 0 {
		s.lights = slices.Delete(s.lights, i, i+1)
	}
}

// RemoveLights removes the first occurrence of each light.
func (s *System) RemoveLights(lights []*Light) {
	for _, l := range lights {
		s.RemoveLight(l)
	}
}

// RemoveShape removes the first occurrence of sh. Removing a shape that was
// never added does nothing.
func (s *System) RemoveShape(sh *Shape) {
	if i := slices.Index(s.shapes, sh); i >= 0 {
		s.shapes = slices.Delete(s.shapes, i, i+1)
	}
}

// RemoveShapes removes the first occurrence of each shape.
func (s *System) RemoveShapes(shapes []*Shape) {
	for _, sh := range shapes {
		s.RemoveShape(sh)
	}
}

// ClearLights removes every light.
func (s *System) ClearLights() { s.lights = nil }

// ClearShapes removes every shape.
func (s *System) ClearShapes() { s.shapes = nil }

// Lights returns a copy of the light list.
func (s *System) Lights() []*Light { return slices.Clone(s.lights) }

// Shapes returns a copy of the shape list.
func (s *System) Shapes() []*Shape { return slices.Clone(s.shapes) }
