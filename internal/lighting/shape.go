package lighting

import (
	"github.com/gogpu/gg"
	"seehuhn.de/go/geom/rect"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/render"
)

// rimShade darkens the rim of a filled shape relative to its centre.
const rimShade = 0.8

// DefaultShapeColor is the fill of a new shape: opaque 50% grey.
var DefaultShapeColor = gg.RGB(0.5, 0.5, 0.5)

// Shape is a polygonal occluder. The vertex loop is implicitly closed and is
// expected to run clockwise on screen; see shadows.Polygon.EnsureClockwise.
type Shape struct {
	vertices shadows.Polygon
	center   shadows.Point
	color    gg.RGBA

	mesh      render.Mesh
	meshDirty bool
}

// NewShape returns a shape with the given vertex loop.
func NewShape(vertices shadows.Polygon) *Shape {
	s := &Shape{color: DefaultShapeColor}
	s.SetShape(vertices)
	return s
}

// SetShape replaces the vertex loop and recomputes the centre. The loop is
// copied and its winding is kept as given.
func (s *Shape) SetShape(vertices shadows.Polygon) {
	s.vertices = vertices.Clone()
	s.center = s.vertices.Centroid()
	s.meshDirty = true
}

// Shape returns a copy of the vertex loop.
func (s *Shape) Shape() shadows.Polygon {
	return s.vertices.Clone()
}

// Center returns the mean of the vertices.
func (s *Shape) Center() shadows.Point { return s.center }

// Bounds returns the bounding box of the vertices.
func (s *Shape) Bounds() rect.Rect { return s.vertices.Bounds() }

// Color returns the fill colour.
func (s *Shape) Color() gg.RGBA { return s.color }

// SetColor sets the fill colour.
func (s *Shape) SetColor(c gg.RGBA) {
	s.color = c
	s.meshDirty = true
}

// Update rebuilds the fill mesh if it is stale.
func (s *Shape) Update() {
	if s.meshDirty {
		s.rebuildMesh()
	}
}

// Mesh returns the fill fan, rebuilding it first if it is stale.
func (s *Shape) Mesh() render.Mesh {
	s.Update()
	return s.mesh
}

// rebuildMesh fans out from the centre in full colour to the vertices at a
// darker shade, repeating vertex 0 to close the loop.
func (s *Shape) rebuildMesh() {
	s.meshDirty = false
	if len(s.vertices) == 0 {
		s.mesh = render.Mesh{Mode: render.MeshTriangleFan}
		return
	}

	inner := s.color.Premultiply()
	rim := gg.RGBA{R: s.color.R * rimShade, G: s.color.G * rimShade, B: s.color.B * rimShade, A: s.color.A}.Premultiply()

	vertices := make([]render.Vertex, 0, len(s.vertices)+2)
	vertices = append(vertices, colored(s.center, inner))
	for _, v := range s.vertices {
		vertices = append(vertices, colored(v, rim))
	}
	vertices = append(vertices, colored(s.vertices[0], rim))
	s.mesh = render.Mesh{Mode: render.MeshTriangleFan, Vertices: vertices}
}

// Draw fills the shape onto dst with normal blending.
func (s *Shape) Draw(dst render.Image, res *Resources) {
	res.DrawSolid(dst, s.Mesh(), &render.DrawTrianglesOptions{
		Blend:     render.BlendSourceOver,
		AntiAlias: true,
	})
}

// colored returns a vertex at p with a premultiplied colour.
func colored(p shadows.Point, c gg.RGBA) render.Vertex {
	return render.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		ColorR: float32(c.R),
		ColorG: float32(c.G),
		ColorB: float32(c.B),
		ColorA: float32(c.A),
	}
}
