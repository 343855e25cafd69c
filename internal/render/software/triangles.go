package software

import (
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/vector"

	"chosenoffset.com/lumen2d/internal/render"
)

// triangle is one indexed triangle, wound so that its edge functions are
// positive inside.
type triangle struct {
	v    [3]render.Vertex
	area float64
}

// triangles resolves the index list, dropping degenerate triangles and
// indices that are out of range.
func triangles(vertices []render.Vertex, indices []uint16) []triangle {
	tris := make([]triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if a >= len(vertices) || b >= len(vertices) || c >= len(vertices) {
			continue
		}
		t := triangle{v: [3]render.Vertex{vertices[a], vertices[b], vertices[c]}}
		t.area = edge(t.v[0], t.v[1], vx(t.v[2]), vy(t.v[2]))
		if t.area < 0 {
			t.v[1], t.v[2] = t.v[2], t.v[1]
			t.area = -t.area
		}
		if t.area == 0 {
			continue
		}
		tris = append(tris, t)
	}
	return tris
}

func vx(v render.Vertex) float64 { return float64(v.DstX) }
func vy(v render.Vertex) float64 { return float64(v.DstY) }

// edge is the edge function of a→b evaluated at (px, py).
func edge(a, b render.Vertex, px, py float64) float64 {
	return (vx(b)-vx(a))*(py-vy(a)) - (vy(b)-vy(a))*(px-vx(a))
}

// ownsEdge breaks ties for points exactly on an edge, so that two
// triangles sharing the edge never both claim the point.
func ownsEdge(a, b render.Vertex) bool {
	dx, dy := vx(b)-vx(a), vy(b)-vy(a)
	return dy > 0 || (dy == 0 && dx < 0)
}

// bary returns the barycentric weights of (px, py) and whether the point
// lies inside the triangle.
func (t triangle) bary(px, py float64) ([3]float64, bool) {
	w0 := edge(t.v[1], t.v[2], px, py)
	w1 := edge(t.v[2], t.v[0], px, py)
	w2 := edge(t.v[0], t.v[1], px, py)
	inside := (w0 > 0 || (w0 == 0 && ownsEdge(t.v[1], t.v[2]))) &&
		(w1 > 0 || (w1 == 0 && ownsEdge(t.v[2], t.v[0]))) &&
		(w2 > 0 || (w2 == 0 && ownsEdge(t.v[0], t.v[1])))
	return [3]float64{w0 / t.area, w1 / t.area, w2 / t.area}, inside
}

// bounds returns the pixels the triangle may touch.
func (t triangle) bounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range t.v {
		minX, minY = math.Min(minX, vx(v)), math.Min(minY, vy(v))
		maxX, maxY = math.Max(maxX, vx(v)), math.Max(maxY, vy(v))
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// nearest returns the clamped barycentric weights of the triangle closest
// to (px, py). It is used for antialiased edge pixels whose centre lies
// outside every triangle.
func nearest(tris []triangle, px, py float64) (triangle, [3]float64) {
	best, bestScore := 0, math.Inf(-1)
	var bestW [3]float64
	for i, t := range tris {
		w, _ := t.bary(px, py)
		if score := math.Min(w[0], math.Min(w[1], w[2])); score > bestScore {
			best, bestScore, bestW = i, score, w
		}
	}
	sum := 0.0
	for k := range bestW {
		bestW[k] = math.Max(bestW[k], 0)
		sum += bestW[k]
	}
	if sum > 0 {
		for k := range bestW {
			bestW[k] /= sum
		}
	}
	return tris[best], bestW
}

// shade computes the premultiplied colour of a triangle at the given
// barycentric weights.
type shade func(t triangle, w [3]float64, px, py float64) gg.RGBA

// fill rasterises the triangles into the image. Without antialiasing a
// pixel is drawn when its centre is inside a triangle. With antialiasing
// the coverage of the union of all triangles is used, so shared edges
// leave no seams.
func (i *Image) fill(tris []triangle, antiAlias bool, mode render.Blend, color shade) {
	if len(tris) == 0 {
		return
	}

	area := image.Rectangle{}
	for _, t := range tris {
		area = area.Union(t.bounds())
	}
	area = area.Intersect(i.rect)
	if area.Empty() {
		return
	}

	var coverage *image.Alpha
	if antiAlias {
		coverage = rasterize(tris, area)
	}

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			cov := 1.0
			if coverage != nil {
				cov = float64(coverage.AlphaAt(x-area.Min.X, y-area.Min.Y).A) / 255
				if cov == 0 {
					continue
				}
			}

			hit := false
			for _, t := range tris {
				if w, inside := t.bary(px, py); inside {
					i.blendPixel(x, y, color(t, w, px, py), cov, mode)
					hit = true
					break
				}
			}
			if !hit && coverage != nil {
				t, w := nearest(tris, px, py)
				i.blendPixel(x, y, color(t, w, px, py), cov, mode)
			}
		}
	}
}

// rasterize returns the antialiased coverage of the union of the
// triangles over area, in area-relative coordinates.
func rasterize(tris []triangle, area image.Rectangle) *image.Alpha {
	z := vector.NewRasterizer(area.Dx(), area.Dy())
	z.DrawOp = draw.Src
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	for _, t := range tris {
		z.MoveTo(float32(vx(t.v[0])-ox), float32(vy(t.v[0])-oy))
		z.LineTo(float32(vx(t.v[1])-ox), float32(vy(t.v[1])-oy))
		z.LineTo(float32(vx(t.v[2])-ox), float32(vy(t.v[2])-oy))
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, area.Dx(), area.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// vertexColor interpolates the premultiplied vertex colours.
func vertexColor(t triangle, w [3]float64) gg.RGBA {
	var c gg.RGBA
	for k, v := range t.v {
		c.R += w[k] * float64(v.ColorR)
		c.G += w[k] * float64(v.ColorG)
		c.B += w[k] * float64(v.ColorB)
		c.A += w[k] * float64(v.ColorA)
	}
	return c
}

// DrawTriangles draws textured, vertex-coloured triangles. Texels are
// sampled with nearest filtering and clamped to the source bounds.
func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	src := mustImage(img)
	var o render.DrawTrianglesOptions
	if opts != nil {
		o = *opts
	}

	i.fill(triangles(vertices, indices), o.AntiAlias, o.Blend, func(t triangle, w [3]float64, _, _ float64) gg.RGBA {
		var u, v float64
		for k, vert := range t.v {
			u += w[k] * float64(vert.SrcX)
			v += w[k] * float64(vert.SrcY)
		}
		tx := min(max(int(math.Floor(u)), src.rect.Min.X), src.rect.Max.X-1)
		ty := min(max(int(math.Floor(v)), src.rect.Min.Y), src.rect.Max.Y-1)
		texel := toFloat(src.pix.RGBAAt(tx, ty))

		c := vertexColor(t, w)
		return gg.RGBA{R: texel.R * c.R, G: texel.G * c.G, B: texel.B * c.B, A: texel.A * c.A}
	})
}

// DrawTrianglesShader draws triangles coloured by a fragment program. The
// program sees pixel centres in destination coordinates.
func (i *Image) DrawTrianglesShader(vertices []render.Vertex, indices []uint16, shader render.Shader, opts *render.DrawTrianglesShaderOptions) {
	s, ok := shader.(*Shader)
	if !ok {
		panic("software: shader from another renderer")
	}
	var o render.DrawTrianglesShaderOptions
	if opts != nil {
		o = *opts
	}

	frag := s.program(o.Uniforms)
	i.fill(triangles(vertices, indices), false, o.Blend, func(_ triangle, _ [3]float64, px, py float64) gg.RGBA {
		return frag(px, py)
	})
}
