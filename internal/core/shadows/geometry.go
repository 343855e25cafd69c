package shadows

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// dot returns the scalar product of a and b.
func dot(a, b Point) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Edge returns edge i of the polygon, wrapping the last vertex back to 0.
func (p Polygon) Edge(i int) Segment {
	return Segment{A: p[i], B: p[(i+1)%len(p)]}
}

// Normal returns the segment normal (-Δy, Δx). For a clockwise polygon on
// screen this points into the polygon.
func (s Segment) Normal() Point {
	d := s.B.Sub(s.A)
	return vec.Vec2{X: -d.Y, Y: d.X}
}

// Midpoint returns the point halfway between A and B.
func (s Segment) Midpoint() Point {
	return s.A.Add(s.B).Mul(0.5)
}

// IsFacingPoint checks if the segment normal points towards the given point,
// measured from the segment midpoint. A point exactly on the segment's line
// is not facing.
func IsFacingPoint(seg Segment, point Point) bool {
	toPoint := point.Sub(seg.Midpoint())
	return dot(seg.Normal(), toPoint) > 0
}

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point Point, polygon Polygon) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return b.Sub(a).Length()
}

// SignedArea returns the shoelace area of the polygon. It is positive for
// loops that run clockwise on screen.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		e := p.Edge(i)
		sum += e.A.X*e.B.Y - e.B.X*e.A.Y
	}
	return sum / 2
}

// Winding reports the orientation of the polygon.
func (p Polygon) Winding() Winding {
	area := p.SignedArea()
	switch {
	case area > 0:
		return WindingClockwise
	case area < 0:
		return WindingCounterClockwise
	default:
		return WindingDegenerate
	}
}

// Reverse returns a copy of the polygon with the vertex order reversed.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// EnsureClockwise returns a copy of the polygon in clockwise order.
// Degenerate polygons are copied unchanged.
func (p Polygon) EnsureClockwise() Polygon {
	if p.Winding() == WindingCounterClockwise {
		return p.Reverse()
	}
	return p.Clone()
}

// Clone returns a copy of the vertex loop.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Centroid returns the mean of the vertices. An empty polygon has its
// centroid at the origin.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	var sum Point
	for _, v := range p {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(p)))
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (p Polygon) Bounds() rect.Rect {
	if len(p) == 0 {
		return rect.Rect{}
	}
	b := rect.Rect{LLx: math.Inf(1), LLy: math.Inf(1), URx: math.Inf(-1), URy: math.Inf(-1)}
	for _, v := range p {
		b.LLx = min(b.LLx, v.X)
		b.LLy = min(b.LLy, v.Y)
		b.URx = max(b.URx, v.X)
		b.URy = max(b.URy, v.Y)
	}
	return b
}

// DistanceToRect returns the distance from a point to the closest point of
// an axis-aligned rectangle. Points inside the rectangle are at distance 0.
func DistanceToRect(point Point, r rect.Rect) float64 {
	closest := Point{
		X: math.Max(r.LLx, math.Min(point.X, r.URx)),
		Y: math.Max(r.LLy, math.Min(point.Y, r.URy)),
	}
	return Distance(point, closest)
}
