package shadows

// Boundary holds the two silhouette vertices of an occluder as seen from a
// light. The dark arc runs forward from Second to First.
type Boundary struct {
	// First is the vertex where the loop leaves the back-facing arc.
	First int
	// Second is the vertex where the loop enters the back-facing arc.
	Second int
}

// Span returns the number of edges on the dark arc of an n-vertex loop.
func (b Boundary) Span(n int) int {
	return ((b.First-b.Second)%n + n) % n
}

// ClassifyEdges reports, for every edge of the polygon, whether it faces away
// from the light. Edge i is back-facing when its normal (-Δy, Δx) has a
// strictly positive dot product with the vector from the edge midpoint to
// the light. An edge seen exactly edge-on is front-facing.
func ClassifyEdges(light Point, poly Polygon) []bool {
	backFacing := make([]bool, len(poly))
	for i := range poly {
		backFacing[i] = IsFacingPoint(poly.Edge(i), light)
	}
	return backFacing
}

// FindBoundaries walks the classification cyclically and records the vertex
// after every facing flip. Entering the back-facing arc sets Second, leaving
// it sets First. The second return value is false unless both kinds of flip
// were seen.
//
// Only one contiguous back-facing arc is supported. When a concave occluder
// produces several dark arcs the last flip of each kind wins and the
// resulting mask covers a single arc only.
func FindBoundaries(backFacing []bool) (Boundary, bool) {
	n := len(backFacing)
	b := Boundary{First: -1, Second: -1}

	for current := 0; current < n; current++ {
		next := (current + 1) % n
		if backFacing[current] == backFacing[next] {
			continue
		}
		if backFacing[next] {
			b.Second = next
		} else {
			b.First = next
		}
	}

	if b.First < 0 || b.Second < 0 {
		return Boundary{}, false
	}
	return b, true
}

// Mask is the shadow wedge cast by one occluder from one light. Points
// alternate between a silhouette vertex and the end of the ray projected
// from the light through it, so they can be drawn as a triangle strip.
type Mask struct {
	Boundary Boundary
	Points   []Point
}

// Empty reports whether the mask casts no shadow.
func (m Mask) Empty() bool {
	return len(m.Points) == 0
}

// BuildMask computes the shadow wedge of poly for a light at the given
// position and radius. Polygons with fewer than two vertices, and polygons
// without a pair of facing flips, yield an empty mask.
func BuildMask(light Point, radius float64, poly Polygon) Mask {
	if len(poly) < 2 {
		return Mask{}
	}

	b, ok := FindBoundaries(ClassifyEdges(light, poly))
	if !ok {
		return Mask{}
	}

	n := len(poly)
	span := b.Span(n)
	points := make([]Point, 0, 2*(span+1))
	for offset := 0; offset <= span; offset++ {
		v := poly[(b.Second+offset)%n]
		points = append(points, v, ProjectRay(light, v, radius))
	}

	return Mask{Boundary: b, Points: points}
}

// ProjectRay returns v moved away from the light by radius along the
// light→v direction. When v coincides with the light there is no direction
// and v itself is returned.
func ProjectRay(light, v Point, radius float64) Point {
	ray := v.Sub(light)
	length := ray.Length()
	if length == 0 {
		return v
	}
	return ray.Mul(1 / length).Mul(radius).Add(v)
}
