// Package shadows extracts shadow silhouettes from polygonal occluders.
//
// Coordinates are screen space: x grows to the right and y grows downward.
// Occluder polygons are expected in clockwise order as seen on screen, which
// is a positive shoelace area in these coordinates. Reversing the winding
// inverts every edge classification.
package shadows

import "seehuhn.de/go/geom/vec"

// Point represents a 2D point in space
type Point = vec.Vec2

// Polygon is an implicitly closed vertex loop. Edge i joins vertex i to
// vertex (i+1) mod len(p).
type Polygon []Point

// Coord represents a tile coordinate
type Coord struct {
	X, Y int
}

// Segment represents one directed polygon edge.
type Segment struct {
	A, B Point
}

// Winding describes the orientation of a polygon on screen.
type Winding int

const (
	// WindingDegenerate means the polygon encloses no area.
	WindingDegenerate Winding = iota
	// WindingClockwise is the orientation the edge classification assumes.
	WindingClockwise
	// WindingCounterClockwise inverts every back-facing classification.
	WindingCounterClockwise
)

// String returns a string representation of the winding.
func (w Winding) String() string {
	switch w {
	case WindingClockwise:
		return "clockwise"
	case WindingCounterClockwise:
		return "counter-clockwise"
	default:
		return "degenerate"
	}
}
