package shadows

import "strings"

// Grid is a tile map where some tiles block light.
type Grid interface {
	Size() (width, height int)
	BlocksLight(x, y int) bool
}

// TileGrid is a row-major Grid parsed from text.
type TileGrid struct {
	width, height int
	blocked       []bool
}

// ParseGrid reads one string per row. '#' marks a blocking tile, anything
// else is open. Short rows are padded with open tiles.
func ParseGrid(rows []string) *TileGrid {
	g := &TileGrid{height: len(rows)}
	for _, row := range rows {
		g.width = max(g.width, len(row))
	}

	g.blocked = make([]bool, g.width*g.height)
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			g.blocked[y*g.width+x] = row[x] == '#'
		}
	}
	return g
}

// Size returns the grid dimensions in tiles.
func (g *TileGrid) Size() (width, height int) {
	return g.width, g.height
}

// BlocksLight reports whether the tile blocks light. Out-of-range tiles are open.
func (g *TileGrid) BlocksLight(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	return g.blocked[y*g.width+x]
}

// String renders the grid back to '#' and '.' rows.
func (g *TileGrid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.BlocksLight(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// OccludersFromGrid turns the blocking tiles of a grid into clockwise
// rectangular occluders. Contiguous regions are found first, then each
// region is covered by maximal horizontal runs that are merged downward
// while the run below has the same extent. origin is the pixel position of
// tile (0, 0).
func OccludersFromGrid(grid Grid, tileSize float64, origin Point) []Polygon {
	width, height := grid.Size()

	var occluders []Polygon
	for _, region := range findContiguousRegions(grid, width, height) {
		for _, r := range coverRegion(region) {
			occluders = append(occluders, r.polygon(tileSize, origin))
		}
	}
	return occluders
}

// tileRect is a rectangle of tiles, max-exclusive.
type tileRect struct {
	x0, y0, x1, y1 int
}

func (r tileRect) polygon(tileSize float64, origin Point) Polygon {
	left := origin.X + float64(r.x0)*tileSize
	top := origin.Y + float64(r.y0)*tileSize
	right := origin.X + float64(r.x1)*tileSize
	bottom := origin.Y + float64(r.y1)*tileSize
	return Polygon{
		{X: left, Y: top},
		{X: right, Y: top},
		{X: right, Y: bottom},
		{X: left, Y: bottom},
	}
}

// findContiguousRegions identifies all connected regions of light-blocking tiles
func findContiguousRegions(grid Grid, width, height int) [][]Coord {
	visited := make(map[Coord]bool)
	var regions [][]Coord

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coord := Coord{X: x, Y: y}
			if visited[coord] || !grid.BlocksLight(x, y) {
				continue
			}

			region := floodFill(grid, coord, width, height, visited)
			if len(region) > 0 {
				regions = append(regions, region)
			}
		}
	}

	return regions
}

// floodFill performs BFS to find all connected light-blocking tiles
func floodFill(grid Grid, start Coord, width, height int, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		// 4-connected, no diagonals
		neighbors := []Coord{
			{X: current.X, Y: current.Y - 1},
			{X: current.X + 1, Y: current.Y},
			{X: current.X, Y: current.Y + 1},
			{X: current.X - 1, Y: current.Y},
		}

		for _, neighbor := range neighbors {
			if neighbor.X < 0 || neighbor.X >= width || neighbor.Y < 0 || neighbor.Y >= height {
				continue
			}
			if visited[neighbor] || !grid.BlocksLight(neighbor.X, neighbor.Y) {
				continue
			}

			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}

	return region
}

// coverRegion splits a region into rectangles. Runs are taken row by row,
// left to right, and grown downward while the next row holds the same run.
func coverRegion(region []Coord) []tileRect {
	inRegion := make(map[Coord]bool, len(region))
	minX, minY := region[0].X, region[0].Y
	maxX, maxY := minX, minY
	for _, c := range region {
		inRegion[c] = true
		minX, minY = min(minX, c.X), min(minY, c.Y)
		maxX, maxY = max(maxX, c.X), max(maxY, c.Y)
	}

	covered := make(map[Coord]bool, len(region))
	free := func(x, y int) bool {
		c := Coord{X: x, Y: y}
		return inRegion[c] && !covered[c]
	}

	var rects []tileRect
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !free(x, y) {
				continue
			}

			x1 := x + 1
			for free(x1, y) {
				x1++
			}

			y1 := y + 1
			for rowFree(free, x, x1, y1) && !free(x-1, y1) && !free(x1, y1) {
				y1++
			}

			for ty := y; ty < y1; ty++ {
				for tx := x; tx < x1; tx++ {
					covered[Coord{X: tx, Y: ty}] = true
				}
			}
			rects = append(rects, tileRect{x0: x, y0: y, x1: x1, y1: y1})
		}
	}
	return rects
}

// rowFree reports whether every tile in [x0, x1) of row y is still free.
func rowFree(free func(x, y int) bool, x0, x1, y int) bool {
	for x := x0; x < x1; x++ {
		if !free(x, y) {
			return false
		}
	}
	return true
}
