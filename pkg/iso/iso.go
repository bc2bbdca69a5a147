// Package iso converts between grid cells, isometric world pixels and depth keys.
//
// Grid space has X growing to the screen's lower right and Y growing to the
// lower left. A tile's isometric position is the top-left corner of the
// bounding box of its diamond sprite. All functions are pure.
package iso

import (
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// DefaultOriginY is the vertical screen anchor of grid cell (0,0).
const DefaultOriginY = 60

// MapOrigin returns the screen anchor for grid cell (0,0): horizontally
// centered in the viewport and DefaultOriginY pixels from the top.
func MapOrigin(viewportWidth int) math.Vec2 {
	return math.Vec2{X: float32(viewportWidth) * 0.5, Y: DefaultOriginY}
}

// GridToIsoTopLeft returns the top-left pixel of the tile sprite at grid,
// offset by origin.
func GridToIsoTopLeft(grid math.Vec2, tileW, tileH int, origin math.Vec2) math.Vec2 {
	halfW := float32(tileW) * 0.5
	halfH := float32(tileH) * 0.5

	return math.Vec2{
		X: (grid.X-grid.Y)*halfW + origin.X,
		Y: (grid.X+grid.Y)*halfH + origin.Y,
	}
}

// IsoTopLeftToGrid inverts GridToIsoTopLeft for an origin-relative position.
// Non-positive tile sizes yield the zero vector.
func IsoTopLeftToGrid(iso math.Vec2, tileW, tileH int) math.Vec2 {
	halfW := float32(tileW) * 0.5
	halfH := float32(tileH) * 0.5
	if halfW <= 0 || halfH <= 0 {
		return math.Vec2{}
	}

	return math.Vec2{
		X: (iso.X/halfW + iso.Y/halfH) * 0.5,
		Y: (iso.Y/halfH - iso.X/halfW) * 0.5,
	}
}

// ObjectPixelsToGrid converts an authored object position to a grid position.
//
// Authored object anchors sit at the bottom-center of a tile. The anchor is
// moved to the tile's top-left before inverting, and the result is biased by
// half a cell so objects land on tile centers.
func ObjectPixelsToGrid(objectPos math.Vec2, tileW, tileH int) math.Vec2 {
	halfW := float32(tileW) * 0.5
	if halfW <= 0 || tileH <= 0 {
		return math.Vec2{}
	}

	topLeft := math.Vec2{
		X: objectPos.X - halfW,
		Y: objectPos.Y - float32(tileH),
	}

	g := IsoTopLeftToGrid(topLeft, tileW, tileH)
	return math.Vec2{X: g.X + 0.5, Y: g.Y + 0.5}
}

// GridToObjectPixels is the inverse of ObjectPixelsToGrid: it returns the
// authored object position that maps to grid.
func GridToObjectPixels(grid math.Vec2, tileW, tileH int) math.Vec2 {
	p := GridToIsoTopLeft(math.Vec2{X: grid.X - 0.5, Y: grid.Y - 0.5}, tileW, tileH, math.Vec2{})
	return math.Vec2{X: p.X + float32(tileW)*0.5, Y: p.Y + float32(tileH)}
}

// GroundPoint returns the world pixel under a continuous grid position.
// Integer grid points are the top corners of their cell's diamond, so a
// position at a cell center lands on the center of that cell.
func GroundPoint(grid math.Vec2, tileW, tileH int, origin math.Vec2) math.Vec2 {
	p := GridToIsoTopLeft(grid, tileW, tileH, origin)
	return math.Vec2{X: p.X + float32(tileW)*0.5, Y: p.Y}
}

// GroundToGrid inverts GroundPoint: it returns the grid position under the
// world pixel p.
func GroundToGrid(p math.Vec2, tileW, tileH int, origin math.Vec2) math.Vec2 {
	rel := math.Vec2{X: p.X - origin.X - float32(tileW)*0.5, Y: p.Y - origin.Y}
	return IsoTopLeftToGrid(rel, tileW, tileH)
}

// TileFeet returns the ground-contact point of a tile whose sprite top-left
// is topLeft: the bottom-center of its bounding box.
func TileFeet(topLeft math.Vec2, tileW, tileH int) math.Vec2 {
	return math.Vec2{
		X: topLeft.X + float32(tileW)*0.5,
		Y: topLeft.Y + float32(tileH),
	}
}

// DepthKeyFromFeetWorldY maps a feet world Y to a depth key.
// Larger keys are drawn later. The mapping is strictly increasing, so sprites
// with different feet Y never compare equal.
func DepthKeyFromFeetWorldY(feetWorldY float32) float32 {
	return feetWorldY
}

// Diagonal returns the index of the isometric row containing cell (gx, gy).
// Cells on the same diagonal share a screen row.
func Diagonal(gx, gy int) int {
	return gx + gy
}

// DiagonalCount returns the number of diagonals of a width x height grid.
func DiagonalCount(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return width + height - 1
}

// DiagonalSpan returns the inclusive X range of cells on diagonal sum.
func DiagonalSpan(sum, width, height int) (xStart, xEnd int) {
	xStart = max(0, sum-(height-1))
	xEnd = min(width-1, sum)
	return xStart, xEnd
}
