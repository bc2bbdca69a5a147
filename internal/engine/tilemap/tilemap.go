// Package tilemap draws the tile layers of a loaded map in isometric order.
//
// Ground and overhead layers are drawn straight to the rasterizer. Walls and
// tile objects go through the render queue so they interleave with actors.
package tilemap

import (
	"github.com/Faultbox/midgard-iso/internal/engine/camera"
	"github.com/Faultbox/midgard-iso/internal/engine/renderqueue"
	"github.com/Faultbox/midgard-iso/internal/engine/tiles"
	"github.com/Faultbox/midgard-iso/pkg/iso"
	"github.com/Faultbox/midgard-iso/pkg/math"
	"github.com/Faultbox/midgard-iso/pkg/tmx"
)

// Layer selects one of the drawable layers.
type Layer int

const (
	Ground Layer = iota
	Walls
	Overhead
	layerCount
)

// DefaultCullMargin is how far past the viewport edges cells are still drawn.
const DefaultCullMargin = 64

// Grid holds the drawable layers of a map with their screen placement.
type Grid struct {
	Width  int
	Height int
	TileW  int
	TileH  int

	// Origin is the world position of cell (0,0)'s sprite top-left.
	Origin math.Vec2

	CullMargin float32

	layers    [layerCount]*tmx.TileLayer
	instances []tmx.ObjectInstance
}

// NewGrid creates a grid for m anchored at origin.
func NewGrid(m *tmx.Map, origin math.Vec2) *Grid {
	g := &Grid{
		Width:      m.Width,
		Height:     m.Height,
		TileW:      m.TileWidth,
		TileH:      m.TileHeight,
		Origin:     origin,
		CullMargin: DefaultCullMargin,
		instances:  m.Instances,
	}
	g.layers[Ground] = m.Ground
	g.layers[Walls] = m.Walls
	g.layers[Overhead] = m.Overhead
	return g
}

// TileAt returns the gid at (x, y) on layer l, or 0 when the cell is outside
// the grid or the layer is absent.
func (g *Grid) TileAt(l Layer, x, y int) uint32 {
	if l < 0 || l >= layerCount || x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	layer := g.layers[l]
	if layer == nil {
		return 0
	}
	i := y*g.Width + x
	if i >= len(layer.GIDs) {
		return 0
	}
	return layer.GIDs[i]
}

// CellTopLeft returns the world position of the sprite top-left of cell (x, y).
func (g *Grid) CellTopLeft(x, y int) math.Vec2 {
	return iso.GridToIsoTopLeft(math.Vec2{X: float32(x), Y: float32(y)}, g.TileW, g.TileH, g.Origin)
}

// CellFeet returns the world feet point of cell (x, y).
func (g *Grid) CellFeet(x, y int) math.Vec2 {
	return iso.TileFeet(g.CellTopLeft(x, y), g.TileW, g.TileH)
}

// DrawGround draws the ground layer back to front and returns the number of
// tiles drawn.
func (g *Grid) DrawGround(r renderqueue.Rasterizer, res *tiles.Resolver, cam *camera.Camera2D, clockMs float64) int {
	return g.drawLayer(Ground, r, res, cam, clockMs)
}

// DrawOverhead draws the overhead layer back to front and returns the number
// of tiles drawn.
func (g *Grid) DrawOverhead(r renderqueue.Rasterizer, res *tiles.Resolver, cam *camera.Camera2D, clockMs float64) int {
	return g.drawLayer(Overhead, r, res, cam, clockMs)
}

// AppendOccluders pushes wall tiles and tile objects into q with depth keys
// taken from their feet. It returns the number of commands pushed.
func (g *Grid) AppendOccluders(q *renderqueue.Queue, res *tiles.Resolver, cam *camera.Camera2D, clockMs float64) int {
	n := 0
	g.eachCell(Walls, func(x, y int, gid uint32) {
		cmd, ok := g.tileCmd(x, y, gid, res, clockMs)
		if !ok || !g.visible(cam, cmd) {
			return
		}
		q.Push(cmd)
		n++
	})

	for i := range g.instances {
		cmd, ok := g.instanceCmd(&g.instances[i], res, clockMs)
		if !ok || !g.visible(cam, cmd) {
			continue
		}
		q.Push(cmd)
		n++
	}
	return n
}

func (g *Grid) drawLayer(l Layer, r renderqueue.Rasterizer, res *tiles.Resolver, cam *camera.Camera2D, clockMs float64) int {
	n := 0
	g.eachCell(l, func(x, y int, gid uint32) {
		cmd, ok := g.tileCmd(x, y, gid, res, clockMs)
		if !ok || !g.visible(cam, cmd) {
			return
		}
		r.Draw(cmd.Texture, cmd.Pos, cmd.Size, cam, cmd.UVMin, cmd.UVMax)
		n++
	})
	return n
}

// eachCell visits the non-empty cells of a visible layer diagonal by
// diagonal, back to front.
func (g *Grid) eachCell(l Layer, fn func(x, y int, gid uint32)) {
	layer := g.layers[l]
	if layer == nil || !layer.Visible || len(layer.GIDs) < g.Width*g.Height {
		return
	}

	for sum := 0; sum < iso.DiagonalCount(g.Width, g.Height); sum++ {
		xStart, xEnd := iso.DiagonalSpan(sum, g.Width, g.Height)
		for x := xStart; x <= xEnd; x++ {
			y := sum - x
			gid := layer.GIDs[y*g.Width+x]
			if gid == 0 {
				continue
			}
			fn(x, y, gid)
		}
	}
}

// tileCmd builds the draw command of a cell. Sprites taller or wider than a
// tile stand on the cell's feet point.
func (g *Grid) tileCmd(x, y int, gid uint32, res *tiles.Resolver, clockMs float64) (renderqueue.Cmd, bool) {
	rt, ok := res.Resolve(gid, clockMs)
	if !ok {
		return renderqueue.Cmd{}, false
	}

	size := rt.Size
	if size.X <= 0 || size.Y <= 0 {
		size = math.Vec2{X: float32(g.TileW), Y: float32(g.TileH)}
	}
	feet := g.CellFeet(x, y)

	return renderqueue.Cmd{
		Texture: rt.Texture,
		Pos:     math.Vec2{X: feet.X - size.X*0.5, Y: feet.Y - size.Y},
		Size:    size,
		UVMin:   rt.UVMin,
		UVMax:   rt.UVMax,
		Depth:   iso.DepthKeyFromFeetWorldY(feet.Y),
	}, true
}

// instanceCmd builds the draw command of a tile object. Its authored anchor
// is its feet point relative to the map origin.
func (g *Grid) instanceCmd(o *tmx.ObjectInstance, res *tiles.Resolver, clockMs float64) (renderqueue.Cmd, bool) {
	rt, ok := res.Resolve(o.GID, clockMs)
	if !ok {
		return renderqueue.Cmd{}, false
	}

	uvMin, uvMax := rt.UVMin, rt.UVMax
	if o.Flips.Horizontal() {
		uvMin.X, uvMax.X = uvMax.X, uvMin.X
	}
	if o.Flips.Vertical() {
		uvMin.Y, uvMax.Y = uvMax.Y, uvMin.Y
	}

	return renderqueue.Cmd{
		Texture: rt.Texture,
		Pos:     g.Origin.Add(o.WorldPos),
		Size:    o.Size,
		UVMin:   uvMin,
		UVMax:   uvMax,
		Depth:   iso.DepthKeyFromFeetWorldY(g.Origin.Y + o.Anchor().Y),
	}, true
}

func (g *Grid) visible(cam *camera.Camera2D, cmd renderqueue.Cmd) bool {
	if cam == nil {
		return true
	}
	return cam.Visible(math.Rect{Pos: cmd.Pos, Size: cmd.Size}, g.CullMargin)
}
