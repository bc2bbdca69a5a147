package entity

import (
	"github.com/Faultbox/midgard-iso/internal/engine/renderqueue"
	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/internal/engine/tiles"
	"github.com/Faultbox/midgard-iso/pkg/iso"
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// FramesPerDirection is the number of walk frames in each sprite sheet row.
const FramesPerDirection = 4

// DefaultPlayerSize is the sprite size of a player, taller than a tile.
var DefaultPlayerSize = math.Vec2{X: 64, Y: 96}

// Player is the controllable actor. Its sprite stands with its bottom-center
// on the ground point under GridPos.
type Player struct {
	Texture texture.Handle
	Size    math.Vec2

	// Sheet maps Frame to UVs. A zero sheet draws the whole texture.
	Sheet tiles.SpriteSheet

	// GridPos is the continuous grid position; cell (x, y) spans
	// [x, x+1) x [y, y+1).
	GridPos math.Vec2

	// FeetOffset is the pixel offset from the sprite's bottom-center to
	// where its feet are drawn.
	FeetOffset math.Vec2

	// VisualOffset shifts the sprite without moving its depth.
	VisualOffset math.Vec2

	Facing Facing
	Frame  int
}

// NewPlayer creates a player at grid position pos.
func NewPlayer(tex texture.Handle, size math.Vec2, pos math.Vec2) *Player {
	if size.X <= 0 || size.Y <= 0 {
		size = DefaultPlayerSize
	}
	return &Player{Texture: tex, Size: size, GridPos: pos}
}

// TilePos returns the cell the player stands in.
func (p *Player) TilePos() (int, int) {
	return p.GridPos.Floor()
}

// FeetWorld returns the world pixel the player stands on.
func (p *Player) FeetWorld(tileW, tileH int, origin math.Vec2) math.Vec2 {
	return iso.GroundPoint(p.GridPos, tileW, tileH, origin)
}

// DepthKey returns the player's render queue depth.
func (p *Player) DepthKey(tileW, tileH int, origin math.Vec2) float32 {
	return iso.DepthKeyFromFeetWorldY(p.FeetWorld(tileW, tileH, origin).Y)
}

// SetFrame selects the sheet frame for a facing and walk step.
func (p *Player) SetFrame(f Facing, step int) {
	p.Facing = f
	p.Frame = int(f)*FramesPerDirection + step
}

// Cmd returns the player's draw command.
func (p *Player) Cmd(tileW, tileH int, origin math.Vec2) renderqueue.Cmd {
	feet := p.FeetWorld(tileW, tileH, origin)
	topLeft := math.Vec2{
		X: feet.X - p.FeetOffset.X - p.Size.X*0.5,
		Y: feet.Y - p.FeetOffset.Y - p.Size.Y,
	}

	uvMin, uvMax := math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 1}
	if p.Sheet.Frames() > 0 {
		uvMin, uvMax = p.Sheet.FrameUV(p.Frame)
	}

	return renderqueue.Cmd{
		Texture: p.Texture,
		Pos:     topLeft.Add(p.VisualOffset),
		Size:    p.Size,
		UVMin:   uvMin,
		UVMax:   uvMax,
		Depth:   iso.DepthKeyFromFeetWorldY(feet.Y),
	}
}

// AppendToQueue pushes the player's draw command into q.
func (p *Player) AppendToQueue(q *renderqueue.Queue, tileW, tileH int, origin math.Vec2) {
	q.Push(p.Cmd(tileW, tileH, origin))
}
