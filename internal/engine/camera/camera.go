// Package camera provides the 2D camera used to render the isometric map.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-iso/pkg/math"
)

// Default follow settings.
var (
	DefaultSmoothing = math.Vec2{X: 12, Y: 12}
	DefaultDeadZone  = math.Vec2{X: 32, Y: 16}
)

// Camera2D stores the top-left corner of the view in world pixels.
//
//	screenPos = worldPos - Position
type Camera2D struct {
	Position math.Vec2
	Viewport math.Vec2 // view size in pixels

	// Follow tuning
	Smoothing math.Vec2 // per-axis approach rate, <= 0 snaps
	DeadZone  math.Vec2 // half-size of the centered box the target may roam freely
}

// New creates a camera for a viewport of the given size.
func New(viewportW, viewportH int) *Camera2D {
	return &Camera2D{
		Viewport:  math.Vec2{X: float32(viewportW), Y: float32(viewportH)},
		Smoothing: DefaultSmoothing,
		DeadZone:  DefaultDeadZone,
	}
}

// Move shifts the camera by delta pixels.
func (c *Camera2D) Move(delta math.Vec2) {
	c.Position = c.Position.Add(delta)
}

// SetPosition sets the camera's top-left corner.
func (c *Camera2D) SetPosition(p math.Vec2) {
	c.Position = p
}

// SetViewport updates the view size, e.g. after a window resize.
func (c *Camera2D) SetViewport(w, h int) {
	c.Viewport = math.Vec2{X: float32(w), Y: float32(h)}
}

// WorldToScreen converts a world pixel position to screen pixels.
func (c *Camera2D) WorldToScreen(p math.Vec2) math.Vec2 {
	return p.Sub(c.Position)
}

// ScreenToWorld converts a screen pixel position to world pixels.
func (c *Camera2D) ScreenToWorld(p math.Vec2) math.Vec2 {
	return p.Add(c.Position)
}

// Bounds returns the visible world rectangle.
func (c *Camera2D) Bounds() math.Rect {
	return math.Rect{Pos: c.Position, Size: c.Viewport}
}

// Visible reports whether r, grown by margin on every side, overlaps the view.
// A camera without a viewport size sees everything.
func (c *Camera2D) Visible(r math.Rect, margin float32) bool {
	if c.Viewport.X <= 0 || c.Viewport.Y <= 0 {
		return true
	}
	grown := math.Rect{
		Pos:  math.Vec2{X: r.Pos.X - margin, Y: r.Pos.Y - margin},
		Size: math.Vec2{X: r.Size.X + 2*margin, Y: r.Size.Y + 2*margin},
	}
	return grown.Intersects(c.Bounds())
}

// CenterOn places target at the center of the view.
func (c *Camera2D) CenterOn(target math.Vec2) {
	c.Position = target.Sub(c.Viewport.Scale(0.5))
}

// Follow moves the camera toward target over dt seconds. The camera only
// moves once target leaves the dead zone, and then just far enough to bring
// it back to the dead zone's edge.
func (c *Camera2D) Follow(target math.Vec2, dt float32) {
	center := c.Position.Add(c.Viewport.Scale(0.5))
	d := target.Sub(center)

	shift := math.Vec2{
		X: outside(d.X, c.DeadZone.X),
		Y: outside(d.Y, c.DeadZone.Y),
	}

	c.Position.X += shift.X * approach(c.Smoothing.X, dt)
	c.Position.Y += shift.Y * approach(c.Smoothing.Y, dt)
}

// outside returns how far d lies beyond [-zone, zone].
func outside(d, zone float32) float32 {
	zone = max(zone, 0)
	switch {
	case d > zone:
		return d - zone
	case d < -zone:
		return d + zone
	default:
		return 0
	}
}

// approach returns the fraction of the remaining distance covered in dt.
func approach(rate, dt float32) float32 {
	if rate <= 0 {
		return 1
	}
	if dt <= 0 {
		return 0
	}
	return 1 - float32(gomath.Exp(-float64(rate*dt)))
}
