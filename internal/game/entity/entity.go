// Package entity implements actors that move over the map and are drawn
// through the render queue.
package entity

import (
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// Facing is the screen direction an actor looks at. Its value is the row of
// the actor's sprite sheet.
type Facing int

const (
	FacingDown Facing = iota
	FacingLeft
	FacingRight
	FacingUp
)

// String returns the direction name.
func (f Facing) String() string {
	switch f {
	case FacingLeft:
		return "left"
	case FacingRight:
		return "right"
	case FacingUp:
		return "up"
	default:
		return "down"
	}
}

// FacingFor returns the facing for a screen-space direction along its
// dominant axis. When both axes are equal, current is kept so diagonal moves
// do not flicker.
func FacingFor(screenDir math.Vec2, current Facing) Facing {
	ax, ay := abs32(screenDir.X), abs32(screenDir.Y)
	switch {
	case ax > ay && screenDir.X > 0:
		return FacingRight
	case ax > ay:
		return FacingLeft
	case ay > ax && screenDir.Y > 0:
		return FacingDown
	case ay > ax:
		return FacingUp
	default:
		return current
	}
}

// ScreenToGrid converts a screen-space direction to a unit grid direction.
// Screen right is grid (+1,-1) and screen down is grid (+1,+1).
func ScreenToGrid(screenDir math.Vec2) math.Vec2 {
	g := math.Vec2{
		X: screenDir.X + screenDir.Y,
		Y: -screenDir.X + screenDir.Y,
	}
	return g.Normalize()
}

// GridToScreen converts a grid direction to a unit screen-space direction.
func GridToScreen(gridDir math.Vec2) math.Vec2 {
	s := math.Vec2{
		X: gridDir.X - gridDir.Y,
		Y: gridDir.X + gridDir.Y,
	}
	return s.Normalize()
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
