package world

import (
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// DefaultArriveDistance is how close, in cells, an actor must get to a
// waypoint's center before moving on to the next one.
const DefaultArriveDistance = 0.1

// PathFollower walks an actor along a path of cells.
type PathFollower struct {
	pathFinder *PathFinder
	path       [][2]int
	index      int

	ArriveDistance float32
}

// NewPathFollower creates a follower that plans with pf.
func NewPathFollower(pf *PathFinder) *PathFollower {
	return &PathFollower{pathFinder: pf, ArriveDistance: DefaultArriveDistance}
}

// MoveTo plans a path from the cell under pos to (destX, destY). It returns
// false and clears the current path when the destination is unreachable.
func (f *PathFollower) MoveTo(pos math.Vec2, destX, destY int) bool {
	x, y := pos.Floor()
	path := f.pathFinder.FindPath(x, y, destX, destY)
	if len(path) == 0 {
		f.Clear()
		return false
	}

	// The first cell is the one we stand on.
	f.path = path[1:]
	f.index = 0
	return true
}

// Active reports whether there are waypoints left.
func (f *PathFollower) Active() bool {
	return f.index < len(f.path)
}

// Clear drops the current path.
func (f *PathFollower) Clear() {
	f.path = nil
	f.index = 0
}

// Remaining returns the waypoints not yet reached.
func (f *PathFollower) Remaining() [][2]int {
	if !f.Active() {
		return nil
	}
	return f.path[f.index:]
}

// Direction returns the unit grid direction from pos toward the current
// waypoint, advancing past waypoints already reached. It returns the zero
// vector once the path is done.
func (f *PathFollower) Direction(pos math.Vec2) math.Vec2 {
	for f.Active() {
		d := CellCenter(f.path[f.index][0], f.path[f.index][1]).Sub(pos)
		if d.Length() > f.ArriveDistance {
			return d.Normalize()
		}
		f.index++
	}
	return math.Vec2{}
}

// CellCenter returns the grid position of the center of cell (x, y).
func CellCenter(x, y int) math.Vec2 {
	return math.Vec2{X: float32(x) + 0.5, Y: float32(y) + 0.5}
}
